package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/catalog"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// BranchHandler 分馆HTTP处理器
type BranchHandler struct {
	uc *catalog.BranchUseCase
}

// NewBranchHandler 创建分馆处理器
func NewBranchHandler(uc *catalog.BranchUseCase) *BranchHandler {
	return &BranchHandler{uc: uc}
}

// List 分馆列表
// @Summary  分馆列表
// @Tags     分馆
// @Produce  json
// @Security BearerAuth
// @Param    query query dto.ListBranchesQuery false "查询参数"
// @Success  200 {object} response.Response{data=response.PageData{list=[]dto.BranchDetailResponse}}
// @Router   /api/v1/branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	var q dto.ListBranchesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	p, err := h.uc.List(c.Request.Context(), q.ToParams())
	if err != nil {
		response.Error(c, err)
		return
	}
	page(c, p.Items, p.Total, p.Page, p.PageSize, dto.NewBranchDetail)
}

// Get 分馆详情
// @Summary  分馆详情
// @Tags     分馆
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "分馆ID"
// @Success  200 {object} response.Response{data=dto.BranchDetailResponse}
// @Router   /api/v1/branches/{id} [get]
func (h *BranchHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBranchDetail(d))
}

// Create 创建分馆
// @Summary  创建分馆
// @Tags     分馆
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    request body dto.BranchRequest true "分馆信息"
// @Success  201 {object} response.Response{data=dto.BranchDetailResponse}
// @Router   /api/v1/branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	var req dto.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	d, err := h.uc.Create(c.Request.Context(), req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewBranchDetail(d))
}

// Update 编辑分馆
// @Summary  编辑分馆
// @Tags     分馆
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    id path int true "分馆ID"
// @Param    request body dto.UpdateBranchRequest true "分馆信息（含version）"
// @Success  200 {object} response.Response{data=dto.BranchDetailResponse}
// @Router   /api/v1/branches/{id} [put]
func (h *BranchHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	d, err := h.uc.Update(c.Request.Context(), id, req.Version, req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBranchDetail(d))
}

// Delete 删除分馆
// 有馆藏图书或未归还借阅时拒绝；读者首选分馆、历史借阅的分馆引用置空
// @Summary  删除分馆
// @Tags     分馆
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    id path int true "分馆ID"
// @Success  200 {object} response.Response
// @Router   /api/v1/branches/{id} [delete]
func (h *BranchHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
