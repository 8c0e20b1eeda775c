package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/catalog"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	uc *catalog.CategoryUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(uc *catalog.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// List 分类列表
// @Summary  分类列表
// @Tags     分类
// @Produce  json
// @Security BearerAuth
// @Param    query query dto.ListCategoriesQuery false "查询参数"
// @Success  200 {object} response.Response{data=response.PageData{list=[]dto.CategoryDetailResponse}}
// @Router   /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var q dto.ListCategoriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	p, err := h.uc.List(c.Request.Context(), q.ToParams())
	if err != nil {
		response.Error(c, err)
		return
	}
	page(c, p.Items, p.Total, p.Page, p.PageSize, dto.NewCategoryDetail)
}

// Get 分类详情
// @Summary  分类详情
// @Tags     分类
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "分类ID"
// @Success  200 {object} response.Response{data=dto.CategoryDetailResponse}
// @Router   /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCategoryDetail(d))
}

// Create 创建分类（名称不区分大小写唯一）
// @Summary  创建分类
// @Tags     分类
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    request body dto.CategoryRequest true "分类信息"
// @Success  201 {object} response.Response{data=dto.CategoryDetailResponse}
// @Router   /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	d, err := h.uc.Create(c.Request.Context(), req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewCategoryDetail(d))
}

// Update 编辑分类
// @Summary  编辑分类
// @Tags     分类
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    id path int true "分类ID"
// @Param    request body dto.UpdateCategoryRequest true "分类信息（含version）"
// @Success  200 {object} response.Response{data=dto.CategoryDetailResponse}
// @Router   /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	d, err := h.uc.Update(c.Request.Context(), id, req.Version, req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCategoryDetail(d))
}

// Delete 删除分类
// @Summary  删除分类
// @Tags     分类
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    id path int true "分类ID"
// @Success  200 {object} response.Response
// @Router   /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
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
