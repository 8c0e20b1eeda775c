package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/catalog"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// AuthorHandler 作者HTTP处理器
type AuthorHandler struct {
	uc *catalog.AuthorUseCase
}

// NewAuthorHandler 创建作者处理器
func NewAuthorHandler(uc *catalog.AuthorUseCase) *AuthorHandler {
	return &AuthorHandler{uc: uc}
}

// List 作者列表
// @Summary      作者列表
// @Tags         作者
// @Produce      json
// @Security     BearerAuth
// @Param        query query dto.ListAuthorsQuery false "查询参数"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.AuthorDetailResponse}}
// @Router       /api/v1/authors [get]
func (h *AuthorHandler) List(c *gin.Context) {
	var q dto.ListAuthorsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	p, err := h.uc.List(c.Request.Context(), q.ToParams())
	if err != nil {
		response.Error(c, err)
		return
	}
	page(c, p.Items, p.Total, p.Page, p.PageSize, dto.NewAuthorDetail)
}

// Get 作者详情
// @Summary      作者详情
// @Tags         作者
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response{data=dto.AuthorDetailResponse}
// @Failure      404 {object} response.Response
// @Router       /api/v1/authors/{id} [get]
func (h *AuthorHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewAuthorDetail(d))
}

// Create 创建作者
// @Summary      创建作者
// @Tags         作者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-CSRF-Token header string true "防伪令牌"
// @Param        request body dto.AuthorRequest true "作者信息"
// @Success      201 {object} response.Response{data=dto.AuthorDetailResponse}
// @Failure      400 {object} response.Response
// @Router       /api/v1/authors [post]
func (h *AuthorHandler) Create(c *gin.Context) {
	var req dto.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	f, err := req.ToFields()
	if err != nil {
		response.Error(c, err)
		return
	}
	d, err := h.uc.Create(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewAuthorDetail(d))
}

// Update 编辑作者
// @Summary      编辑作者
// @Tags         作者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-CSRF-Token header string true "防伪令牌"
// @Param        id path int true "作者ID"
// @Param        request body dto.UpdateAuthorRequest true "作者信息（含version）"
// @Success      200 {object} response.Response{data=dto.AuthorDetailResponse}
// @Failure      409 {object} response.Response "版本冲突"
// @Router       /api/v1/authors/{id} [put]
func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	f, err := req.ToFields()
	if err != nil {
		response.Error(c, err)
		return
	}
	d, err := h.uc.Update(c.Request.Context(), id, req.Version, f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewAuthorDetail(d))
}

// Delete 删除作者（名下有图书时拒绝）
// @Summary      删除作者
// @Tags         作者
// @Security     BearerAuth
// @Param        X-CSRF-Token header string true "防伪令牌"
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response
// @Failure      422 {object} response.Response "名下有图书"
// @Router       /api/v1/authors/{id} [delete]
func (h *AuthorHandler) Delete(c *gin.Context) {
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
