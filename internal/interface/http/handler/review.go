package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/library/internal/application/review"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// ReviewHandler 书评HTTP处理器
type ReviewHandler struct {
	uc *appreview.UseCase
}

func NewReviewHandler(uc *appreview.UseCase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

// List 书评列表
// @Summary  书评列表
// @Tags     书评
// @Produce  json
// @Security BearerAuth
// @Param    query query dto.ListReviewsQuery false "查询参数"
// @Success  200 {object} response.Response{data=response.PageData{list=[]dto.ReviewResponse}}
// @Router   /api/v1/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	var q dto.ListReviewsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	p, err := h.uc.List(c.Request.Context(), q.ToParams())
	if err != nil {
		response.Error(c, err)
		return
	}
	page(c, p.Items, p.Total, p.Page, p.PageSize, dto.NewReview)
}

// @Summary  书评详情
// @Tags     书评
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "书评ID"
// @Success  200 {object} response.Response{data=dto.ReviewResponse}
// @Router   /api/v1/reviews/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewReview(r))
}

// Create 发表书评，同一读者对同一本书只能评一次
// @Summary  发表书评
// @Tags     书评
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    request body dto.ReviewRequest true "书评"
// @Success  201 {object} response.Response{data=dto.ReviewResponse}
// @Router   /api/v1/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	r, err := h.uc.Create(c.Request.Context(), req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewReview(r))
}

// @Summary  编辑书评
// @Tags     书评
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    id path int true "书评ID"
// @Param    request body dto.UpdateReviewRequest true "书评（含version）"
// @Success  200 {object} response.Response{data=dto.ReviewResponse}
// @Router   /api/v1/reviews/{id} [put]
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	r, err := h.uc.Update(c.Request.Context(), id, req.Version, req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewReview(r))
}

// @Summary  删除书评
// @Tags     书评
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    id path int true "书评ID"
// @Success  200 {object} response.Response
// @Router   /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
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
