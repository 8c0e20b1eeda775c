package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	uc *appbook.UseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(uc *appbook.UseCase) *BookHandler {
	return &BookHandler{uc: uc}
}

// List 图书列表
// @Summary      图书列表
// @Description  按书名、ISBN、作者姓名搜索，可按作者、分类、分馆、是否可借过滤
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        query query dto.ListBooksQuery false "查询参数"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.BookDetailResponse}}
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	p, err := h.uc.List(c.Request.Context(), q.ToParams())
	if err != nil {
		response.Error(c, err)
		return
	}
	page(c, p.Items, p.Total, p.Page, p.PageSize, dto.NewBookDetail)
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookDetailResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookDetail(d))
}

// Create 上架图书
// @Summary      上架图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-CSRF-Token header string true "防伪令牌"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.BookDetailResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      422 {object} response.Response "ISBN已存在"
// @Router       /api/v1/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	// 1. 参数绑定与校验
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	f, err := req.ToFields()
	if err != nil {
		response.Error(c, err)
		return
	}

	// 2. 调用用例
	d, err := h.uc.Create(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 响应
	response.Created(c, dto.NewBookDetail(d))
}

// Update 编辑图书
// @Summary      编辑图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-CSRF-Token header string true "防伪令牌"
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "图书信息（含version）"
// @Success      200 {object} response.Response{data=dto.BookDetailResponse}
// @Failure      409 {object} response.Response "版本冲突"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
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
	response.Success(c, dto.NewBookDetail(d))
}

// Delete 删除图书
// @Summary      删除图书
// @Description  有未归还借阅或历史借阅时拒绝，书评级联删除
// @Tags         图书
// @Security     BearerAuth
// @Param        X-CSRF-Token header string true "防伪令牌"
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      422 {object} response.Response "存在借阅"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
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
