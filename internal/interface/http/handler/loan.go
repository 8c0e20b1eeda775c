package handler

import (
	"github.com/gin-gonic/gin"

	loanapp "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// LoanHandler 借阅HTTP处理器
type LoanHandler struct {
	uc *loanapp.UseCase
}

// NewLoanHandler 创建借阅处理器
func NewLoanHandler(uc *loanapp.UseCase) *LoanHandler {
	return &LoanHandler{uc: uc}
}

// List 借阅列表
// @Summary      借阅列表
// @Description  按书名、读者姓名、借书证号搜索，可按状态、读者、图书过滤
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        query query dto.ListLoansQuery false "查询参数"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.LoanResponse}}
// @Router       /api/v1/loans [get]
func (h *LoanHandler) List(c *gin.Context) {
	var q dto.ListLoansQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	params, err := q.ToParams()
	if err != nil {
		response.Error(c, err)
		return
	}
	p, err := h.uc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	page(c, p.Items, p.Total, p.Page, p.PageSize, dto.NewLoan)
}

// Get 借阅详情
// @Summary  借阅详情
// @Tags     借阅
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "借阅ID"
// @Success  200 {object} response.Response{data=dto.LoanResponse}
// @Failure  404 {object} response.Response "借阅记录不存在"
// @Router   /api/v1/loans/{id} [get]
func (h *LoanHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	l, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewLoan(l))
}

// Checkout 借书
// @Summary      借书
// @Description  无可借副本、读者有逾期未还（开启锁定时）时拒绝
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-CSRF-Token header string true "防伪令牌"
// @Param        request body dto.CheckoutRequest true "借书信息"
// @Success      201 {object} response.Response{data=dto.LoanResponse}
// @Failure      404 {object} response.Response "图书或读者不存在"
// @Failure      422 {object} response.Response "无可借副本/存在逾期"
// @Router       /api/v1/loans [post]
func (h *LoanHandler) Checkout(c *gin.Context) {
	// 1. 参数绑定与校验
	var req dto.CheckoutRequest
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
	l, err := h.uc.Checkout(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 响应
	response.Created(c, dto.NewLoan(l))
}

// PreviewReturn 归还前的罚金预览
// @Summary  罚金预览
// @Tags     借阅
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "借阅ID"
// @Param    as_of query string false "计算日期，默认今天"
// @Success  200 {object} response.Response{data=dto.ReturnPreviewResponse}
// @Failure  422 {object} response.Response "该借阅不可归还"
// @Router   /api/v1/loans/{id}/return [get]
func (h *LoanHandler) PreviewReturn(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var q dto.ReturnPreviewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	asOf, err := dto.ParseDate("as_of", q.AsOf)
	if err != nil {
		response.Error(c, err)
		return
	}
	p, err := h.uc.PreviewReturn(c.Request.Context(), id, asOf)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewReturnPreview(p))
}

// Return 还书
// @Summary      还书
// @Description  fine_amount为空按逾期天数计算罚金，填写则以操作员金额为准
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-CSRF-Token header string true "防伪令牌"
// @Param        id path int true "借阅ID"
// @Param        request body dto.ReturnRequest true "归还信息"
// @Success      200 {object} response.Response{data=dto.LoanResponse}
// @Failure      409 {object} response.Response "版本冲突"
// @Failure      422 {object} response.Response "该借阅不可归还"
// @Router       /api/v1/loans/{id}/return [post]
func (h *LoanHandler) Return(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	r, err := req.ToRequest()
	if err != nil {
		response.Error(c, err)
		return
	}
	l, err := h.uc.Return(c.Request.Context(), id, r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewLoan(l))
}

// Delete 删除借阅记录，未归还的借阅会释放副本
// @Summary  删除借阅
// @Tags     借阅
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    id path int true "借阅ID"
// @Success  200 {object} response.Response
// @Router   /api/v1/loans/{id} [delete]
func (h *LoanHandler) Delete(c *gin.Context) {
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

// MarkOverdue 手动触发逾期扫描（仅管理员）
// @Summary  逾期扫描
// @Tags     借阅
// @Produce  json
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Success  200 {object} response.Response{data=dto.MarkOverdueResponse}
// @Failure  403 {object} response.Response "权限不足"
// @Router   /api/v1/admin/loans/mark-overdue [post]
func (h *LoanHandler) MarkOverdue(c *gin.Context) {
	res, err := h.uc.MarkOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	ids := res.LoanIDs
	if ids == nil {
		ids = []uint{}
	}
	response.Success(c, dto.MarkOverdueResponse{Marked: res.Marked, LoanIDs: ids})
}
