package handler

import (
	"github.com/gin-gonic/gin"

	appcustomer "github.com/xiebiao/library/internal/application/customer"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// CustomerHandler 读者HTTP处理器
type CustomerHandler struct {
	uc *appcustomer.UseCase
}

// NewCustomerHandler 创建读者处理器
func NewCustomerHandler(uc *appcustomer.UseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// List 读者列表
// @Summary  读者列表
// @Tags     读者
// @Produce  json
// @Security BearerAuth
// @Param    query query dto.ListCustomersQuery false "查询参数"
// @Success  200 {object} response.Response{data=response.PageData{list=[]dto.CustomerDetailResponse}}
// @Router   /api/v1/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var q dto.ListCustomersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	p, err := h.uc.List(c.Request.Context(), q.ToParams())
	if err != nil {
		response.Error(c, err)
		return
	}
	page(c, p.Items, p.Total, p.Page, p.PageSize, dto.NewCustomerDetail)
}

// Get 读者详情（含最近借阅与书评）
// @Summary  读者详情
// @Tags     读者
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "读者ID"
// @Success  200 {object} response.Response{data=dto.CustomerProfileResponse}
// @Router   /api/v1/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.CustomerProfileResponse{
		CustomerDetailResponse: dto.NewCustomerDetail(p.Detail),
		RecentLoans:            dto.NewLoans(p.RecentLoans),
		Reviews:                dto.NewReviews(p.Reviews),
	})
}

// Create 登记读者，借书证号为空时自动生成
// @Summary  登记读者
// @Tags     读者
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    request body dto.CustomerRequest true "读者信息"
// @Success  201 {object} response.Response{data=dto.CustomerDetailResponse}
// @Router   /api/v1/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CustomerRequest
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
	response.Created(c, dto.NewCustomerDetail(d))
}

// Update 编辑读者
// @Summary  编辑读者
// @Tags     读者
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    id path int true "读者ID"
// @Param    request body dto.UpdateCustomerRequest true "读者信息（含version）"
// @Success  200 {object} response.Response{data=dto.CustomerDetailResponse}
// @Router   /api/v1/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
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
	response.Success(c, dto.NewCustomerDetail(d))
}

// Delete 删除读者
// @Summary  删除读者
// @Tags     读者
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    id path int true "读者ID"
// @Success  200 {object} response.Response
// @Router   /api/v1/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
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
