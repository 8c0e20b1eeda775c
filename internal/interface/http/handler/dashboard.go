package handler

import (
	"github.com/gin-gonic/gin"

	appdashboard "github.com/xiebiao/library/internal/application/dashboard"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

type DashboardHandler struct {
	uc *appdashboard.UseCase
}

func NewDashboardHandler(uc *appdashboard.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary 首页统计
// @Summary  首页统计
// @Tags     统计
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} response.Response{data=dto.DashboardResponse}
// @Router   /api/v1/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	s, err := h.uc.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewDashboard(s))
}
