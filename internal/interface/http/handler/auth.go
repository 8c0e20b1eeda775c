package handler

import (
	"github.com/gin-gonic/gin"

	appstaff "github.com/xiebiao/library/internal/application/staff"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// AuthHandler 登录与工作人员账号处理器
type AuthHandler struct {
	uc *appstaff.UseCase
}

// NewAuthHandler 创建处理器
func NewAuthHandler(uc *appstaff.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login 工作人员登录
// @Summary      登录
// @Description  返回Token对与CSRF Token，之后的非GET请求需带X-CSRF-Token头
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse}
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Failure      429 {object} response.Response "登录过于频繁"
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.uc.Login(c.Request.Context(), appstaff.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewLoginResponse(res))
}

// Refresh 用Refresh Token换取新的Access Token
// @Summary  刷新Token
// @Tags     认证
// @Accept   json
// @Produce  json
// @Param    request body dto.RefreshRequest true "Refresh Token"
// @Success  200 {object} response.Response{data=dto.RefreshResponse}
// @Failure  401 {object} response.Response "Token无效或已过期"
// @Router   /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	token, err := h.uc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.RefreshResponse{AccessToken: token})
}

// Logout 登出：删除会话并拉黑当前Access Token
// @Summary  登出
// @Tags     认证
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Success  200 {object} response.Response
// @Router   /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.uc.Logout(c.Request.Context(), middleware.GetStaffID(c), middleware.GetAccessToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Me 当前登录的工作人员
// @Summary  当前账号
// @Tags     认证
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} response.Response{data=dto.StaffResponse}
// @Router   /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	s, err := h.uc.Get(c.Request.Context(), middleware.GetStaffID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewStaff(s))
}

// CreateStaff 创建工作人员账号（仅管理员）
// @Summary  创建工作人员
// @Tags     认证
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    X-CSRF-Token header string true "防伪令牌"
// @Param    request body dto.CreateStaffRequest true "账号信息"
// @Success  201 {object} response.Response{data=dto.StaffResponse}
// @Failure  403 {object} response.Response "权限不足"
// @Failure  422 {object} response.Response "邮箱已存在"
// @Router   /api/v1/staff [post]
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	s, err := h.uc.Create(c.Request.Context(), appstaff.CreateRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewStaff(s))
}
