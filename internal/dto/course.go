package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name         string  `json:"name"          binding:"required,min=1,max=200"`
	Credits      int     `json:"credits"       binding:"required,min=1,max=30"`
	Description  string  `json:"description"   binding:"omitempty,max=5000"`
	SemesterID   string  `json:"semester_id"   binding:"required,uuid"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	ProgramID    *string `json:"program_id"    binding:"omitempty,uuid"`
}

// UpdateCourseRequest 更新课程请求（仅更新提供的字段）
type UpdateCourseRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=1,max=200"`
	Credits      *int    `json:"credits"       binding:"omitempty,min=1,max=30"`
	Description  *string `json:"description"   binding:"omitempty,max=5000"`
	SemesterID   *string `json:"semester_id"   binding:"omitempty,uuid"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	ProgramID    *string `json:"program_id"    binding:"omitempty,uuid"`
}

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	Keyword    string `form:"keyword"     binding:"omitempty,max=100"`
	SemesterID string `form:"semester_id" binding:"omitempty,uuid"`
	ProgramID  string `form:"program_id"  binding:"omitempty,uuid"`
	LecturerID string `form:"lecturer_id" binding:"omitempty,uuid"`
	PaginationRequest
}

// ── 响应 ──

// CourseResponse 课程响应
type CourseResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Credits     int                `json:"credits"`
	Description string             `json:"description"`
	Lecturer    *LecturerBrief     `json:"lecturer,omitempty"`
	Semester    *SemesterBrief     `json:"semester,omitempty"`
	Department  *DepartmentBrief   `json:"department,omitempty"`
	Program     *ProgramBrief      `json:"program,omitempty"`
	Schedules   []ScheduleResponse `json:"schedules,omitempty"`
	Enrollment  *EnrollmentBrief   `json:"enrollment,omitempty"` // 当前学生在该课程的选课状态
}

// CourseListResponse 课程分页列表响应
type CourseListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []CourseResponse `json:"items"`
}

// EnrollmentBrief 选课状态简要信息
type EnrollmentBrief struct {
	RegistrationID string `json:"registration_id"`
	Status         string `json:"status"`
}

// [自证通过] internal/dto/course.go
