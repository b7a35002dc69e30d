package dto

// ── 选课模块 DTO ──

// EnrollRequest 学生选课请求
type EnrollRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
}

// ReviewEnrollmentRequest 讲师审批选课请求
type ReviewEnrollmentRequest struct {
	Approve bool `json:"approve"`
}

// SetGradeRequest 结课登分请求
type SetGradeRequest struct {
	Grade int `json:"grade" binding:"required,min=1,max=10"`
}

// EnrollmentListRequest 选课列表查询参数
type EnrollmentListRequest struct {
	CourseID string `form:"course_id" binding:"omitempty,uuid"`
	Status   string `form:"status"    binding:"omitempty,oneof=pending active complete"`
	PaginationRequest
}

// ── 响应 ──

// EnrollmentResponse 选课记录响应
type EnrollmentResponse struct {
	RegistrationID string                   `json:"registration_id"`
	CourseID       string                   `json:"course_id"`
	CourseName     string                   `json:"course_name,omitempty"`
	StudentID      string                   `json:"student_id"`
	StudentName    string                   `json:"student_name,omitempty"`
	Status         string                   `json:"status"`
	Grade          *int                     `json:"grade,omitempty"`
	RegDate        string                   `json:"reg_date"`
	Warnings       []ConflictDetailResponse `json:"warnings,omitempty"` // 选课时的课表冲突提示（不阻断）
}

// EnrollmentListResponse 选课分页列表响应
type EnrollmentListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []EnrollmentResponse `json:"items"`
}
