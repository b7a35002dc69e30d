package dto

// ── 仪表盘模块 DTO ──

// StudentDashboardResponse 学生仪表盘响应
type StudentDashboardResponse struct {
	EnrolledCount  int                     `json:"enrolled_count"`  // active 选课数
	PendingCount   int                     `json:"pending_count"`   // 待审批选课数
	CompletedCount int                     `json:"completed_count"` // 已结课数
	TotalCredits   int                     `json:"total_credits"`   // active + complete 课程学分合计
	Upcoming       []UpcomingClassResponse `json:"upcoming"`
}

// LecturerDashboardResponse 讲师仪表盘响应
type LecturerDashboardResponse struct {
	CourseCount        int                     `json:"course_count"`
	PendingEnrollments int                     `json:"pending_enrollments"`
	PendingStudents    int                     `json:"pending_students"`
	Upcoming           []UpcomingClassResponse `json:"upcoming"`
}
