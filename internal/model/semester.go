package model

import "time"

// Semester 学期表 — 对应 semesters
type Semester struct {
	SemesterID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"semester_id"`
	Name       string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate  time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null"                             json:"end_date"`
	BaseModel
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }

// [自证通过] internal/model/semester.go
