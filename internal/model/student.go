package model

import "time"

// Student 学生档案表 — 对应 students
type Student struct {
	StudentID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	UserID       string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	FirstName    string     `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName     string     `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email        string     `gorm:"type:varchar(255);not null"                     json:"email"`
	Phone        *string    `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	DateOfBirth  *time.Time `gorm:"type:date"                                      json:"date_of_birth,omitempty"`
	ProgramID    *string    `gorm:"type:uuid"                                      json:"program_id,omitempty"`
	DepartmentID *string    `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	GroupID      *string    `gorm:"type:uuid"                                      json:"group_id,omitempty"`
	AvatarURL    *string    `gorm:"type:text"                                      json:"avatar_url,omitempty"`
	BaseModel

	// 关联
	User    *User       `gorm:"foreignKey:UserID;references:UserID"        json:"user,omitempty"`
	Program *Program    `gorm:"foreignKey:ProgramID;references:ProgramID"  json:"program,omitempty"`
	Group   *StudyGroup `gorm:"foreignKey:GroupID;references:GroupID"      json:"group,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// FullName 返回「名 姓」拼接的展示名。
func (s Student) FullName() string { return s.FirstName + " " + s.LastName }
