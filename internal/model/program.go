package model

// Program 专业/学位项目表 — 对应 programs
type Program struct {
	ProgramID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	DegreeType string `gorm:"type:varchar(50);not null"                      json:"degree_type"` // bachelor | master | doctoral
	Duration   int    `gorm:"type:smallint;not null"                         json:"duration"`    // 学制（年）
	BaseModel
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }
