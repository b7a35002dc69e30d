package model

// Department 院系表 — 对应 departments
type Department struct {
	DepartmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Phone        *string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
