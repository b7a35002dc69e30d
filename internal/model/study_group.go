package model

// StudyGroup 学习小组表 — 对应 study_groups
// 学生通过 students.group_id 关联到组，一名学生同时最多属于一个组。
type StudyGroup struct {
	GroupID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	CourseID    string `gorm:"type:uuid;not null;index"                       json:"course_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description string `gorm:"type:text;not null;default:''"                  json:"description"`
	BaseModel

	// 关联
	Course  *Course   `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	Members []Student `gorm:"foreignKey:GroupID;references:GroupID"   json:"members,omitempty"`
}

// TableName 指定表名
func (StudyGroup) TableName() string { return "study_groups" }
