package model

// Room 教室表 — 对应 rooms
type Room struct {
	RoomID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name     string `gorm:"type:varchar(50);not null"                      json:"name"`
	Building string `gorm:"type:varchar(100);not null"                     json:"building"`
	Capacity int    `gorm:"not null;default:0"                             json:"capacity"`
	RoomType string `gorm:"type:varchar(50);not null;default:'classroom'"  json:"room_type"` // classroom | lab | auditorium
	BaseModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
