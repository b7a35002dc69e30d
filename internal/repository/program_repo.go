package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/andojasl/student-registration-system/internal/model"
)

// ProgramRepository 专业数据访问接口
type ProgramRepository interface {
	GetByID(ctx context.Context, id string) (*model.Program, error)
	List(ctx context.Context) ([]model.Program, error)
}

type programRepo struct {
	db *gorm.DB
}

// NewProgramRepo 创建 ProgramRepository 实例
func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func (r *programRepo) GetByID(ctx context.Context, id string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).
		Where("program_id = ?", id).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) List(ctx context.Context) ([]model.Program, error) {
	var programs []model.Program
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&programs).Error
	return programs, err
}
