package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/andojasl/student-registration-system/internal/model"
)

// LecturerRepository 讲师档案数据访问接口
type LecturerRepository interface {
	Create(ctx context.Context, lecturer *model.Lecturer) error
	GetByID(ctx context.Context, id string) (*model.Lecturer, error)
	GetByUserID(ctx context.Context, userID string) (*model.Lecturer, error)
	Update(ctx context.Context, lecturer *model.Lecturer) error
}

// lecturerRepo LecturerRepository 的 GORM 实现
type lecturerRepo struct {
	db *gorm.DB
}

// NewLecturerRepo 创建 LecturerRepository 实例
func NewLecturerRepo(db *gorm.DB) LecturerRepository {
	return &lecturerRepo{db: db}
}

func (r *lecturerRepo) Create(ctx context.Context, lecturer *model.Lecturer) error {
	return r.db.WithContext(ctx).Create(lecturer).Error
}

func (r *lecturerRepo) GetByID(ctx context.Context, id string) (*model.Lecturer, error) {
	var lecturer model.Lecturer
	err := r.db.WithContext(ctx).
		Where("lecturer_id = ?", id).
		First(&lecturer).Error
	if err != nil {
		return nil, err
	}
	return &lecturer, nil
}

func (r *lecturerRepo) GetByUserID(ctx context.Context, userID string) (*model.Lecturer, error) {
	var lecturer model.Lecturer
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("user_id = ?", userID).
		First(&lecturer).Error
	if err != nil {
		return nil, err
	}
	return &lecturer, nil
}

func (r *lecturerRepo) Update(ctx context.Context, lecturer *model.Lecturer) error {
	return r.db.WithContext(ctx).Save(lecturer).Error
}
