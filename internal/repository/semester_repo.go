package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/andojasl/student-registration-system/internal/model"
)

// SemesterRepository 学期数据访问接口
type SemesterRepository interface {
	GetByID(ctx context.Context, id string) (*model.Semester, error)
	List(ctx context.Context) ([]model.Semester, error)
	// GetCurrent 返回包含给定日期的学期；不存在时返回 gorm.ErrRecordNotFound
	GetCurrent(ctx context.Context, at time.Time) (*model.Semester, error)
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) GetByID(ctx context.Context, id string) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("semester_id = ?", id).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) List(ctx context.Context) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&semesters).Error
	return semesters, err
}

func (r *semesterRepo) GetCurrent(ctx context.Context, at time.Time) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", at, at).
		Order("start_date DESC").
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}
