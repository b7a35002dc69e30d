package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/andojasl/student-registration-system/internal/model"
)

// GroupRepository 学习小组数据访问接口
type GroupRepository interface {
	Create(ctx context.Context, group *model.StudyGroup) error
	GetByID(ctx context.Context, id string) (*model.StudyGroup, error)
	Update(ctx context.Context, group *model.StudyGroup) error
	Delete(ctx context.Context, id string) error
	ListByCourse(ctx context.Context, courseID string) ([]model.StudyGroup, error)
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.StudyGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*model.StudyGroup, error) {
	var group model.StudyGroup
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("group_id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) Update(ctx context.Context, group *model.StudyGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

func (r *groupRepo) Delete(ctx context.Context, id string) error {
	// 组删除时成员的 group_id 由外键 ON DELETE SET NULL 置空
	return r.db.WithContext(ctx).
		Where("group_id = ?", id).
		Delete(&model.StudyGroup{}).Error
}

func (r *groupRepo) ListByCourse(ctx context.Context, courseID string) ([]model.StudyGroup, error) {
	var groups []model.StudyGroup
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}
