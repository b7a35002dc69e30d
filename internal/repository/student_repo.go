package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/andojasl/student-registration-system/internal/model"
)

// StudentRepository 学生档案数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByUserID(ctx context.Context, userID string) (*model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	// ListPendingApproval 列出账号未激活的学生（按注册时间升序）
	ListPendingApproval(ctx context.Context) ([]model.Student, error)
	// ListByGroup 列出某小组的全部成员
	ListByGroup(ctx context.Context, groupID string) ([]model.Student, error)
	// CountByGroup 统计某小组成员数
	CountByGroup(ctx context.Context, groupID string) (int64, error)
}

// studentRepo StudentRepository 的 GORM 实现
type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Program").
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByUserID(ctx context.Context, userID string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("user_id = ?", userID).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepo) ListPendingApproval(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Preload("Program").
		Joins("JOIN users ON users.user_id = students.user_id").
		Where("users.is_active = ? AND users.role = ?", false, model.RoleStudent).
		Order("students.created_at ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) ListByGroup(ctx context.Context, groupID string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("last_name ASC, first_name ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) CountByGroup(ctx context.Context, groupID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("group_id = ?", groupID).
		Count(&total).Error
	return total, err
}
