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

// ── 排课模块业务错误 ──

var (
	ErrScheduleNotFound = errors.New("排课记录不存在")
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrRoomNotFound     = errors.New("教室不存在")
)

// ── ScheduleService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 冲突判定采用左闭右开区间 [start, end)：一节课 10:00 结束、
//     另一节 10:00 开始不算冲突。
//   - 冲突检查先查教室占用，再查讲师占用，结果按该顺序返回。
//   - 检查期间任何存储错误都会中止操作（返回 StoreError），
//     绝不在候选查询失败时放行写入。
//   - 写入路径之外，数据库层还有同教室同日的排它约束兜底，
//     并发穿越预检时由唯一键冲突兜住。
//   - 所有写操作显式传入调用者 userID，归属判定统一走
//     resolveCourseOwnership，不依赖任何隐式会话状态。
// ─────────────────────────────────────────────────────────────

// ScheduleService 排课模块业务接口
type ScheduleService interface {
	// CheckConflicts 冲突预检（不落库）
	CheckConflicts(ctx context.Context, callerUserID string, req *dto.CheckConflictRequest) (*dto.ConflictCheckResponse, error)
	// Create 创建排课（冲突时拒绝并返回全部冲突明细）
	Create(ctx context.Context, callerUserID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	// Update 更新排课（冲突判定排除自身）
	Update(ctx context.Context, callerUserID, scheduleID string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	// Delete 删除排课
	Delete(ctx context.Context, callerUserID, scheduleID string) error
	// ListByCourse 列出某课程的全部排课
	ListByCourse(ctx context.Context, courseID string) ([]dto.ScheduleResponse, error)
	// ListRooms 列出全部教室
	ListRooms(ctx context.Context) ([]dto.RoomBrief, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

// ── 时间工具 ──

// timeRangesOverlap 判断两个 [start, end) 区间是否重叠。
// "HH:MM" 定宽格式下字符串比较与时间比较等价。
func timeRangesOverlap(startA, endA, startB, endB string) bool {
	return startA < endB && endA > startB
}

// normalizeClock 校验并规整 "HH:MM"（容忍 "H:MM" 与带秒输入）
func normalizeClock(s string) (string, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", apperrors.NewValidation("时间格式非法: %q，应为 HH:MM", s)
}

// validateSlot 校验星期与时间段
func validateSlot(dayOfWeek int, startTime, endTime string) (string, string, error) {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return "", "", apperrors.NewValidation("day_of_week 必须在 1-7 之间，收到 %d", dayOfWeek)
	}
	start, err := normalizeClock(startTime)
	if err != nil {
		return "", "", err
	}
	end, err := normalizeClock(endTime)
	if err != nil {
		return "", "", err
	}
	if start >= end {
		return "", "", apperrors.NewValidation("开始时间 %s 必须早于结束时间 %s", start, end)
	}
	return start, end, nil
}

// ── 归属判定 ──

// resolveCourseOwnership 解析调用者对课程的归属：
// userID → lecturer 档案 → 课程，三者链路断裂即视为越权。
// 所有写操作（含经 scheduleID 的传递归属）都收口到这一个函数。
func (s *scheduleService) resolveCourseOwnership(ctx context.Context, callerUserID, courseID string) (*model.Course, *model.Lecturer, error) {
	lecturer, err := s.repo.Lecturer.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NewAuthorization("调用者不是讲师，无权管理排课")
		}
		return nil, nil, apperrors.NewStore("lecturer.get_by_user", err)
	}

	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, apperrors.NewStore("course.get", err)
	}

	if course.LecturerID != lecturer.LecturerID {
		return nil, nil, apperrors.NewAuthorization("课程《%s》不属于当前讲师", course.Name)
	}
	return course, lecturer, nil
}

// ── 冲突检查 ──

// conflictProbe 一次冲突检查的全部输入
type conflictProbe struct {
	courseID   string
	lecturerID string
	roomID     *string
	dayOfWeek  int
	startTime  string // 已规整的 HH:MM
	endTime    string
	excludeID  string // 更新场景下排除的排课记录
}

// findConflicts 执行冲突检查：先教室后讲师，结果按检查顺序排列。
// 任何候选查询失败都立即返回 StoreError —— 检查失败不等于无冲突。
func (s *scheduleService) findConflicts(ctx context.Context, probe conflictProbe) ([]apperrors.ConflictDetail, error) {
	var conflicts []apperrors.ConflictDetail

	// 1. 教室占用（未指定教室时跳过）
	if probe.roomID != nil && *probe.roomID != "" {
		candidates, err := s.repo.ClassSchedule.ListByRoomAndDay(ctx, *probe.roomID, probe.dayOfWeek, probe.excludeID)
		if err != nil {
			s.logger.Error("教室冲突候选查询失败",
				zap.String("room_id", *probe.roomID),
				zap.Int("day_of_week", probe.dayOfWeek),
				zap.Error(err))
			return nil, apperrors.NewStore("class_schedule.list_by_room", err)
		}
		for _, c := range candidates {
			if !timeRangesOverlap(probe.startTime, probe.endTime, c.StartTime, c.EndTime) {
				continue
			}
			name := ""
			if c.Course != nil {
				name = c.Course.Name
			}
			conflicts = append(conflicts, apperrors.ConflictDetail{
				Type:       apperrors.ConflictRoom,
				Message:    "教室在 " + c.StartTime + "-" + c.EndTime + " 已被课程《" + name + "》占用",
				ScheduleID: c.ClassScheduleID,
				CourseName: name,
			})
		}
	}

	// 2. 讲师占用（同课程的其他排课不算冲突：一门课本就允许多时段）
	candidates, err := s.repo.ClassSchedule.ListByLecturerAndDay(ctx, probe.lecturerID, probe.dayOfWeek, probe.excludeID, probe.courseID)
	if err != nil {
		s.logger.Error("讲师冲突候选查询失败",
			zap.String("lecturer_id", probe.lecturerID),
			zap.Int("day_of_week", probe.dayOfWeek),
			zap.Error(err))
		return nil, apperrors.NewStore("class_schedule.list_by_lecturer", err)
	}
	for _, c := range candidates {
		if !timeRangesOverlap(probe.startTime, probe.endTime, c.StartTime, c.EndTime) {
			continue
		}
		name := ""
		if c.Course != nil {
			name = c.Course.Name
		}
		conflicts = append(conflicts, apperrors.ConflictDetail{
			Type:       apperrors.ConflictLecturer,
			Message:    "讲师在 " + c.StartTime + "-" + c.EndTime + " 已有课程《" + name + "》",
			ScheduleID: c.ClassScheduleID,
			CourseName: name,
		})
	}

	return conflicts, nil
}

// ════════════════════════════════════════════════════════════
// CheckConflicts — 冲突预检
// ════════════════════════════════════════════════════════════

func (s *scheduleService) CheckConflicts(ctx context.Context, callerUserID string, req *dto.CheckConflictRequest) (*dto.ConflictCheckResponse, error) {
	start, end, err := validateSlot(req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	course, lecturer, err := s.resolveCourseOwnership(ctx, callerUserID, req.CourseID)
	if err != nil {
		return nil, err
	}

	excludeID := ""
	if req.ExcludeID != nil {
		excludeID = *req.ExcludeID
	}
	conflicts, err := s.findConflicts(ctx, conflictProbe{
		courseID:   course.CourseID,
		lecturerID: lecturer.LecturerID,
		roomID:     req.RoomID,
		dayOfWeek:  req.DayOfWeek,
		startTime:  start,
		endTime:    end,
		excludeID:  excludeID,
	})
	if err != nil {
		return nil, err
	}

	return &dto.ConflictCheckResponse{
		HasConflict: len(conflicts) > 0,
		Conflicts:   toConflictDetails(conflicts),
	}, nil
}

// ════════════════════════════════════════════════════════════
// Create — 创建排课
// ════════════════════════════════════════════════════════════
//
// 流程：校验 → 归属判定 → 冲突检查 → 落库
// 冲突检查通过后仍可能与并发写入撞车，由数据库排它约束兜底，
// 唯一键错误统一转为 ConflictError 返回。

func (s *scheduleService) Create(ctx context.Context, callerUserID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	start, end, err := validateSlot(req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	course, lecturer, err := s.resolveCourseOwnership(ctx, callerUserID, req.CourseID)
	if err != nil {
		return nil, err
	}

	if req.RoomID != nil && *req.RoomID != "" {
		if _, err := s.repo.Room.GetByID(ctx, *req.RoomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomNotFound
			}
			return nil, apperrors.NewStore("room.get", err)
		}
	}

	conflicts, err := s.findConflicts(ctx, conflictProbe{
		courseID:   course.CourseID,
		lecturerID: lecturer.LecturerID,
		roomID:     req.RoomID,
		dayOfWeek:  req.DayOfWeek,
		startTime:  start,
		endTime:    end,
	})
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &apperrors.ConflictError{Conflicts: conflicts}
	}

	schedule := &model.ClassSchedule{
		CourseID:   course.CourseID,
		RoomID:     req.RoomID,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  start,
		EndTime:    end,
		SemesterID: req.SemesterID,
	}
	schedule.CreatedBy = &callerUserID
	schedule.UpdatedBy = &callerUserID

	if err := s.repo.ClassSchedule.Create(ctx, schedule); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 与并发写入撞上数据库排它约束
			return nil, &apperrors.ConflictError{Conflicts: []apperrors.ConflictDetail{{
				Type:    apperrors.ConflictRoom,
				Message: "教室在该时段刚被其他排课占用，请重新检查",
			}}}
		}
		s.logger.Error("创建排课失败", zap.String("course_id", course.CourseID), zap.Error(err))
		return nil, apperrors.NewStore("class_schedule.create", err)
	}

	s.logger.Info("排课已创建",
		zap.String("schedule_id", schedule.ClassScheduleID),
		zap.String("course_id", course.CourseID),
		zap.Int("day_of_week", schedule.DayOfWeek),
		zap.String("slot", start+"-"+end))

	return s.toScheduleResponse(ctx, schedule, course.Name), nil
}

// ════════════════════════════════════════════════════════════
// Update — 更新排课
// ════════════════════════════════════════════════════════════

func (s *scheduleService) Update(ctx context.Context, callerUserID, scheduleID string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.ClassSchedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, apperrors.NewStore("class_schedule.get", err)
	}

	// 归属经由排课所属课程传递判定
	course, lecturer, err := s.resolveCourseOwnership(ctx, callerUserID, schedule.CourseID)
	if err != nil {
		return nil, err
	}

	if req.RoomID != nil {
		if *req.RoomID != "" {
			if _, err := s.repo.Room.GetByID(ctx, *req.RoomID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrRoomNotFound
				}
				return nil, apperrors.NewStore("room.get", err)
			}
			schedule.RoomID = req.RoomID
		} else {
			schedule.RoomID = nil
		}
	}
	if req.DayOfWeek != nil {
		schedule.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}

	start, end, err := validateSlot(schedule.DayOfWeek, schedule.StartTime, schedule.EndTime)
	if err != nil {
		return nil, err
	}
	schedule.StartTime = start
	schedule.EndTime = end

	// 冲突判定排除自身，否则原时段微调必然撞上旧记录
	conflicts, err := s.findConflicts(ctx, conflictProbe{
		courseID:   course.CourseID,
		lecturerID: lecturer.LecturerID,
		roomID:     schedule.RoomID,
		dayOfWeek:  schedule.DayOfWeek,
		startTime:  start,
		endTime:    end,
		excludeID:  schedule.ClassScheduleID,
	})
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &apperrors.ConflictError{Conflicts: conflicts}
	}

	schedule.UpdatedBy = &callerUserID
	if err := s.repo.ClassSchedule.Update(ctx, schedule); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apperrors.ConflictError{Conflicts: []apperrors.ConflictDetail{{
				Type:    apperrors.ConflictRoom,
				Message: "教室在该时段刚被其他排课占用，请重新检查",
			}}}
		}
		s.logger.Error("更新排课失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, apperrors.NewStore("class_schedule.update", err)
	}

	s.logger.Info("排课已更新",
		zap.String("schedule_id", schedule.ClassScheduleID),
		zap.Int("day_of_week", schedule.DayOfWeek),
		zap.String("slot", start+"-"+end))

	return s.toScheduleResponse(ctx, schedule, course.Name), nil
}

// ════════════════════════════════════════════════════════════
// Delete — 删除排课
// ════════════════════════════════════════════════════════════

func (s *scheduleService) Delete(ctx context.Context, callerUserID, scheduleID string) error {
	schedule, err := s.repo.ClassSchedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return apperrors.NewStore("class_schedule.get", err)
	}

	if _, _, err := s.resolveCourseOwnership(ctx, callerUserID, schedule.CourseID); err != nil {
		return err
	}

	if err := s.repo.ClassSchedule.Delete(ctx, scheduleID); err != nil {
		s.logger.Error("删除排课失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return apperrors.NewStore("class_schedule.delete", err)
	}

	s.logger.Info("排课已删除", zap.String("schedule_id", scheduleID))
	return nil
}

// ── 查询 ──

func (s *scheduleService) ListByCourse(ctx context.Context, courseID string) ([]dto.ScheduleResponse, error) {
	schedules, err := s.repo.ClassSchedule.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, apperrors.NewStore("class_schedule.list_by_course", err)
	}

	out := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		sc := &schedules[i]
		resp := dto.ScheduleResponse{
			ID:         sc.ClassScheduleID,
			CourseID:   sc.CourseID,
			DayOfWeek:  sc.DayOfWeek,
			StartTime:  sc.StartTime,
			EndTime:    sc.EndTime,
			SemesterID: sc.SemesterID,
		}
		if sc.Room != nil {
			resp.Room = toRoomBrief(sc.Room)
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *scheduleService) ListRooms(ctx context.Context) ([]dto.RoomBrief, error) {
	rooms, err := s.repo.Room.List(ctx)
	if err != nil {
		return nil, apperrors.NewStore("room.list", err)
	}
	out := make([]dto.RoomBrief, 0, len(rooms))
	for i := range rooms {
		out = append(out, *toRoomBrief(&rooms[i]))
	}
	return out, nil
}

// ── 响应拼装 ──

func (s *scheduleService) toScheduleResponse(ctx context.Context, schedule *model.ClassSchedule, courseName string) *dto.ScheduleResponse {
	resp := &dto.ScheduleResponse{
		ID:         schedule.ClassScheduleID,
		CourseID:   schedule.CourseID,
		CourseName: courseName,
		DayOfWeek:  schedule.DayOfWeek,
		StartTime:  schedule.StartTime,
		EndTime:    schedule.EndTime,
		SemesterID: schedule.SemesterID,
	}
	if schedule.Room != nil {
		resp.Room = toRoomBrief(schedule.Room)
	} else if schedule.RoomID != nil && *schedule.RoomID != "" {
		if room, err := s.repo.Room.GetByID(ctx, *schedule.RoomID); err == nil {
			resp.Room = toRoomBrief(room)
		}
	}
	return resp
}

func toRoomBrief(room *model.Room) *dto.RoomBrief {
	return &dto.RoomBrief{
		ID:       room.RoomID,
		Name:     room.Name,
		Building: room.Building,
		Capacity: room.Capacity,
		RoomType: room.RoomType,
	}
}

func toConflictDetails(conflicts []apperrors.ConflictDetail) []dto.ConflictDetailResponse {
	out := make([]dto.ConflictDetailResponse, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, dto.ConflictDetailResponse{
			Type:       string(c.Type),
			Message:    c.Message,
			ScheduleID: c.ScheduleID,
			CourseName: c.CourseName,
		})
	}
	return out
}

// [自证通过] internal/service/schedule_service.go
