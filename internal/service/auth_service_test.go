package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/andojasl/student-registration-system/config"
	"github.com/andojasl/student-registration-system/internal/dto"
	"github.com/andojasl/student-registration-system/internal/model"
	"github.com/andojasl/student-registration-system/pkg/jwt"
)

func setupAuthService() (AuthService, *testRepos) {
	repos := newTestRepos()
	seedUniversity(repos)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 30 * 24 * time.Hour,
		},
	}
	svc := NewAuthService(cfg, repos.toRepository(), jwt.NewManager(&cfg.Auth), nil, zap.NewNop())
	return svc, repos
}

// setPassword 给种子账号写入 bcrypt 口令
func setPassword(r *testRepos, userID, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	r.user.users[userID].PasswordHash = string(hash)
}

// ── Register ──

func TestAuthService_Register(t *testing.T) {
	svc, repos := setupAuthService()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "new@uni.edu",
		Password:  "secret123",
		FirstName: "Greta",
		LastName:  "Urbonaite",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if resp.IsActive {
		t.Error("新注册账号不应处于激活状态")
	}

	user := repos.user.users[resp.UserID]
	if user == nil {
		t.Fatal("账号未写入")
	}
	if user.Role != model.RoleStudent || user.IsActive {
		t.Errorf("账号角色/状态不符: role=%s active=%v", user.Role, user.IsActive)
	}
	if user.PasswordHash == "secret123" {
		t.Error("密码不应明文存储")
	}

	// 新账号出现在待审批列表
	pending, err := repos.student.ListPendingApproval(context.Background())
	if err != nil {
		t.Fatalf("ListPendingApproval 应成功: %v", err)
	}
	if len(pending) != 1 || pending[0].UserID != resp.UserID {
		t.Errorf("待审批列表不符: %+v", pending)
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc, _ := setupAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "stu@uni.edu", Password: "secret123",
		FirstName: "Tomas", LastName: "Jankauskas",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestAuthService_Register_UnknownProgram(t *testing.T) {
	svc, _ := setupAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "new@uni.edu", Password: "secret123",
		FirstName: "Greta", LastName: "Urbonaite",
		ProgramID: strPtr("prog-missing"),
	})
	if err == nil {
		t.Fatal("不存在的专业应被拒绝")
	}
}

// ── Login ──

func TestAuthService_Login(t *testing.T) {
	svc, repos := setupAuthService()
	setPassword(repos, "user-stu", "secret123")

	// 密码错误
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "stu@uni.edu", Password: "wrong",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}

	// 账号不存在与密码错误返回同一错误，不泄露账号存在性
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ghost@uni.edu", Password: "secret123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}

	// 成功登录
	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "stu@uni.edu", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("token 对不应为空")
	}
	if resp.User.FirstName != "Tomas" || resp.User.Role != model.RoleStudent {
		t.Errorf("用户信息不符: %+v", resp.User)
	}
}

func TestAuthService_Login_InactiveBlocked(t *testing.T) {
	svc, repos := setupAuthService()

	reg, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "new@uni.edu", Password: "secret123",
		FirstName: "Greta", LastName: "Urbonaite",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}

	// 审批前密码正确也不能登录
	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email: "new@uni.edu", Password: "secret123",
	})
	if !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("期望 ErrAccountInactive，实际: %v", err)
	}

	// 激活后放行
	repos.user.users[reg.UserID].IsActive = true
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "new@uni.edu", Password: "secret123",
	}); err != nil {
		t.Errorf("激活后登录应成功: %v", err)
	}
}

// ── RefreshToken ──

func TestAuthService_RefreshToken(t *testing.T) {
	svc, repos := setupAuthService()
	setPassword(repos, "user-stu", "secret123")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "stu@uni.edu", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新后的 access token 不应为空")
	}

	// access token 不能当 refresh token 用
	if _, err := svc.RefreshToken(context.Background(), login.AccessToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}

	// 伪造串
	if _, err := svc.RefreshToken(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_DeactivatedUser(t *testing.T) {
	svc, repos := setupAuthService()
	setPassword(repos, "user-stu", "secret123")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "stu@uni.edu", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// 登录后账号被停用：refresh 应失效
	repos.user.users["user-stu"].IsActive = false
	if _, err := svc.RefreshToken(context.Background(), login.RefreshToken); !errors.Is(err, ErrAccountInactive) {
		t.Errorf("期望 ErrAccountInactive，实际: %v", err)
	}
}

// ── ChangePassword ──

func TestAuthService_ChangePassword(t *testing.T) {
	svc, repos := setupAuthService()
	setPassword(repos, "user-stu", "secret123")

	// 旧密码错误
	err := svc.ChangePassword(context.Background(), "user-stu", &dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newpass456",
	})
	if !errors.Is(err, ErrWrongOldPassword) {
		t.Errorf("期望 ErrWrongOldPassword，实际: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), "user-stu", &dto.ChangePasswordRequest{
		OldPassword: "secret123", NewPassword: "newpass456",
	}); err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 旧密码失效，新密码生效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "stu@uni.edu", Password: "secret123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，实际: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "stu@uni.edu", Password: "newpass456",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
}

// ── GetCurrentUser ──

func TestAuthService_GetCurrentUser(t *testing.T) {
	svc, _ := setupAuthService()

	resp, err := svc.GetCurrentUser(context.Background(), "user-lect")
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if resp.Role != model.RoleLecturer || resp.FirstName != "Jonas" {
		t.Errorf("讲师信息不符: %+v", resp)
	}

	if _, err := svc.GetCurrentUser(context.Background(), "user-ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
