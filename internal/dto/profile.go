package dto

// ── 个人资料模块 DTO ──

// UpdateProfileRequest 更新个人资料请求（仅更新提供的字段）
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"    binding:"omitempty,min=1,max=100"`
	LastName    *string `json:"last_name"     binding:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone"         binding:"omitempty,max=30"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty"` // YYYY-MM-DD
	AvatarURL   *string `json:"avatar_url"    binding:"omitempty,max=2048"`
}

// ChangeEmailRequest 更换邮箱请求（需验证当前密码）
type ChangeEmailRequest struct {
	NewEmail string `json:"new_email" binding:"required,email"`
	Password string `json:"password"  binding:"required"`
}

// ── 响应 ──

// ProfileResponse 个人资料响应
type ProfileResponse struct {
	UserID      string           `json:"user_id"`
	Email       string           `json:"email"`
	Role        string           `json:"role"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Phone       *string          `json:"phone,omitempty"`
	DateOfBirth *string          `json:"date_of_birth,omitempty"`
	AvatarURL   *string          `json:"avatar_url,omitempty"`
	Program     *ProgramBrief    `json:"program,omitempty"`
	Department  *DepartmentBrief `json:"department,omitempty"`
}

// PendingStudentResponse 待审批学生条目
type PendingStudentResponse struct {
	UserID       string        `json:"user_id"`
	StudentID    string        `json:"student_id"`
	Email        string        `json:"email"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Program      *ProgramBrief `json:"program,omitempty"`
	RegisteredAt string        `json:"registered_at"`
}
