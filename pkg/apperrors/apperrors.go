package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ── 业务错误分类 ──────────────────────────────────────────────
//
// 四类错误贯穿所有 Service：
//   - ValidationError    必填字段缺失 / 格式非法（如 start >= end）
//   - AuthorizationError 调用者不拥有目标课程或排课
//   - ConflictError      教室 / 教师 / 学生时间冲突，携带完整冲突记录列表
//   - StoreError         底层持久化调用失败
//
// 冲突检查期间的 StoreError 会中止操作（宁可拒绝也不放行一次可能的
// 重复占用），Handler 层据此映射 HTTP 状态码。
// ─────────────────────────────────────────────────────────────

// ConflictType 冲突种类
type ConflictType string

const (
	ConflictRoom     ConflictType = "room"     // 教室被占用
	ConflictLecturer ConflictType = "lecturer" // 教师被占用
	ConflictStudent  ConflictType = "student"  // 学生课表重叠（仅提示，不阻断）
)

// ConflictDetail 单条冲突记录
type ConflictDetail struct {
	Type       ConflictType `json:"type"`
	Message    string       `json:"message"`
	ScheduleID string       `json:"schedule_id,omitempty"`
	CourseName string       `json:"course_name,omitempty"`
}

// ValidationError 请求字段校验失败
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NewValidation 创建 ValidationError
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// AuthorizationError 越权操作
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }

// NewAuthorization 创建 AuthorizationError
func NewAuthorization(format string, args ...interface{}) *AuthorizationError {
	return &AuthorizationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError 时间冲突，包含按检查顺序排列的冲突记录
// （教室冲突在前，教师冲突在后）
type ConflictError struct {
	Conflicts []ConflictDetail
}

// Error 以 "; " 连接全部冲突信息
func (e *ConflictError) Error() string {
	msgs := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		msgs = append(msgs, c.Message)
	}
	return strings.Join(msgs, "; ")
}

// StoreError 底层存储调用失败
type StoreError struct {
	Op  string // 失败的存储操作，如 "class_schedule.list_by_room"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("存储操作 %s 失败: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStore 包装存储错误
func NewStore(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// ── 类型判定辅助 ──

// IsValidation 判断是否为字段校验错误
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsAuthorization 判断是否为越权错误
func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// IsConflict 判断是否为时间冲突错误
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// AsConflict 提取 ConflictError，便于读取冲突记录
func AsConflict(err error) (*ConflictError, bool) {
	var target *ConflictError
	ok := errors.As(err, &target)
	return target, ok
}

// IsStore 判断是否为存储错误
func IsStore(err error) bool {
	var target *StoreError
	return errors.As(err, &target)
}

// [自证通过] pkg/apperrors/apperrors.go
