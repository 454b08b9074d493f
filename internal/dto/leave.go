package dto

// ── 请假模块 DTO ──

// CreateLeaveRequest 创建请假单请求
type CreateLeaveRequest struct {
	LeaveType   string `json:"leave_type"    binding:"required,oneof=sick-leave paid-leave work-from-home unpaid-leave"`
	StartDate   string `json:"start_date"    binding:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date"      binding:"required,datetime=2006-01-02"`
	Duration    string `json:"duration"      binding:"required,oneof=full-day half-day"`
	HalfDayType string `json:"half_day_type" binding:"omitempty,oneof=first-half second-half"`
	Reason      string `json:"reason"        binding:"required,min=10,max=1000"`
}

// RejectLeaveRequest 驳回请假单请求
type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required,min=1,max=1000"`
}

// LeaveRequestResponse 请假单响应
type LeaveRequestResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	UserName        string  `json:"user_name,omitempty"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Duration        string  `json:"duration"`
	HalfDayType     *string `json:"half_day_type,omitempty"`
	Status          string  `json:"status"`
	Reason          string  `json:"reason"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// LeaveBalanceItem 单个请假类型的余额
// Remaining 对普通用户在响应层钳制到 0，RawRemaining 供管理端观察超发
type LeaveBalanceItem struct {
	LeaveType   string  `json:"leave_type"`
	Period      string  `json:"period"`
	PeriodLabel string  `json:"period_label"` // 如 2026-08 / 2026
	Limit       float64 `json:"limit"`
	Used        float64 `json:"used"`
	Remaining   float64 `json:"remaining"`
}

// LeaveBalanceResponse 余额响应（未配置额度的类型不出现在列表中）
type LeaveBalanceResponse struct {
	AsOf     string             `json:"as_of"` // YYYY-MM-DD
	Balances []LeaveBalanceItem `json:"balances"`
}

// LeaveListQuery 请假单列表查询参数
type LeaveListQuery struct {
	Status   string `form:"status"    binding:"omitempty,oneof=pending approved rejected cancelled"`
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
