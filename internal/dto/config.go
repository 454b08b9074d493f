package dto

// ── 管理配置模块 DTO ──

// UpdateAttendanceConfigRequest 更新考勤配置请求（部分更新）
type UpdateAttendanceConfigRequest struct {
	StartTime                  *string `json:"start_time"                    binding:"omitempty,datetime=15:04"`
	EndTime                    *string `json:"end_time"                      binding:"omitempty,datetime=15:04"`
	LateThresholdMinutes       *int    `json:"late_threshold_minutes"        binding:"omitempty,min=0,max=240"`
	EarlyLeaveThresholdMinutes *int    `json:"early_leave_threshold_minutes" binding:"omitempty,min=0,max=240"`
	RequireReasonOnLate        *bool   `json:"require_reason_on_late"`
	RequireReasonOnEarly       *bool   `json:"require_reason_on_early"`
}

// AttendanceConfigResponse 考勤配置响应
type AttendanceConfigResponse struct {
	StartTime                  string `json:"start_time"`
	EndTime                    string `json:"end_time"`
	LateThresholdMinutes       int    `json:"late_threshold_minutes"`
	EarlyLeaveThresholdMinutes int    `json:"early_leave_threshold_minutes"`
	RequireReasonOnLate        bool   `json:"require_reason_on_late"`
	RequireReasonOnEarly       bool   `json:"require_reason_on_early"`
	UpdatedAt                  string `json:"updated_at"`
}

// CreateAllowedIPRequest 新增白名单 IP 请求
type CreateAllowedIPRequest struct {
	IPAddress   string `json:"ip_address"  binding:"required,ip"`
	Description string `json:"description" binding:"omitempty,max=200"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateAllowedIPRequest 更新白名单 IP 请求（部分更新）
type UpdateAllowedIPRequest struct {
	IPAddress   *string `json:"ip_address"  binding:"omitempty,ip"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	IsActive    *bool   `json:"is_active"`
}

// AllowedIPResponse 白名单 IP 响应
type AllowedIPResponse struct {
	ID          string `json:"id"`
	IPAddress   string `json:"ip_address"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

// UpsertLeaveConfigRequest 设置某请假类型额度请求
// unpaid-leave 刻意不可配置，保持无限额度
type UpsertLeaveConfigRequest struct {
	LeaveType string  `json:"leave_type" binding:"required,oneof=sick-leave paid-leave work-from-home"`
	LimitDays float64 `json:"limit_days" binding:"required,gt=0,max=366"`
	Period    string  `json:"period"     binding:"required,oneof=monthly yearly"`
}

// LeaveConfigResponse 请假额度配置响应
type LeaveConfigResponse struct {
	LeaveType string  `json:"leave_type"`
	LimitDays float64 `json:"limit_days"`
	Period    string  `json:"period"`
}
