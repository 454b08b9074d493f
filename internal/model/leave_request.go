package model

import "time"

// 请假单状态
const (
	LeaveStatusPending   = "pending"
	LeaveStatusApproved  = "approved"
	LeaveStatusRejected  = "rejected"
	LeaveStatusCancelled = "cancelled"
)

// 请假时长类型
const (
	LeaveDurationFullDay = "full-day"
	LeaveDurationHalfDay = "half-day"
)

// 半天类型
const (
	HalfDayFirst  = "first-half"
	HalfDaySecond = "second-half"
)

// LeaveRequest 请假单表 — 对应 leave_requests
// 用户创建后仅管理员可审批（pending→approved|rejected），本人可撤销（pending→cancelled）；
// approved / rejected / cancelled 均为终态
type LeaveRequest struct {
	LeaveRequestID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"leave_request_id"`
	UserID          string     `gorm:"type:uuid;not null;index:idx_leave_requests_user_dates" json:"user_id"`
	LeaveType       string     `gorm:"type:varchar(30);not null"                      json:"leave_type"`
	StartDate       time.Time  `gorm:"type:date;not null;index:idx_leave_requests_user_dates" json:"start_date"`
	EndDate         time.Time  `gorm:"type:date;not null;index:idx_leave_requests_user_dates" json:"end_date"`
	Duration        string     `gorm:"type:varchar(10);not null;default:'full-day'"   json:"duration"`
	HalfDayType     *string    `gorm:"type:varchar(15)"                               json:"half_day_type,omitempty"`
	Status          string     `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	Reason          string     `gorm:"type:text;not null"                             json:"reason"`
	ReviewedBy      *string    `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason *string    `gorm:"type:text"                                      json:"rejection_reason,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (LeaveRequest) TableName() string { return "leave_requests" }

// DayWeight 单个请假日期折算的天数（半天按 0.5 计）
func (r *LeaveRequest) DayWeight() float64 {
	if r.Duration == LeaveDurationHalfDay {
		return 0.5
	}
	return 1.0
}
