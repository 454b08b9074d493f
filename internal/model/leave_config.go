package model

// 请假类型
const (
	LeaveTypeSick         = "sick-leave"
	LeaveTypePaid         = "paid-leave"
	LeaveTypeWorkFromHome = "work-from-home"
	LeaveTypeUnpaid       = "unpaid-leave" // 不设额度，不入配置表
)

// 额度周期
const (
	LeavePeriodMonthly = "monthly"
	LeavePeriodYearly  = "yearly"
)

// ConfigurableLeaveTypes 允许配置额度的请假类型（unpaid-leave 刻意排除）
var ConfigurableLeaveTypes = []string{
	LeaveTypeSick,
	LeaveTypePaid,
	LeaveTypeWorkFromHome,
}

// LeaveConfig 请假额度配置表 — 对应 leave_configs
// 每种类型一行；未配置的类型视为无限额度、不做余额统计
type LeaveConfig struct {
	LeaveConfigID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"leave_config_id"`
	LeaveType     string  `gorm:"type:varchar(30);not null;uniqueIndex"          json:"leave_type"`
	LimitDays     float64 `gorm:"type:numeric(5,1);not null"                     json:"limit_days"`
	Period        string  `gorm:"type:varchar(10);not null"                      json:"period"` // monthly | yearly
	BaseModel
}

// TableName 指定表名
func (LeaveConfig) TableName() string { return "leave_configs" }
