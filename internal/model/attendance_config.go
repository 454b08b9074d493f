package model

// AttendanceConfig 考勤配置表 — 对应 attendance_config（单行强类型）
// 管理端可改，打卡请求在策略评估开始时读取一次快照
type AttendanceConfig struct {
	Singleton                  bool   `gorm:"primaryKey;default:true"            json:"-"`
	StartTime                  string `gorm:"type:time;not null;default:'09:00'" json:"start_time"`
	EndTime                    string `gorm:"type:time;not null;default:'18:00'" json:"end_time"`
	LateThresholdMinutes       int    `gorm:"not null;default:15"                json:"late_threshold_minutes"`
	EarlyLeaveThresholdMinutes int    `gorm:"not null;default:10"                json:"early_leave_threshold_minutes"`
	RequireReasonOnLate        bool   `gorm:"not null;default:true"              json:"require_reason_on_late"`
	RequireReasonOnEarly       bool   `gorm:"not null;default:true"              json:"require_reason_on_early"`
	BaseModel
}

// TableName 指定表名
func (AttendanceConfig) TableName() string { return "attendance_config" }
