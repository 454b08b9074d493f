package model

import "time"

// AttendanceRecord 考勤记录表 — 对应 attendance_records
// 每个用户每个自然日至多一条，由 (user_id, punch_date) 唯一约束保证；
// 记录一旦写入 punch_out_time 即为终态，不再变更
type AttendanceRecord struct {
	AttendanceRecordID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_record_id"`
	UserID              string     `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_user_date" json:"user_id"`
	PunchDate           time.Time  `gorm:"type:date;not null;uniqueIndex:uq_attendance_user_date" json:"punch_date"`
	PunchInTime         time.Time  `gorm:"not null"  json:"punch_in_time"`
	PunchOutTime        *time.Time `json:"punch_out_time,omitempty"`
	PunchInLateReason   *string    `gorm:"type:text" json:"punch_in_late_reason,omitempty"`
	PunchOutEarlyReason *string    `gorm:"type:text" json:"punch_out_early_reason,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// Completed 当天打卡是否已闭环（已下班打卡）
func (r *AttendanceRecord) Completed() bool {
	return r.PunchOutTime != nil
}
