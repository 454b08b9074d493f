package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User             UserRepository
	Attendance       AttendanceRepository
	AttendanceConfig AttendanceConfigRepository
	AllowedIP        AllowedIPRepository
	LeaveConfig      LeaveConfigRepository
	LeaveRequest     LeaveRequestRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:             NewUserRepo(db),
		Attendance:       NewAttendanceRepo(db),
		AttendanceConfig: NewAttendanceConfigRepo(db),
		AllowedIP:        NewAllowedIPRepo(db),
		LeaveConfig:      NewLeaveConfigRepo(db),
		LeaveRequest:     NewLeaveRequestRepo(db),
	}
}
