package handler

import "staffhub/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Attendance *AttendanceHandler
	Face       *FaceHandler
	Leave      *LeaveHandler
	Config     *ConfigHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Face:       NewFaceHandler(svc.Face),
		Leave:      NewLeaveHandler(svc.Leave),
		Config:     NewConfigHandler(svc.Config),
	}
}
