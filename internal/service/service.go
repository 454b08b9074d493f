package service

import (
	"go.uber.org/zap"

	"staffhub/backend/config"
	"staffhub/backend/internal/repository"
	"staffhub/backend/pkg/jwt"
	"staffhub/backend/pkg/redis"
)

// Service 业务层聚合
type Service struct {
	Auth       AuthService
	Attendance AttendanceService
	Face       FaceService
	Leave      LeaveService
	Config     ConfigService
}

// NewService 组装全部业务服务
// rdb 允许为 nil：黑名单、限流、人脸锁定与事件广播整体降级，核心打卡链路不受影响
func NewService(cfg *config.Config, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *Service {
	notifier := NewNotifier(rdb, logger)
	gate := NewOriginGate(repo, logger)
	face := NewFaceService(repo, rdb, logger)

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Attendance: NewAttendanceService(repo, gate, face, notifier, logger),
		Face:       face,
		Leave:      NewLeaveService(repo, notifier, logger),
		Config:     NewConfigService(repo, logger),
	}
}
