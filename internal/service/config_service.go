package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/model"
	"staffhub/backend/internal/repository"
)

// ── 管理配置模块业务错误 ──

var (
	ErrAttendanceConfigInvalid = errors.New("上班时间必须早于下班时间")
	ErrAllowedIPNotFound       = errors.New("白名单条目不存在")
	ErrAllowedIPDuplicated     = errors.New("该 IP 已在白名单中")
	ErrLeaveConfigNotFound     = errors.New("该请假类型未配置额度")
)

// ConfigService 管理端配置业务接口
type ConfigService interface {
	// 考勤配置（单行）
	GetAttendanceConfig(ctx context.Context) (*dto.AttendanceConfigResponse, error)
	UpdateAttendanceConfig(ctx context.Context, operatorID string, req *dto.UpdateAttendanceConfigRequest) (*dto.AttendanceConfigResponse, error)

	// IP 白名单
	ListAllowedIPs(ctx context.Context) ([]dto.AllowedIPResponse, error)
	CreateAllowedIP(ctx context.Context, operatorID string, req *dto.CreateAllowedIPRequest) (*dto.AllowedIPResponse, error)
	UpdateAllowedIP(ctx context.Context, operatorID, id string, req *dto.UpdateAllowedIPRequest) (*dto.AllowedIPResponse, error)
	DeleteAllowedIP(ctx context.Context, id string) error

	// 请假额度
	ListLeaveConfigs(ctx context.Context) ([]dto.LeaveConfigResponse, error)
	UpsertLeaveConfig(ctx context.Context, operatorID string, req *dto.UpsertLeaveConfigRequest) (*dto.LeaveConfigResponse, error)
	DeleteLeaveConfig(ctx context.Context, leaveType string) error
}

type configService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConfigService 创建 ConfigService 实例
func NewConfigService(repo *repository.Repository, logger *zap.Logger) ConfigService {
	return &configService{repo: repo, logger: logger}
}

// ────────────────────── 考勤配置 ──────────────────────

func (s *configService) GetAttendanceConfig(ctx context.Context) (*dto.AttendanceConfigResponse, error) {
	cfg, err := s.repo.AttendanceConfig.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceConfigMissing
		}
		s.logger.Error("读取考勤配置失败", zap.Error(err))
		return nil, err
	}
	return toAttendanceConfigResponse(cfg), nil
}

func (s *configService) UpdateAttendanceConfig(ctx context.Context, operatorID string, req *dto.UpdateAttendanceConfigRequest) (*dto.AttendanceConfigResponse, error) {
	cfg, err := s.repo.AttendanceConfig.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceConfigMissing
		}
		s.logger.Error("读取考勤配置失败", zap.Error(err))
		return nil, err
	}

	if req.StartTime != nil {
		cfg.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		cfg.EndTime = *req.EndTime
	}
	if req.LateThresholdMinutes != nil {
		cfg.LateThresholdMinutes = *req.LateThresholdMinutes
	}
	if req.EarlyLeaveThresholdMinutes != nil {
		cfg.EarlyLeaveThresholdMinutes = *req.EarlyLeaveThresholdMinutes
	}
	if req.RequireReasonOnLate != nil {
		cfg.RequireReasonOnLate = *req.RequireReasonOnLate
	}
	if req.RequireReasonOnEarly != nil {
		cfg.RequireReasonOnEarly = *req.RequireReasonOnEarly
	}

	// 合并后整体校验，避免两个字段分两次更新时穿过校验
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	start, err := clockOn(day, cfg.StartTime)
	if err != nil {
		return nil, ErrAttendanceConfigInvalid
	}
	end, err := clockOn(day, cfg.EndTime)
	if err != nil {
		return nil, ErrAttendanceConfigInvalid
	}
	if !start.Before(end) {
		return nil, ErrAttendanceConfigInvalid
	}

	cfg.UpdatedBy = &operatorID
	if err := s.repo.AttendanceConfig.Update(ctx, cfg); err != nil {
		s.logger.Error("更新考勤配置失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("考勤配置已更新",
		zap.String("operator_id", operatorID),
		zap.String("start_time", cfg.StartTime),
		zap.String("end_time", cfg.EndTime),
	)
	return toAttendanceConfigResponse(cfg), nil
}

// ────────────────────── IP 白名单 ──────────────────────

func (s *configService) ListAllowedIPs(ctx context.Context) ([]dto.AllowedIPResponse, error) {
	entries, err := s.repo.AllowedIP.List(ctx)
	if err != nil {
		s.logger.Error("读取 IP 白名单失败", zap.Error(err))
		return nil, err
	}
	list := make([]dto.AllowedIPResponse, 0, len(entries))
	for i := range entries {
		list = append(list, toAllowedIPResponse(&entries[i]))
	}
	return list, nil
}

func (s *configService) CreateAllowedIP(ctx context.Context, operatorID string, req *dto.CreateAllowedIPRequest) (*dto.AllowedIPResponse, error) {
	entry := &model.AllowedIP{
		IPAddress:   req.IPAddress,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}
	entry.CreatedBy = &operatorID
	entry.UpdatedBy = &operatorID

	if err := s.repo.AllowedIP.Create(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAllowedIPDuplicated
		}
		s.logger.Error("新增白名单 IP 失败", zap.Error(err), zap.String("ip", req.IPAddress))
		return nil, err
	}

	s.logger.Info("白名单 IP 已添加",
		zap.String("operator_id", operatorID),
		zap.String("ip", entry.IPAddress),
	)
	resp := toAllowedIPResponse(entry)
	return &resp, nil
}

func (s *configService) UpdateAllowedIP(ctx context.Context, operatorID, id string, req *dto.UpdateAllowedIPRequest) (*dto.AllowedIPResponse, error) {
	entry, err := s.repo.AllowedIP.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllowedIPNotFound
		}
		s.logger.Error("查询白名单条目失败", zap.Error(err))
		return nil, err
	}

	if req.IPAddress != nil {
		entry.IPAddress = *req.IPAddress
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}
	entry.UpdatedBy = &operatorID

	if err := s.repo.AllowedIP.Update(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAllowedIPDuplicated
		}
		s.logger.Error("更新白名单条目失败", zap.Error(err), zap.String("allowed_ip_id", id))
		return nil, err
	}

	resp := toAllowedIPResponse(entry)
	return &resp, nil
}

func (s *configService) DeleteAllowedIP(ctx context.Context, id string) error {
	if _, err := s.repo.AllowedIP.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllowedIPNotFound
		}
		s.logger.Error("查询白名单条目失败", zap.Error(err))
		return err
	}
	if err := s.repo.AllowedIP.Delete(ctx, id); err != nil {
		s.logger.Error("删除白名单条目失败", zap.Error(err), zap.String("allowed_ip_id", id))
		return err
	}
	return nil
}

// ────────────────────── 请假额度 ──────────────────────

func (s *configService) ListLeaveConfigs(ctx context.Context) ([]dto.LeaveConfigResponse, error) {
	configs, err := s.repo.LeaveConfig.List(ctx)
	if err != nil {
		s.logger.Error("读取请假额度配置失败", zap.Error(err))
		return nil, err
	}
	list := make([]dto.LeaveConfigResponse, 0, len(configs))
	for _, cfg := range configs {
		list = append(list, dto.LeaveConfigResponse{
			LeaveType: cfg.LeaveType,
			LimitDays: cfg.LimitDays,
			Period:    cfg.Period,
		})
	}
	return list, nil
}

func (s *configService) UpsertLeaveConfig(ctx context.Context, operatorID string, req *dto.UpsertLeaveConfigRequest) (*dto.LeaveConfigResponse, error) {
	cfg := &model.LeaveConfig{
		LeaveType: req.LeaveType,
		LimitDays: req.LimitDays,
		Period:    req.Period,
	}
	cfg.CreatedBy = &operatorID
	cfg.UpdatedBy = &operatorID

	if err := s.repo.LeaveConfig.Upsert(ctx, cfg); err != nil {
		s.logger.Error("写入请假额度配置失败", zap.Error(err), zap.String("leave_type", req.LeaveType))
		return nil, err
	}

	s.logger.Info("请假额度已配置",
		zap.String("operator_id", operatorID),
		zap.String("leave_type", cfg.LeaveType),
		zap.Float64("limit_days", cfg.LimitDays),
		zap.String("period", cfg.Period),
	)
	return &dto.LeaveConfigResponse{
		LeaveType: cfg.LeaveType,
		LimitDays: cfg.LimitDays,
		Period:    cfg.Period,
	}, nil
}

func (s *configService) DeleteLeaveConfig(ctx context.Context, leaveType string) error {
	if _, err := s.repo.LeaveConfig.GetByType(ctx, leaveType); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeaveConfigNotFound
		}
		s.logger.Error("读取请假额度配置失败", zap.Error(err))
		return err
	}
	if err := s.repo.LeaveConfig.DeleteByType(ctx, leaveType); err != nil {
		s.logger.Error("删除请假额度配置失败", zap.Error(err), zap.String("leave_type", leaveType))
		return err
	}
	return nil
}

// ── 响应映射 ──

func toAttendanceConfigResponse(cfg *model.AttendanceConfig) *dto.AttendanceConfigResponse {
	return &dto.AttendanceConfigResponse{
		StartTime:                  cfg.StartTime,
		EndTime:                    cfg.EndTime,
		LateThresholdMinutes:       cfg.LateThresholdMinutes,
		EarlyLeaveThresholdMinutes: cfg.EarlyLeaveThresholdMinutes,
		RequireReasonOnLate:        cfg.RequireReasonOnLate,
		RequireReasonOnEarly:       cfg.RequireReasonOnEarly,
		UpdatedAt:                  cfg.UpdatedAt.Format(time.RFC3339),
	}
}

func toAllowedIPResponse(entry *model.AllowedIP) dto.AllowedIPResponse {
	return dto.AllowedIPResponse{
		ID:          entry.AllowedIPID,
		IPAddress:   entry.IPAddress,
		Description: entry.Description,
		IsActive:    entry.IsActive,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
	}
}
