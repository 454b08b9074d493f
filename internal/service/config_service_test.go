package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }

func TestConfigService_UpdateAttendanceConfig(t *testing.T) {
	repo, m := newMocks()
	m.attendanceConfig.cfg = defaultAttendanceConfig()
	svc := NewConfigService(repo, zap.NewNop())
	ctx := context.Background()

	resp, err := svc.UpdateAttendanceConfig(ctx, "admin1", &dto.UpdateAttendanceConfigRequest{
		StartTime:            strPtr("08:30"),
		LateThresholdMinutes: intPtr(5),
	})
	if err != nil {
		t.Fatalf("部分更新应成功: %v", err)
	}
	if resp.StartTime != "08:30" || resp.LateThresholdMinutes != 5 {
		t.Errorf("更新未生效: %+v", resp)
	}
	// 未提交的字段保持不变
	if resp.EndTime != "18:00" || resp.EarlyLeaveThresholdMinutes != 10 {
		t.Errorf("未提交字段被改动: %+v", resp)
	}
}

func TestConfigService_UpdateAttendanceConfig_Invalid(t *testing.T) {
	repo, m := newMocks()
	m.attendanceConfig.cfg = defaultAttendanceConfig()
	svc := NewConfigService(repo, zap.NewNop())

	// 上班时间晚于下班时间
	_, err := svc.UpdateAttendanceConfig(context.Background(), "admin1",
		&dto.UpdateAttendanceConfigRequest{StartTime: strPtr("19:00")})
	if !errors.Is(err, ErrAttendanceConfigInvalid) {
		t.Errorf("期望 ErrAttendanceConfigInvalid, 实际 %v", err)
	}

	// 校验失败不应污染存量配置
	cfg, _ := m.attendanceConfig.Get(context.Background())
	if cfg.StartTime != "09:00" {
		t.Errorf("校验失败后配置被改动: %q", cfg.StartTime)
	}
}

func TestConfigService_AllowedIPCRUD(t *testing.T) {
	repo, _ := newMocks()
	svc := NewConfigService(repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateAllowedIP(ctx, "admin1", &dto.CreateAllowedIPRequest{
		IPAddress:   "10.0.0.1",
		Description: "办公室出口",
	})
	if err != nil {
		t.Fatalf("新增应成功: %v", err)
	}
	if !created.IsActive {
		t.Error("未指定 is_active 时默认激活")
	}

	// 重复 IP
	_, err = svc.CreateAllowedIP(ctx, "admin1", &dto.CreateAllowedIPRequest{IPAddress: "10.0.0.1"})
	if !errors.Is(err, ErrAllowedIPDuplicated) {
		t.Errorf("重复 IP 应返回 ErrAllowedIPDuplicated, 实际 %v", err)
	}

	updated, err := svc.UpdateAllowedIP(ctx, "admin1", created.ID,
		&dto.UpdateAllowedIPRequest{IsActive: boolPtr(false)})
	if err != nil {
		t.Fatalf("更新应成功: %v", err)
	}
	if updated.IsActive {
		t.Error("停用未生效")
	}

	if err := svc.DeleteAllowedIP(ctx, created.ID); err != nil {
		t.Fatalf("删除应成功: %v", err)
	}
	if err := svc.DeleteAllowedIP(ctx, created.ID); !errors.Is(err, ErrAllowedIPNotFound) {
		t.Errorf("删除不存在的条目应返回 ErrAllowedIPNotFound, 实际 %v", err)
	}

	list, err := svc.ListAllowedIPs(ctx)
	if err != nil || len(list) != 0 {
		t.Errorf("删除后列表应为空, len = %d, err = %v", len(list), err)
	}
}

func TestConfigService_LeaveConfig(t *testing.T) {
	repo, _ := newMocks()
	svc := NewConfigService(repo, zap.NewNop())
	ctx := context.Background()

	resp, err := svc.UpsertLeaveConfig(ctx, "admin1", &dto.UpsertLeaveConfigRequest{
		LeaveType: model.LeaveTypeSick,
		LimitDays: 12,
		Period:    model.LeavePeriodYearly,
	})
	if err != nil {
		t.Fatalf("配置额度应成功: %v", err)
	}
	if resp.LimitDays != 12 {
		t.Errorf("LimitDays = %v, 期望 12", resp.LimitDays)
	}

	// 覆盖写
	resp, err = svc.UpsertLeaveConfig(ctx, "admin1", &dto.UpsertLeaveConfigRequest{
		LeaveType: model.LeaveTypeSick,
		LimitDays: 6,
		Period:    model.LeavePeriodMonthly,
	})
	if err != nil {
		t.Fatalf("覆盖配置应成功: %v", err)
	}

	list, _ := svc.ListLeaveConfigs(ctx)
	if len(list) != 1 {
		t.Fatalf("同类型重复配置应覆盖而非新增, len = %d", len(list))
	}
	if list[0].LimitDays != 6 || list[0].Period != model.LeavePeriodMonthly {
		t.Errorf("覆盖未生效: %+v", list[0])
	}

	if err := svc.DeleteLeaveConfig(ctx, model.LeaveTypeSick); err != nil {
		t.Fatalf("删除应成功: %v", err)
	}
	if err := svc.DeleteLeaveConfig(ctx, model.LeaveTypeSick); !errors.Is(err, ErrLeaveConfigNotFound) {
		t.Errorf("删除不存在的配置应返回 ErrLeaveConfigNotFound, 实际 %v", err)
	}
}
