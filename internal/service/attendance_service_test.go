package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/model"
)

// newAttendanceSvc 组装带固定时钟的考勤服务，并播种一个已注册人脸的激活用户
func newAttendanceSvc(t *testing.T, now time.Time) (AttendanceService, *mocks) {
	t.Helper()
	repo, m := newMocks()
	logger := zap.NewNop()

	m.user.users["u1"] = &model.User{
		UserID:     "u1",
		Name:       "张三",
		IsActive:   true,
		FaceVector: model.FaceVector(sampleVector(0.1)),
	}
	m.attendanceConfig.cfg = defaultAttendanceConfig()

	svc := NewAttendanceService(
		repo,
		NewOriginGate(repo, logger),
		NewFaceService(repo, nil, logger),
		NewNotifier(nil, logger),
		logger,
	).(*attendanceService)
	svc.now = func() time.Time { return now }
	return svc, m
}

func punchReq(reason string) *dto.PunchRequest {
	return &dto.PunchRequest{FaceVector: sampleVector(0.1), Reason: reason}
}

func TestAttendanceService_PunchIn(t *testing.T) {
	svc, m := newAttendanceSvc(t, at("08:58:00"))

	resp, err := svc.PunchIn(context.Background(), "u1", "10.0.0.1", punchReq(""))
	if err != nil {
		t.Fatalf("准点打卡应成功: %v", err)
	}
	if resp.Late {
		t.Error("准点打卡不应标记迟到")
	}
	if resp.Record.PunchDate != "2026-08-10" {
		t.Errorf("PunchDate = %q, 期望 2026-08-10", resp.Record.PunchDate)
	}
	if resp.Record.PunchInLateReason != nil {
		t.Error("未迟到不应保存原因")
	}
	if len(m.attendance.records) != 1 {
		t.Fatalf("记录数 = %d, 期望 1", len(m.attendance.records))
	}
}

func TestAttendanceService_PunchIn_Duplicate(t *testing.T) {
	svc, _ := newAttendanceSvc(t, at("08:58:00"))

	if _, err := svc.PunchIn(context.Background(), "u1", "10.0.0.1", punchReq("")); err != nil {
		t.Fatalf("首次打卡应成功: %v", err)
	}
	_, err := svc.PunchIn(context.Background(), "u1", "10.0.0.1", punchReq(""))
	if !errors.Is(err, ErrAlreadyPunchedIn) {
		t.Errorf("重复打卡应返回 ErrAlreadyPunchedIn, 实际 %v", err)
	}
}

func TestAttendanceService_PunchIn_LateRequiresReason(t *testing.T) {
	svc, m := newAttendanceSvc(t, at("09:40:00"))

	_, err := svc.PunchIn(context.Background(), "u1", "10.0.0.1", punchReq(""))
	var reasonErr *ReasonRequiredError
	if !errors.As(err, &reasonErr) || reasonErr.Kind != ReasonKindLate {
		t.Fatalf("迟到无原因应返回 ReasonRequiredError(late), 实际 %v", err)
	}
	// 被驳回的请求绝不落库
	if len(m.attendance.records) != 0 {
		t.Error("策略驳回后不应产生任何记录")
	}

	resp, err := svc.PunchIn(context.Background(), "u1", "10.0.0.1",
		punchReq("早高峰地铁停运改乘公交导致迟到"))
	if err != nil {
		t.Fatalf("带原因重新提交应成功: %v", err)
	}
	if !resp.Late {
		t.Error("应标记为迟到")
	}
	if resp.Record.PunchInLateReason == nil {
		t.Error("迟到原因应随记录保存")
	}
}

func TestAttendanceService_PunchIn_OriginDenied(t *testing.T) {
	svc, m := newAttendanceSvc(t, at("08:58:00"))
	_ = m.allowedIP.Create(context.Background(), &model.AllowedIP{
		IPAddress: "10.0.0.1",
		IsActive:  true,
	})

	_, err := svc.PunchIn(context.Background(), "u1", "198.51.100.9", punchReq(""))
	var denied *OriginDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("期望 OriginDeniedError, 实际 %v", err)
	}
	if denied.CurrentIP != "198.51.100.9" {
		t.Errorf("CurrentIP = %q, 期望回传请求方 IP", denied.CurrentIP)
	}
	if len(m.attendance.records) != 0 {
		t.Error("来源被拒不应产生记录")
	}
}

// 来源网关必须先于人脸验证：IP 被拒时不应暴露人脸注册状态
func TestAttendanceService_PunchIn_GateOrder(t *testing.T) {
	svc, m := newAttendanceSvc(t, at("08:58:00"))
	m.user.users["u1"].FaceVector = nil
	_ = m.allowedIP.Create(context.Background(), &model.AllowedIP{
		IPAddress: "10.0.0.1",
		IsActive:  true,
	})

	_, err := svc.PunchIn(context.Background(), "u1", "198.51.100.9", punchReq(""))
	var denied *OriginDeniedError
	if !errors.As(err, &denied) {
		t.Errorf("应先返回来源拒绝, 实际 %v", err)
	}
}

func TestAttendanceService_PunchIn_FaceMismatch(t *testing.T) {
	svc, m := newAttendanceSvc(t, at("08:58:00"))

	req := &dto.PunchRequest{FaceVector: sampleVector(0.9)}
	_, err := svc.PunchIn(context.Background(), "u1", "10.0.0.1", req)
	if !errors.Is(err, ErrFaceMismatch) {
		t.Errorf("期望 ErrFaceMismatch, 实际 %v", err)
	}
	if len(m.attendance.records) != 0 {
		t.Error("人脸不匹配不应产生记录")
	}
}

func TestAttendanceService_PunchIn_InactiveUser(t *testing.T) {
	svc, m := newAttendanceSvc(t, at("08:58:00"))
	m.user.users["u1"].IsActive = false

	_, err := svc.PunchIn(context.Background(), "u1", "10.0.0.1", punchReq(""))
	if !errors.Is(err, ErrUserInactive) {
		t.Errorf("期望 ErrUserInactive, 实际 %v", err)
	}
}

func TestAttendanceService_PunchIn_ConfigMissing(t *testing.T) {
	svc, m := newAttendanceSvc(t, at("08:58:00"))
	m.attendanceConfig.cfg = nil

	_, err := svc.PunchIn(context.Background(), "u1", "10.0.0.1", punchReq(""))
	if !errors.Is(err, ErrAttendanceConfigMissing) {
		t.Errorf("期望 ErrAttendanceConfigMissing, 实际 %v", err)
	}
}

func TestAttendanceService_PunchOut(t *testing.T) {
	svc, _ := newAttendanceSvc(t, at("08:58:00"))
	if _, err := svc.PunchIn(context.Background(), "u1", "10.0.0.1", punchReq("")); err != nil {
		t.Fatalf("上班打卡失败: %v", err)
	}

	svc.(*attendanceService).now = func() time.Time { return at("18:05:00") }
	resp, err := svc.PunchOut(context.Background(), "u1", "10.0.0.1", punchReq(""))
	if err != nil {
		t.Fatalf("下班打卡应成功: %v", err)
	}
	if resp.Early {
		t.Error("正常时间下班不应标记早退")
	}
	if resp.Record.PunchOutTime == nil {
		t.Error("记录应包含下班时间")
	}

	// 闭环后再次下班打卡
	_, err = svc.PunchOut(context.Background(), "u1", "10.0.0.1", punchReq(""))
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("重复下班打卡应返回 ErrAlreadyCompleted, 实际 %v", err)
	}
}

func TestAttendanceService_PunchOut_WithoutPunchIn(t *testing.T) {
	svc, _ := newAttendanceSvc(t, at("18:05:00"))

	_, err := svc.PunchOut(context.Background(), "u1", "10.0.0.1", punchReq(""))
	if !errors.Is(err, ErrNotPunchedIn) {
		t.Errorf("期望 ErrNotPunchedIn, 实际 %v", err)
	}
}

func TestAttendanceService_PunchOut_EarlyRequiresReason(t *testing.T) {
	svc, m := newAttendanceSvc(t, at("08:58:00"))
	if _, err := svc.PunchIn(context.Background(), "u1", "10.0.0.1", punchReq("")); err != nil {
		t.Fatalf("上班打卡失败: %v", err)
	}

	svc.(*attendanceService).now = func() time.Time { return at("16:00:00") }
	_, err := svc.PunchOut(context.Background(), "u1", "10.0.0.1", punchReq(""))
	var reasonErr *ReasonRequiredError
	if !errors.As(err, &reasonErr) || reasonErr.Kind != ReasonKindEarly {
		t.Fatalf("早退无原因应返回 ReasonRequiredError(early), 实际 %v", err)
	}

	// 记录保持开放，可带原因重新提交
	for _, r := range m.attendance.records {
		if r.PunchOutTime != nil {
			t.Error("被驳回后记录不应闭环")
		}
	}

	resp, err := svc.PunchOut(context.Background(), "u1", "10.0.0.1",
		punchReq("下午需要去医院复诊拿药"))
	if err != nil {
		t.Fatalf("带原因重新提交应成功: %v", err)
	}
	if !resp.Early {
		t.Error("应标记为早退")
	}
	if resp.Record.PunchOutEarlyReason == nil {
		t.Error("早退原因应随记录保存")
	}
}

func TestAttendanceService_Today(t *testing.T) {
	svc, _ := newAttendanceSvc(t, at("08:58:00"))
	ctx := context.Background()

	resp, err := svc.Today(ctx, "u1")
	if err != nil {
		t.Fatalf("Today 失败: %v", err)
	}
	if resp.State != dto.PunchStateNotPunchedIn {
		t.Errorf("State = %q, 期望 not_punched_in", resp.State)
	}

	if _, err := svc.PunchIn(ctx, "u1", "10.0.0.1", punchReq("")); err != nil {
		t.Fatalf("上班打卡失败: %v", err)
	}
	resp, _ = svc.Today(ctx, "u1")
	if resp.State != dto.PunchStatePunchedIn {
		t.Errorf("State = %q, 期望 punched_in", resp.State)
	}

	svc.(*attendanceService).now = func() time.Time { return at("18:05:00") }
	if _, err := svc.PunchOut(ctx, "u1", "10.0.0.1", punchReq("")); err != nil {
		t.Fatalf("下班打卡失败: %v", err)
	}
	resp, _ = svc.Today(ctx, "u1")
	if resp.State != dto.PunchStateCompleted {
		t.Errorf("State = %q, 期望 completed", resp.State)
	}
	if resp.Record == nil {
		t.Error("有记录时应返回记录")
	}
}

func TestAttendanceService_History(t *testing.T) {
	svc, _ := newAttendanceSvc(t, at("08:58:00"))
	ctx := context.Background()
	if _, err := svc.PunchIn(ctx, "u1", "10.0.0.1", punchReq("")); err != nil {
		t.Fatalf("上班打卡失败: %v", err)
	}

	list, total, err := svc.History(ctx, "u1", &dto.HistoryQuery{})
	if err != nil {
		t.Fatalf("History 失败: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Errorf("total = %d, len = %d, 期望各为 1", total, len(list))
	}

	// 范围外查询
	list, total, err = svc.History(ctx, "u1", &dto.HistoryQuery{
		From: "2026-01-01", To: "2026-01-31",
	})
	if err != nil {
		t.Fatalf("History 失败: %v", err)
	}
	if total != 0 || len(list) != 0 {
		t.Errorf("范围外应为空, total = %d", total)
	}
}
