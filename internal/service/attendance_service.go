package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/model"
	"staffhub/backend/internal/repository"
)

// ── 考勤模块业务错误 ──

var (
	ErrUserInactive            = errors.New("账号已停用，无法打卡")
	ErrAlreadyPunchedIn        = errors.New("今天已打过上班卡")
	ErrAlreadyCompleted        = errors.New("今天的考勤已完成")
	ErrNotPunchedIn            = errors.New("今天还没有打上班卡")
	ErrAttendanceConfigMissing = errors.New("考勤配置未初始化")
)

// 原因类型
const (
	ReasonKindLate  = "late"
	ReasonKindEarly = "early"
)

// OriginDeniedError 来源 IP 被白名单拒绝
type OriginDeniedError struct {
	CurrentIP string
}

func (e *OriginDeniedError) Error() string {
	return fmt.Sprintf("来源 IP 不在考勤白名单内: %s", e.CurrentIP)
}

// ReasonRequiredError 迟到/早退需补充原因
// 不落任何记录，客户端需带原因重新提交完整请求
type ReasonRequiredError struct {
	Kind string // late | early
}

func (e *ReasonRequiredError) Error() string {
	if e.Kind == ReasonKindEarly {
		return "早退需填写原因（不少于10字）"
	}
	return "迟到需填写原因（不少于10字）"
}

// AttendanceService 考勤打卡业务接口
// 打卡授权按 来源网关 → 人脸验证 → 时间策略 的固定顺序评估，
// 任一环节失败都不产生写入；提交阶段由数据库原语仲裁并发
type AttendanceService interface {
	PunchIn(ctx context.Context, userID, callerIP string, req *dto.PunchRequest) (*dto.PunchResponse, error)
	PunchOut(ctx context.Context, userID, callerIP string, req *dto.PunchRequest) (*dto.PunchResponse, error)
	Today(ctx context.Context, userID string) (*dto.TodayResponse, error)
	History(ctx context.Context, userID string, q *dto.HistoryQuery) ([]dto.AttendanceRecordResponse, int64, error)
	ListByDate(ctx context.Context, q *dto.AdminRecordsQuery) ([]dto.AttendanceRecordResponse, int64, error)
}

type attendanceService struct {
	repo     *repository.Repository
	gate     OriginGate
	face     FaceService
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time // 可注入时钟，策略边界测试用
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(
	repo *repository.Repository,
	gate OriginGate,
	face FaceService,
	notifier Notifier,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{
		repo:     repo,
		gate:     gate,
		face:     face,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── PunchIn ──────────────────────

func (s *attendanceService) PunchIn(ctx context.Context, userID, callerIP string, req *dto.PunchRequest) (*dto.PunchResponse, error) {
	if err := s.checkUserActive(ctx, userID); err != nil {
		return nil, err
	}

	// 1. 来源网关（失败则后续环节一律不执行）
	if err := s.checkOrigin(ctx, callerIP); err != nil {
		return nil, err
	}

	// 2. 人脸验证
	if err := s.face.Verify(ctx, userID, req.FaceVector); err != nil {
		return nil, err
	}

	// 3. 时间策略（配置在此处读取一次快照）
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	late, err := evaluatePunchIn(now, cfg, req.Reason)
	if err != nil {
		return nil, err
	}

	// 4. 原子创建当日记录；唯一约束决定并发打卡的唯一赢家
	record := &model.AttendanceRecord{
		UserID:      userID,
		PunchDate:   dateOf(now),
		PunchInTime: now,
	}
	if late && req.Reason != "" {
		// 原因仅在确实迟到时保留
		reason := req.Reason
		record.PunchInLateReason = &reason
	}

	if err := s.repo.Attendance.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyPunchedIn
		}
		s.logger.Error("创建考勤记录失败", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	// 5. 发布事件（失败不回滚）
	s.notifier.NotifyPunch(ctx, PunchEvent{
		Type:        EventPunchIn,
		UserID:      userID,
		Timestamp:   now,
		LateOrEarly: late,
	})

	return &dto.PunchResponse{
		PunchTime: now.Format(time.RFC3339),
		Late:      late,
		Record:    toAttendanceRecordResponse(record),
	}, nil
}

// ────────────────────── PunchOut ──────────────────────

func (s *attendanceService) PunchOut(ctx context.Context, userID, callerIP string, req *dto.PunchRequest) (*dto.PunchResponse, error) {
	if err := s.checkUserActive(ctx, userID); err != nil {
		return nil, err
	}

	// 前置状态检查：今天必须处于已上班未下班
	now := s.now()
	record, err := s.repo.Attendance.GetByUserAndDate(ctx, userID, dateOf(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotPunchedIn
		}
		s.logger.Error("查询当日考勤记录失败", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}
	if record.Completed() {
		return nil, ErrAlreadyCompleted
	}

	// 1. 来源网关
	if err := s.checkOrigin(ctx, callerIP); err != nil {
		return nil, err
	}

	// 2. 人脸验证
	if err := s.face.Verify(ctx, userID, req.FaceVector); err != nil {
		return nil, err
	}

	// 3. 时间策略
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	now = s.now()
	early, err := evaluatePunchOut(now, cfg, req.Reason)
	if err != nil {
		return nil, err
	}

	var earlyReason *string
	if early && req.Reason != "" {
		reason := req.Reason
		earlyReason = &reason
	}

	// 4. 条件更新：punch_out_time IS NULL 保证并发下班卡只有一个赢家
	won, err := s.repo.Attendance.CompletePunchOut(ctx, record.AttendanceRecordID, now, earlyReason)
	if err != nil {
		s.logger.Error("更新考勤记录失败", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}
	if !won {
		return nil, ErrAlreadyCompleted
	}

	record.PunchOutTime = &now
	record.PunchOutEarlyReason = earlyReason

	// 5. 发布事件
	s.notifier.NotifyPunch(ctx, PunchEvent{
		Type:        EventPunchOut,
		UserID:      userID,
		Timestamp:   now,
		LateOrEarly: early,
	})

	return &dto.PunchResponse{
		PunchTime: now.Format(time.RFC3339),
		Early:     early,
		Record:    toAttendanceRecordResponse(record),
	}, nil
}

// ────────────────────── Today ──────────────────────

func (s *attendanceService) Today(ctx context.Context, userID string) (*dto.TodayResponse, error) {
	record, err := s.repo.Attendance.GetByUserAndDate(ctx, userID, dateOf(s.now()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.TodayResponse{State: dto.PunchStateNotPunchedIn}, nil
		}
		s.logger.Error("查询当日考勤记录失败", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	state := dto.PunchStatePunchedIn
	if record.Completed() {
		state = dto.PunchStateCompleted
	}
	resp := toAttendanceRecordResponse(record)
	return &dto.TodayResponse{State: state, Record: &resp}, nil
}

// ────────────────────── History ──────────────────────

func (s *attendanceService) History(ctx context.Context, userID string, q *dto.HistoryQuery) ([]dto.AttendanceRecordResponse, int64, error) {
	page, pageSize := normalizePage(q.Page, q.PageSize)

	// 默认查询最近 31 天
	to := dateOf(s.now())
	from := to.AddDate(0, 0, -30)
	if q.From != "" {
		from, _ = time.ParseInLocation("2006-01-02", q.From, to.Location())
	}
	if q.To != "" {
		to, _ = time.ParseInLocation("2006-01-02", q.To, to.Location())
	}

	records, total, err := s.repo.Attendance.ListByUser(ctx, userID, from, to, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询考勤历史失败", zap.Error(err), zap.String("user_id", userID))
		return nil, 0, err
	}

	list := make([]dto.AttendanceRecordResponse, 0, len(records))
	for i := range records {
		list = append(list, toAttendanceRecordResponse(&records[i]))
	}
	return list, total, nil
}

// ────────────────────── ListByDate ──────────────────────

func (s *attendanceService) ListByDate(ctx context.Context, q *dto.AdminRecordsQuery) ([]dto.AttendanceRecordResponse, int64, error) {
	page, pageSize := normalizePage(q.Page, q.PageSize)

	date, err := time.ParseInLocation("2006-01-02", q.Date, s.now().Location())
	if err != nil {
		return nil, 0, err
	}

	records, total, err := s.repo.Attendance.ListByDate(ctx, date, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("按日期查询考勤记录失败", zap.Error(err), zap.String("date", q.Date))
		return nil, 0, err
	}

	list := make([]dto.AttendanceRecordResponse, 0, len(records))
	for i := range records {
		list = append(list, toAttendanceRecordResponse(&records[i]))
	}
	return list, total, nil
}

// ── 内部辅助 ──

func (s *attendanceService) checkUserActive(ctx context.Context, userID string) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}
	if !user.IsActive {
		return ErrUserInactive
	}
	return nil
}

func (s *attendanceService) checkOrigin(ctx context.Context, callerIP string) error {
	check, err := s.gate.Check(ctx, callerIP)
	if err != nil {
		return err
	}
	if !check.Allowed {
		return &OriginDeniedError{CurrentIP: check.CallerIP}
	}
	return nil
}

func (s *attendanceService) loadConfig(ctx context.Context) (*model.AttendanceConfig, error) {
	cfg, err := s.repo.AttendanceConfig.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceConfigMissing
		}
		s.logger.Error("读取考勤配置失败", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}

// dateOf 去掉时间部分，保留服务器本地时区的自然日
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// normalizePage 规范化分页参数
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func toAttendanceRecordResponse(r *model.AttendanceRecord) dto.AttendanceRecordResponse {
	resp := dto.AttendanceRecordResponse{
		ID:                  r.AttendanceRecordID,
		UserID:              r.UserID,
		PunchDate:           r.PunchDate.Format("2006-01-02"),
		PunchInTime:         r.PunchInTime.Format(time.RFC3339),
		PunchInLateReason:   r.PunchInLateReason,
		PunchOutEarlyReason: r.PunchOutEarlyReason,
	}
	if r.PunchOutTime != nil {
		s := r.PunchOutTime.Format(time.RFC3339)
		resp.PunchOutTime = &s
	}
	if r.User != nil {
		resp.UserName = r.User.Name
	}
	return resp
}
