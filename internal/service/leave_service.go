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

// ── 请假模块业务错误 ──

var (
	ErrLeaveNotFound        = errors.New("请假单不存在")
	ErrLeaveNotPending      = errors.New("请假单已不在待审批状态")
	ErrLeaveNotOwned        = errors.New("只能操作自己的请假单")
	ErrLeaveInvalidRange    = errors.New("结束日期不能早于开始日期")
	ErrLeaveHalfDayInvalid  = errors.New("半天假必须是单日，且需指定上半天/下半天")
	ErrLeaveBalanceExceeded = errors.New("请假天数超出该类型剩余额度")
)

// LeaveService 请假业务接口
// 余额账本按配置周期（月/年）统计已批准请假，逐日归属到日期所在周期
type LeaveService interface {
	Create(ctx context.Context, userID string, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error)
	Approve(ctx context.Context, id, reviewerID string) (*dto.LeaveRequestResponse, error)
	Reject(ctx context.Context, id, reviewerID string, req *dto.RejectLeaveRequest) (*dto.LeaveRequestResponse, error)
	Cancel(ctx context.Context, id, userID string) error
	ListMine(ctx context.Context, userID string, page, pageSize int) ([]dto.LeaveRequestResponse, int64, error)
	List(ctx context.Context, q *dto.LeaveListQuery) ([]dto.LeaveRequestResponse, int64, error)
	// Balance 计算 asOf 所在周期内各已配置类型的余额；clampNegative 控制是否把
	// 负余额钳制为 0（普通用户视图钳制，管理端保留负值以暴露超发）
	Balance(ctx context.Context, userID string, asOf time.Time, clampNegative bool) (*dto.LeaveBalanceResponse, error)
}

type leaveService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, notifier Notifier, logger *zap.Logger) LeaveService {
	return &leaveService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── Create ──────────────────────

func (s *leaveService) Create(ctx context.Context, userID string, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error) {
	loc := s.now().Location()
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, loc)
	if err != nil {
		return nil, ErrLeaveInvalidRange
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, loc)
	if err != nil {
		return nil, ErrLeaveInvalidRange
	}
	if end.Before(start) {
		return nil, ErrLeaveInvalidRange
	}

	var halfDayType *string
	if req.Duration == model.LeaveDurationHalfDay {
		if req.HalfDayType == "" || !start.Equal(end) {
			return nil, ErrLeaveHalfDayInvalid
		}
		halfDayType = &req.HalfDayType
	}

	record := &model.LeaveRequest{
		UserID:      userID,
		LeaveType:   req.LeaveType,
		StartDate:   start,
		EndDate:     end,
		Duration:    req.Duration,
		HalfDayType: halfDayType,
		Status:      model.LeaveStatusPending,
		Reason:      req.Reason,
	}

	// 额度校验：有配置的类型逐周期比对；未配置的类型（如 unpaid-leave）不限额
	if err := s.checkBalance(ctx, userID, record); err != nil {
		return nil, err
	}

	if err := s.repo.LeaveRequest.Create(ctx, record); err != nil {
		s.logger.Error("创建请假单失败", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	s.notifier.NotifyLeave(ctx, LeaveEvent{
		RequestID: record.LeaveRequestID,
		UserID:    userID,
		Status:    record.Status,
	})

	resp := toLeaveRequestResponse(record)
	return &resp, nil
}

// checkBalance 校验请求覆盖到的每个周期窗口都不超额
func (s *leaveService) checkBalance(ctx context.Context, userID string, req *model.LeaveRequest) error {
	cfg, err := s.repo.LeaveConfig.GetByType(ctx, req.LeaveType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // 未配置额度 ⇒ 不限额
		}
		s.logger.Error("读取请假额度配置失败", zap.Error(err))
		return err
	}

	for cursor := req.StartDate; !cursor.After(req.EndDate); {
		from, to, _ := periodWindow(cfg.Period, cursor)

		approved, err := s.repo.LeaveRequest.ListApprovedInRange(ctx, userID, req.LeaveType, from, to)
		if err != nil {
			s.logger.Error("查询已批准请假失败", zap.Error(err))
			return err
		}

		used := usedDaysInWindow(approved, from, to)
		requested := float64(overlapDays(req.StartDate, req.EndDate, from, to)) * req.DayWeight()
		if used+requested > cfg.LimitDays {
			return ErrLeaveBalanceExceeded
		}

		cursor = to.AddDate(0, 0, 1)
	}
	return nil
}

// ────────────────────── Approve / Reject ──────────────────────

func (s *leaveService) Approve(ctx context.Context, id, reviewerID string) (*dto.LeaveRequestResponse, error) {
	return s.review(ctx, id, reviewerID, model.LeaveStatusApproved, nil)
}

func (s *leaveService) Reject(ctx context.Context, id, reviewerID string, req *dto.RejectLeaveRequest) (*dto.LeaveRequestResponse, error) {
	return s.review(ctx, id, reviewerID, model.LeaveStatusRejected, &req.RejectionReason)
}

func (s *leaveService) review(ctx context.Context, id, reviewerID, status string, rejectionReason *string) (*dto.LeaveRequestResponse, error) {
	record, err := s.repo.LeaveRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("查询请假单失败", zap.Error(err))
		return nil, err
	}
	if record.Status != model.LeaveStatusPending {
		return nil, ErrLeaveNotPending
	}

	reviewedAt := s.now()
	won, err := s.repo.LeaveRequest.Review(ctx, id, status, reviewerID, reviewedAt, rejectionReason)
	if err != nil {
		s.logger.Error("审批请假单失败", zap.Error(err), zap.String("leave_request_id", id))
		return nil, err
	}
	if !won {
		// 并发审批被抢先
		return nil, ErrLeaveNotPending
	}

	record.Status = status
	record.ReviewedBy = &reviewerID
	record.ReviewedAt = &reviewedAt
	record.RejectionReason = rejectionReason

	s.notifier.NotifyLeave(ctx, LeaveEvent{
		RequestID: record.LeaveRequestID,
		UserID:    record.UserID,
		Status:    status,
	})

	resp := toLeaveRequestResponse(record)
	return &resp, nil
}

// ────────────────────── Cancel ──────────────────────

func (s *leaveService) Cancel(ctx context.Context, id, userID string) error {
	record, err := s.repo.LeaveRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeaveNotFound
		}
		s.logger.Error("查询请假单失败", zap.Error(err))
		return err
	}
	if record.UserID != userID {
		return ErrLeaveNotOwned
	}
	if record.Status != model.LeaveStatusPending {
		return ErrLeaveNotPending
	}

	won, err := s.repo.LeaveRequest.Cancel(ctx, id, userID)
	if err != nil {
		s.logger.Error("撤销请假单失败", zap.Error(err), zap.String("leave_request_id", id))
		return err
	}
	if !won {
		return ErrLeaveNotPending
	}

	s.notifier.NotifyLeave(ctx, LeaveEvent{
		RequestID: id,
		UserID:    userID,
		Status:    model.LeaveStatusCancelled,
	})
	return nil
}

// ────────────────────── List ──────────────────────

func (s *leaveService) ListMine(ctx context.Context, userID string, page, pageSize int) ([]dto.LeaveRequestResponse, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	records, total, err := s.repo.LeaveRequest.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询个人请假单失败", zap.Error(err), zap.String("user_id", userID))
		return nil, 0, err
	}
	return toLeaveRequestResponses(records), total, nil
}

func (s *leaveService) List(ctx context.Context, q *dto.LeaveListQuery) ([]dto.LeaveRequestResponse, int64, error) {
	page, pageSize := normalizePage(q.Page, q.PageSize)
	records, total, err := s.repo.LeaveRequest.List(ctx, q.Status, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询请假单列表失败", zap.Error(err))
		return nil, 0, err
	}
	return toLeaveRequestResponses(records), total, nil
}

// ────────────────────── Balance ──────────────────────

func (s *leaveService) Balance(ctx context.Context, userID string, asOf time.Time, clampNegative bool) (*dto.LeaveBalanceResponse, error) {
	configs, err := s.repo.LeaveConfig.List(ctx)
	if err != nil {
		s.logger.Error("读取请假额度配置失败", zap.Error(err))
		return nil, err
	}

	asOf = dateOf(asOf)
	resp := &dto.LeaveBalanceResponse{
		AsOf:     asOf.Format("2006-01-02"),
		Balances: make([]dto.LeaveBalanceItem, 0, len(configs)),
	}

	for _, cfg := range configs {
		from, to, label := periodWindow(cfg.Period, asOf)

		approved, err := s.repo.LeaveRequest.ListApprovedInRange(ctx, userID, cfg.LeaveType, from, to)
		if err != nil {
			s.logger.Error("查询已批准请假失败", zap.Error(err))
			return nil, err
		}

		used := usedDaysInWindow(approved, from, to)
		remaining := cfg.LimitDays - used
		if clampNegative && remaining < 0 {
			remaining = 0
		}

		resp.Balances = append(resp.Balances, dto.LeaveBalanceItem{
			LeaveType:   cfg.LeaveType,
			Period:      cfg.Period,
			PeriodLabel: label,
			Limit:       cfg.LimitDays,
			Used:        used,
			Remaining:   remaining,
		})
	}

	return resp, nil
}

// ── 周期与天数计算 ──

// periodWindow asOf 所在的记账周期窗口（闭区间）
func periodWindow(period string, asOf time.Time) (from, to time.Time, label string) {
	loc := asOf.Location()
	if period == model.LeavePeriodMonthly {
		from = time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, loc)
		to = from.AddDate(0, 1, -1)
		return from, to, asOf.Format("2006-01")
	}
	from = time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, loc)
	to = time.Date(asOf.Year(), time.December, 31, 0, 0, 0, 0, loc)
	return from, to, asOf.Format("2006")
}

// overlapDays [start,end] 与 [from,to] 交集内的自然日数量
func overlapDays(start, end, from, to time.Time) int {
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// usedDaysInWindow 已批准请假在窗口内占用的天数
// 逐日归属：只统计落在窗口内的日期，跨周期请假不会重复计入
func usedDaysInWindow(requests []model.LeaveRequest, from, to time.Time) float64 {
	var used float64
	for i := range requests {
		r := &requests[i]
		used += float64(overlapDays(r.StartDate, r.EndDate, from, to)) * r.DayWeight()
	}
	return used
}

func toLeaveRequestResponse(r *model.LeaveRequest) dto.LeaveRequestResponse {
	resp := dto.LeaveRequestResponse{
		ID:              r.LeaveRequestID,
		UserID:          r.UserID,
		LeaveType:       r.LeaveType,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		Duration:        r.Duration,
		HalfDayType:     r.HalfDayType,
		Status:          r.Status,
		Reason:          r.Reason,
		ReviewedBy:      r.ReviewedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	if r.User != nil {
		resp.UserName = r.User.Name
	}
	return resp
}

func toLeaveRequestResponses(records []model.LeaveRequest) []dto.LeaveRequestResponse {
	list := make([]dto.LeaveRequestResponse, 0, len(records))
	for i := range records {
		list = append(list, toLeaveRequestResponse(&records[i]))
	}
	return list
}
