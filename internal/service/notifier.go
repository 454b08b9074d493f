package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"staffhub/backend/pkg/redis"
)

// 事件类型
const (
	EventPunchIn  = "punch_in"
	EventPunchOut = "punch_out"
)

// Redis 事件频道（通知投递由订阅方负责，核心只管发布）
const (
	punchEventChannel = "staffhub:events:punch"
	leaveEventChannel = "staffhub:events:leave"
)

// PunchEvent 打卡事件
type PunchEvent struct {
	Type        string    `json:"type"` // punch_in | punch_out
	UserID      string    `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
	LateOrEarly bool      `json:"late_or_early"`
}

// LeaveEvent 请假单状态变更事件
type LeaveEvent struct {
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
}

// Notifier 事件发布接口
// 发布失败只记日志，绝不影响已提交的业务写入
type Notifier interface {
	NotifyPunch(ctx context.Context, event PunchEvent)
	NotifyLeave(ctx context.Context, event LeaveEvent)
}

type notifier struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewNotifier 创建 Notifier；rdb 为 nil 时仅记录日志
func NewNotifier(rdb *redis.Client, logger *zap.Logger) Notifier {
	return &notifier{rdb: rdb, logger: logger}
}

func (n *notifier) NotifyPunch(ctx context.Context, event PunchEvent) {
	n.logger.Info("打卡事件",
		zap.String("type", event.Type),
		zap.String("user_id", event.UserID),
		zap.Time("timestamp", event.Timestamp),
		zap.Bool("late_or_early", event.LateOrEarly),
	)
	n.publish(ctx, punchEventChannel, event)
}

func (n *notifier) NotifyLeave(ctx context.Context, event LeaveEvent) {
	n.logger.Info("请假事件",
		zap.String("request_id", event.RequestID),
		zap.String("user_id", event.UserID),
		zap.String("status", event.Status),
	)
	n.publish(ctx, leaveEventChannel, event)
}

func (n *notifier) publish(ctx context.Context, channel string, event interface{}) {
	if n.rdb == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("事件序列化失败", zap.Error(err))
		return
	}
	if err := n.rdb.Publish(ctx, channel, payload); err != nil {
		n.logger.Warn("事件发布失败", zap.String("channel", channel), zap.Error(err))
	}
}
