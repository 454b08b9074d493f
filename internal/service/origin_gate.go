package service

import (
	"context"

	"go.uber.org/zap"

	"staffhub/backend/internal/repository"
)

// OriginCheck 来源检查结果
// CallerIP 无论通过与否都回传给调用方，便于排障
type OriginCheck struct {
	Allowed  bool
	CallerIP string
	Reason   string
}

// OriginGate 打卡来源网关
// 白名单为空（无激活条目）时放行所有来源，否则仅精确匹配放行；
// 每次请求读取一次白名单快照，不做 CIDR/网段匹配
type OriginGate interface {
	Check(ctx context.Context, callerIP string) (*OriginCheck, error)
}

type originGate struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOriginGate 创建 OriginGate 实例
func NewOriginGate(repo *repository.Repository, logger *zap.Logger) OriginGate {
	return &originGate{repo: repo, logger: logger}
}

func (g *originGate) Check(ctx context.Context, callerIP string) (*OriginCheck, error) {
	entries, err := g.repo.AllowedIP.ListActive(ctx)
	if err != nil {
		g.logger.Error("读取 IP 白名单失败", zap.Error(err))
		return nil, err
	}

	// 无激活条目 ⇒ 不启用白名单
	if len(entries) == 0 {
		return &OriginCheck{Allowed: true, CallerIP: callerIP}, nil
	}

	for _, e := range entries {
		if e.IPAddress == callerIP {
			return &OriginCheck{Allowed: true, CallerIP: callerIP}, nil
		}
	}

	return &OriginCheck{
		Allowed:  false,
		CallerIP: callerIP,
		Reason:   "来源 IP 不在考勤白名单内",
	}, nil
}
