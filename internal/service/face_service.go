package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/model"
	"staffhub/backend/internal/repository"
	"staffhub/backend/pkg/redis"
)

// ── 人脸验证模块业务错误 ──

var (
	ErrFaceNotRegistered  = errors.New("尚未注册人脸，请先完成人脸注册")
	ErrFaceMismatch       = errors.New("人脸验证未通过")
	ErrFaceAlreadyEnrolled = errors.New("人脸已注册，不支持通过此入口覆盖")
	ErrFaceVerifyLocked   = errors.New("连续验证失败次数过多，请稍后再试")
	ErrInvalidFaceVector  = errors.New("人脸特征向量维度不合法")
)

// 匹配阈值为系统常量，按特征提取模型的误识/拒识权衡整定，不开放配置
const faceMatchThreshold = 0.6

// 连续失败锁定策略（Redis 不可用时降级为不限次）
const (
	faceFailLimit  = 5
	faceFailWindow = 5 * time.Minute
)

// FaceService 人脸注册与验证业务接口
type FaceService interface {
	// Enroll 注册参考向量；已注册时拒绝（重新注册是独立的管理动作）
	Enroll(ctx context.Context, userID string, vector []float64) error
	// Verify 用活体样本与参考向量做距离比对
	Verify(ctx context.Context, userID string, vector []float64) error
	Status(ctx context.Context, userID string) (*dto.FaceStatusResponse, error)
}

type faceService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewFaceService 创建 FaceService 实例
func NewFaceService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) FaceService {
	return &faceService{repo: repo, rdb: rdb, logger: logger}
}

// ────────────────────── Enroll ──────────────────────

func (s *faceService) Enroll(ctx context.Context, userID string, vector []float64) error {
	vec := model.FaceVector(vector)
	if !vec.Valid() {
		return ErrInvalidFaceVector
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}
	if len(user.FaceVector) > 0 {
		return ErrFaceAlreadyEnrolled
	}

	// WHERE face_vector IS NULL 条件更新兜底并发注册
	if err := s.repo.User.SetFaceVector(ctx, userID, vec); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrFaceAlreadyEnrolled
		}
		s.logger.Error("写入人脸向量失败", zap.Error(err), zap.String("user_id", userID))
		return err
	}

	s.logger.Info("人脸注册成功", zap.String("user_id", userID))
	return nil
}

// ────────────────────── Verify ──────────────────────

func (s *faceService) Verify(ctx context.Context, userID string, vector []float64) error {
	vec := model.FaceVector(vector)
	if !vec.Valid() {
		return ErrInvalidFaceVector
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}
	if len(user.FaceVector) == 0 {
		// 打卡流程中缺少参考向量不做隐式注册，避免攻击者首样本成为永久参考
		return ErrFaceNotRegistered
	}

	if locked, err := s.isLocked(ctx, userID); err == nil && locked {
		return ErrFaceVerifyLocked
	}

	dist := euclideanDistance(user.FaceVector, vec)
	if dist > faceMatchThreshold {
		s.recordFailure(ctx, userID, dist)
		return ErrFaceMismatch
	}

	s.resetFailures(ctx, userID)
	return nil
}

// ────────────────────── Status ──────────────────────

func (s *faceService) Status(ctx context.Context, userID string) (*dto.FaceStatusResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return &dto.FaceStatusResponse{Enrolled: len(user.FaceVector) > 0}, nil
}

// ── 失败锁定（Redis 不可用时整体降级放行） ──

func (s *faceService) isLocked(ctx context.Context, userID string) (bool, error) {
	if s.rdb == nil {
		return false, nil
	}
	n, err := s.rdb.FaceFailureCount(ctx, userID)
	if err != nil {
		return false, err
	}
	return n >= faceFailLimit, nil
}

func (s *faceService) recordFailure(ctx context.Context, userID string, dist float64) {
	s.logger.Warn("人脸验证未通过",
		zap.String("user_id", userID),
		zap.Float64("distance", dist),
	)
	if s.rdb == nil {
		return
	}
	n, err := s.rdb.IncrFaceFailure(ctx, userID, faceFailWindow)
	if err != nil {
		s.logger.Warn("记录人脸失败次数出错", zap.Error(err))
		return
	}
	if n >= faceFailLimit {
		s.logger.Warn("人脸验证已锁定",
			zap.String("user_id", userID),
			zap.Int64("failures", n),
		)
	}
}

func (s *faceService) resetFailures(ctx context.Context, userID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.ResetFaceFailure(ctx, userID); err != nil {
		s.logger.Warn("清零人脸失败次数出错", zap.Error(err))
	}
}

// euclideanDistance 两个同维向量的欧氏距离
func euclideanDistance(a, b model.FaceVector) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
