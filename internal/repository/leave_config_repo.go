package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staffhub/backend/internal/model"
)

// LeaveConfigRepository 请假额度配置数据访问接口
type LeaveConfigRepository interface {
	List(ctx context.Context) ([]model.LeaveConfig, error)
	GetByType(ctx context.Context, leaveType string) (*model.LeaveConfig, error)
	Upsert(ctx context.Context, cfg *model.LeaveConfig) error
	DeleteByType(ctx context.Context, leaveType string) error
}

type leaveConfigRepo struct {
	db *gorm.DB
}

// NewLeaveConfigRepo 创建 LeaveConfigRepository 实例
func NewLeaveConfigRepo(db *gorm.DB) LeaveConfigRepository {
	return &leaveConfigRepo{db: db}
}

func (r *leaveConfigRepo) List(ctx context.Context) ([]model.LeaveConfig, error) {
	var configs []model.LeaveConfig
	err := r.db.WithContext(ctx).
		Order("leave_type ASC").
		Find(&configs).Error
	return configs, err
}

func (r *leaveConfigRepo) GetByType(ctx context.Context, leaveType string) (*model.LeaveConfig, error) {
	var cfg model.LeaveConfig
	err := r.db.WithContext(ctx).
		Where("leave_type = ?", leaveType).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert 按 leave_type 创建或覆盖额度配置
func (r *leaveConfigRepo) Upsert(ctx context.Context, cfg *model.LeaveConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "leave_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"limit_days", "period", "updated_at", "updated_by"}),
		}).
		Create(cfg).Error
}

func (r *leaveConfigRepo) DeleteByType(ctx context.Context, leaveType string) error {
	return r.db.WithContext(ctx).
		Where("leave_type = ?", leaveType).
		Delete(&model.LeaveConfig{}).Error
}
