package repository

import (
	"context"

	"gorm.io/gorm"

	"staffhub/backend/internal/model"
)

// AttendanceConfigRepository 考勤配置数据访问接口
type AttendanceConfigRepository interface {
	Get(ctx context.Context) (*model.AttendanceConfig, error)
	Update(ctx context.Context, cfg *model.AttendanceConfig) error
}

type attendanceConfigRepo struct {
	db *gorm.DB
}

// NewAttendanceConfigRepo 创建 AttendanceConfigRepository 实例
func NewAttendanceConfigRepo(db *gorm.DB) AttendanceConfigRepository {
	return &attendanceConfigRepo{db: db}
}

func (r *attendanceConfigRepo) Get(ctx context.Context) (*model.AttendanceConfig, error) {
	var cfg model.AttendanceConfig
	err := r.db.WithContext(ctx).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *attendanceConfigRepo) Update(ctx context.Context, cfg *model.AttendanceConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}
