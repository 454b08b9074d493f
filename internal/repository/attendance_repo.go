package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffhub/backend/internal/model"
)

// AttendanceRepository 考勤记录数据访问接口
// Create 与 CompletePunchOut 是打卡状态机仅有的两个写入点，
// 并发仲裁完全交给数据库（唯一约束 / 条件更新），不做进程内加锁
type AttendanceRepository interface {
	// Create 创建当日记录；(user_id, punch_date) 已存在时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, record *model.AttendanceRecord) error
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.AttendanceRecord, error)
	// CompletePunchOut 条件更新下班时间，仅当 punch_out_time 仍为 NULL 时生效；
	// 返回是否为本次请求赢得写入
	CompletePunchOut(ctx context.Context, recordID string, outTime time.Time, earlyReason *string) (bool, error)
	ListByUser(ctx context.Context, userID string, from, to time.Time, offset, limit int) ([]model.AttendanceRecord, int64, error)
	ListByDate(ctx context.Context, date time.Time, offset, limit int) ([]model.AttendanceRecord, int64, error)
}

// attendanceRepo AttendanceRepository 的 GORM 实现
type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND punch_date = ?", userID, date.Format("2006-01-02")).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepo) CompletePunchOut(ctx context.Context, recordID string, outTime time.Time, earlyReason *string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("attendance_record_id = ? AND punch_out_time IS NULL", recordID).
		Updates(map[string]interface{}{
			"punch_out_time":         outTime,
			"punch_out_early_reason": earlyReason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *attendanceRepo) ListByUser(ctx context.Context, userID string, from, to time.Time, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	var records []model.AttendanceRecord
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("user_id = ? AND punch_date BETWEEN ? AND ?",
			userID, from.Format("2006-01-02"), to.Format("2006-01-02"))

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("punch_date DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *attendanceRepo) ListByDate(ctx context.Context, date time.Time, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	var records []model.AttendanceRecord
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("punch_date = ?", date.Format("2006-01-02"))

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("punch_in_time ASC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
