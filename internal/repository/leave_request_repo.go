package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffhub/backend/internal/model"
)

// LeaveRequestRepository 请假单数据访问接口
type LeaveRequestRepository interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	// Review 条件更新状态，仅当当前状态为 pending 时生效；返回是否为本次请求赢得写入
	Review(ctx context.Context, id, status, reviewerID string, reviewedAt time.Time, rejectionReason *string) (bool, error)
	// Cancel 本人撤销，仅 pending 状态可撤销
	Cancel(ctx context.Context, id, userID string) (bool, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.LeaveRequest, int64, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.LeaveRequest, int64, error)
	// ListApprovedInRange 查询用户某类型、日期范围有交集的已批准请假单（余额统计用）
	ListApprovedInRange(ctx context.Context, userID, leaveType string, from, to time.Time) ([]model.LeaveRequest, error)
}

type leaveRequestRepo struct {
	db *gorm.DB
}

// NewLeaveRequestRepo 创建 LeaveRequestRepository 实例
func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) Create(ctx context.Context, req *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *leaveRequestRepo) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("leave_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRequestRepo) Review(ctx context.Context, id, status, reviewerID string, reviewedAt time.Time, rejectionReason *string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("leave_request_id = ? AND status = ?", id, model.LeaveStatusPending).
		Updates(map[string]interface{}{
			"status":           status,
			"reviewed_by":      reviewerID,
			"reviewed_at":      reviewedAt,
			"rejection_reason": rejectionReason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *leaveRequestRepo) Cancel(ctx context.Context, id, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("leave_request_id = ? AND user_id = ? AND status = ?", id, userID, model.LeaveStatusPending).
		Update("status", model.LeaveStatusCancelled)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *leaveRequestRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var requests []model.LeaveRequest
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *leaveRequestRepo) List(ctx context.Context, status string, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var requests []model.LeaveRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LeaveRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *leaveRequestRepo) ListApprovedInRange(ctx context.Context, userID, leaveType string, from, to time.Time) ([]model.LeaveRequest, error) {
	var requests []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND leave_type = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			userID, leaveType, model.LeaveStatusApproved,
			to.Format("2006-01-02"), from.Format("2006-01-02")).
		Find(&requests).Error
	return requests, err
}
