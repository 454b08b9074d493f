package repository

import (
	"context"

	"gorm.io/gorm"

	"staffhub/backend/internal/model"
)

// UserRepository 用户数据访问接口
// 用户 CRUD 由外部管理后台负责，这里只暴露考勤核心与认证所需的读写
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	SetFaceVector(ctx context.Context, userID string, vector model.FaceVector) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetFaceVector 仅在尚未注册时写入特征向量
// WHERE face_vector IS NULL 保证并发注册只有一个赢家，也封死了覆盖注册路径
func (r *userRepo) SetFaceVector(ctx context.Context, userID string, vector model.FaceVector) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ? AND face_vector IS NULL", userID).
		Update("face_vector", vector)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrDuplicatedKey
	}
	return nil
}
