package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── PostgreSQL FLOAT8[] 自定义类型 ──

// FaceVectorDim 人脸特征向量固定维度（由外部特征提取模型决定）
const FaceVectorDim = 128

// FaceVector 对应 PostgreSQL FLOAT8[] 类型，实现 GORM Scanner/Valuer 接口。
// 存储用户注册的人脸特征向量，维度不变式在 DTO 边界与 Valid() 中校验。
type FaceVector []float64

// Scan 将 PostgreSQL 返回的 {0.1,0.2,...} 文本解析为 []float64。
func (v *FaceVector) Scan(src interface{}) error {
	if src == nil {
		*v = nil
		return nil
	}
	var s string
	switch x := src.(type) {
	case []byte:
		s = string(x)
	case string:
		s = x
	default:
		return fmt.Errorf("FaceVector.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*v = FaceVector{}
		return nil
	}
	parts := strings.Split(s, ",")
	vec := make(FaceVector, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("FaceVector.Scan: invalid element %q: %w", p, err)
		}
		vec = append(vec, f)
	}
	*v = vec
	return nil
}

// Value 将 []float64 序列化为 PostgreSQL {0.1,0.2,...} 文本。
func (v FaceVector) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Valid 校验向量维度
func (v FaceVector) Valid() bool {
	return len(v) == FaceVectorDim
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"     json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 支持乐观锁的软删除模型
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}
