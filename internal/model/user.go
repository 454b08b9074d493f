package model

// 用户角色
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User 用户表 — 对应 users
// 用户的增删改由外部管理后台负责；考勤核心只读 IsActive，读写 FaceVector
type User struct {
	UserID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string     `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string     `gorm:"type:varchar(20);not null;default:'user'"       json:"role"`
	IsActive     bool       `gorm:"not null;default:true"                          json:"is_active"`
	FaceVector   FaceVector `gorm:"type:float8[]"                                  json:"-"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
