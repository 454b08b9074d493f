package model

// AllowedIP 打卡来源 IP 白名单表 — 对应 allowed_ips
// 无任何激活条目时网关放行所有来源；否则仅精确匹配的激活条目放行
type AllowedIP struct {
	AllowedIPID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"allowed_ip_id"`
	IPAddress   string `gorm:"type:varchar(45);not null;uniqueIndex"          json:"ip_address"`
	Description string `gorm:"type:varchar(200);not null;default:''"          json:"description"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (AllowedIP) TableName() string { return "allowed_ips" }
