package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. User是用户聚合的根实体，包含用户的核心属性
// 2. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
// 4. IsStaff是权限策略消费的特权标记：staff可以修改任意图书（包括无主的历史数据）
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	IsStaff   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		IsStaff:   false, // 特权只能由运维在库里直接授予
		CreatedAt: now,
		UpdatedAt: now,
	}
}
