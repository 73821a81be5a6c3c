package relation

import (
	"time"
)

// 评分取值范围(业务规则,不是存储约束)
const (
	RateMin = 0
	RateMax = 5
)

// UserBookRelation 用户-图书关系实体
// DDD设计说明:
// 1. 每个(用户,图书)对至多一条记录,由数据库复合唯一索引保证
// 2. 记录三个互相独立的事实:点赞、收藏、评分
// 3. 客户端第一次写入时才惰性创建(upsert-on-first-touch),
//    没有显式的创建接口,也不允许删除
// 4. Rate为nil表示该用户还没评过分(和评0分是两回事)
type UserBookRelation struct {
	ID          uint
	UserID      uint
	BookID      uint
	Like        bool
	InBookmarks bool
	Rate        *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRelation 创建默认关系(首次触达时的初始状态)
func NewRelation(userID, bookID uint) *UserBookRelation {
	now := time.Now()
	return &UserBookRelation{
		UserID:    userID,
		BookID:    bookID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Patch 部分更新参数
// 指针为nil表示该字段不修改;Rate的"缺席"与"显式null"要区分:
// RateSet=true且Rate=nil表示清空评分,RateSet=false表示不动
type Patch struct {
	Like        *bool
	InBookmarks *bool
	Rate        *int
	RateSet     bool
}

// TouchesRate 本次patch是否动了评分字段
// 评分聚合器只在这种情况下需要被触发
func (p Patch) TouchesRate() bool {
	return p.RateSet
}

// Apply 应用部分更新(领域行为)
// 业务规则:评分必须在0-5之间;校验在任何字段写入前执行,
// 校验失败时所有字段保持原值
func (r *UserBookRelation) Apply(p Patch) error {
	if p.RateSet && p.Rate != nil {
		if *p.Rate < RateMin || *p.Rate > RateMax {
			return ErrInvalidRate
		}
	}

	if p.Like != nil {
		r.Like = *p.Like
	}
	if p.InBookmarks != nil {
		r.InBookmarks = *p.InBookmarks
	}
	if p.RateSet {
		r.Rate = p.Rate
	}
	r.UpdatedAt = time.Now()
	return nil
}
