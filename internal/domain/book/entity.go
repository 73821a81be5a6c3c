package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,包含图书的核心属性
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题),对外展示两位小数
// 3. OwnerID关联创建图书的用户;0表示无主图书(历史数据),只有staff能修改
// 4. Rating是存储字段,由评分聚合器在关系写入后推送更新,读取时不重算;
//    nil表示还没有任何用户评过分
// 5. 点赞数不落库:每次查询时对关系表做分组统计(见Annotated)
type Book struct {
	ID         uint
	Name       string   // 书名
	PriceCents int64    // 价格(单位:分,25.00元=2500分)
	AuthorName string   // 作者
	OwnerID    uint     // 创建者用户ID(0=无主)
	Rating     *float64 // 平均评分(nil=无评分)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Annotated 带派生字段的图书读模型
// LikesCount在查询时通过分组COUNT计算,永远是当前值,不会过期
type Annotated struct {
	Book
	LikesCount int64
}

// Principal 发起请求的主体(从认证中间件显式传入,不走全局状态)
type Principal struct {
	UserID  uint
	IsStaff bool
}

// UpdateParams 部分更新参数
// 指针为nil表示该字段不修改(PATCH语义);PUT时三个字段都必须给出,
// 由HTTP层的binding校验保证
type UpdateParams struct {
	Name       *string
	PriceCents *int64
	AuthorName *string
}

// NewBook 创建新图书(工厂方法)
// 调用方需先通过Service校验价格和名称
func NewBook(name string, priceCents int64, authorName string, ownerID uint) *Book {
	now := time.Now()
	return &Book{
		Name:       name,
		PriceCents: priceCents,
		AuthorName: authorName,
		OwnerID:    ownerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ApplyUpdate 应用部分更新(领域行为)
// 业务规则:先校验所有字段再写入,任何一项不合法时实体保持原样
func (b *Book) ApplyUpdate(params UpdateParams) error {
	if params.Name != nil && *params.Name == "" {
		return ErrInvalidName
	}
	if params.AuthorName != nil && *params.AuthorName == "" {
		return ErrInvalidAuthorName
	}
	if params.PriceCents != nil {
		if err := validatePrice(*params.PriceCents); err != nil {
			return err
		}
	}

	if params.Name != nil {
		b.Name = *params.Name
	}
	if params.PriceCents != nil {
		b.PriceCents = *params.PriceCents
	}
	if params.AuthorName != nil {
		b.AuthorName = *params.AuthorName
	}
	b.UpdatedAt = time.Now()
	return nil
}

// CanBeModifiedBy 权限策略:写操作是否允许
// 规则:
// - staff可以修改任何图书
// - 其他人只能修改自己创建的图书
// - 无主图书(OwnerID=0)对非staff一律拒绝,和有主但不是本人的情况一样
func (b *Book) CanBeModifiedBy(p Principal) bool {
	if p.IsStaff {
		return true
	}
	return b.OwnerID != 0 && b.OwnerID == p.UserID
}

// SetRating 写入聚合后的平均评分(由评分聚合器调用)
func (b *Book) SetRating(rating *float64) {
	b.Rating = rating
	b.UpdatedAt = time.Now()
}

// validatePrice 价格范围校验
// 对外表示是7位有效数字、2位小数的定点数,即最大99999.99元
func validatePrice(priceCents int64) error {
	if priceCents < 1 || priceCents > 9999999 {
		return ErrInvalidPrice
	}
	return nil
}
