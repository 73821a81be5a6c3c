package relation

import (
	"context"
)

// Repository 用户图书关系仓储接口
// 设计说明:
// 1. GetOrCreate是唯一的创建路径:客户端感知不到"创建关系"这回事
// 2. 并发首次触达的竞态由实现解决:依赖(user_id,book_id)唯一索引,
//    插入撞到重复键后重查一次,保证至多一条的不变式
type Repository interface {
	// GetOrCreate 返回(userID,bookID)的关系记录,不存在则以默认值创建
	GetOrCreate(ctx context.Context, userID, bookID uint) (*UserBookRelation, error)

	// Save 保存关系记录的全部字段
	Save(ctx context.Context, rel *UserBookRelation) error

	// AverageRating 计算某图书所有已评分关系的平均分
	// 没有任何评分时返回nil(不是0)
	AverageRating(ctx context.Context, bookID uint) (*float64, error)
}

// BookRatingWriter 评分聚合器的写端
// 由图书仓储实现;放在本包定义是为了让聚合逻辑只依赖它需要的一个方法
type BookRatingWriter interface {
	// UpdateRating 写入图书的平均评分(nil表示清空)
	UpdateRating(ctx context.Context, bookID uint, rating *float64) error
}
