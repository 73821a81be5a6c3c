package book

import (
	"context"
)

// 排序字段取值(前缀"-"表示降序,沿用客户端已有的约定)
const (
	OrderingPrice          = "price"
	OrderingPriceDesc      = "-price"
	OrderingAuthorName     = "author_name"
	OrderingAuthorNameDesc = "-author_name"
)

// ListParams 列表查询参数
type ListParams struct {
	PriceCents *int64 // 价格精确过滤(nil=不过滤)
	Search     string // 搜索关键词(对书名、作者名做大小写不敏感的子串匹配)
	Ordering   string // 排序字段(空=按ID升序)
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
}

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 读路径返回Annotated:点赞数在查询中分组统计,不允许读缓存值
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书(不带派生字段,用于写路径)
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindAnnotatedByID 根据ID查找图书,附带当前点赞数(读路径)
	FindAnnotatedByID(ctx context.Context, id uint) (*Annotated, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// UpdateRating 写入聚合后的平均评分(nil表示清空)
	// 只更新rating一个字段,不触碰其他列
	UpdateRating(ctx context.Context, id uint, rating *float64) error

	// List 查询图书列表,每条记录附带当前点赞数
	// 返回(记录, 满足条件的总数, 错误)
	List(ctx context.Context, params ListParams) ([]*Annotated, int64, error)
}
