package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 读路径的点赞数在SQL里分组统计(LEFT JOIN + COUNT CASE WHEN),
//    每次查询都是当前值,永远不读缓存
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// likesCountExpr 点赞数的聚合表达式
// 对LEFT JOIN出来的关系行统计liked=true的条数;
// 没有任何关系时CASE WHEN全为NULL,COUNT得0
const likesCountExpr = "COUNT(CASE WHEN user_book_relations.liked THEN 1 END)"

// annotatedRow 带派生字段的查询结果行
// books.*按列名映射,annotated_likes来自聚合表达式的别名
type annotatedRow struct {
	ID             uint
	Name           string
	Price          int64
	AuthorName     string
	OwnerID        uint
	Rating         *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AnnotatedLikes int64
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := &BookModel{
		Name:       b.Name,
		Price:      b.PriceCents,
		AuthorName: b.AuthorName,
		OwnerID:    b.OwnerID,
		Rating:     b.Rating,
	}

	// 2. 插入数据库
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书(写路径,不统计点赞数)
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// FindAnnotatedByID 根据ID查找图书,附带当前点赞数(读路径)
func (r *bookRepository) FindAnnotatedByID(ctx context.Context, id uint) (*book.Annotated, error) {
	var row annotatedRow
	err := r.annotatedQuery(ctx).
		Where("books.id = ?", id).
		Take(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toAnnotated(&row), nil
}

// Update 更新图书信息
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		ID:         b.ID,
		Name:       b.Name,
		Price:      b.PriceCents,
		AuthorName: b.AuthorName,
		OwnerID:    b.OwnerID,
		Rating:     b.Rating,
		CreatedAt:  b.CreatedAt,
	}

	// 使用Save更新所有字段
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdateRating 写入聚合后的平均评分
// 单字段UPDATE,rating为nil时写NULL;
// 值没变化时MySQL报告0行受影响,不算错误
func (r *bookRepository) UpdateRating(ctx context.Context, id uint, rating *float64) error {
	result := r.db.WithContext(ctx).Model(&BookModel{}).
		Where("id = ?", id).
		Update("rating", rating)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新评分失败")
	}

	return nil
}

// List 查询图书列表
// 过滤、搜索、排序、分页在SQL层完成;每条记录附带分组统计的点赞数
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Annotated, int64, error) {
	// 1. 查询总数(只带过滤条件,不需要JOIN)
	var total int64
	countQuery := r.db.WithContext(ctx).Model(&BookModel{})
	countQuery = applyFilters(countQuery, params)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	// 2. 构建带点赞数的查询
	query := applyFilters(r.annotatedQuery(ctx), params)

	// 3. 排序
	// 白名单校验在领域服务完成,这里只做映射;
	// 平手时补一个id升序,保证结果顺序稳定
	switch params.Ordering {
	case book.OrderingPrice:
		query = query.Order("books.price ASC, books.id ASC")
	case book.OrderingPriceDesc:
		query = query.Order("books.price DESC, books.id ASC")
	case book.OrderingAuthorName:
		query = query.Order("books.author_name ASC, books.id ASC")
	case book.OrderingAuthorNameDesc:
		query = query.Order("books.author_name DESC, books.id ASC")
	default:
		query = query.Order("books.id ASC")
	}

	// 4. 分页
	offset := (params.Page - 1) * params.PageSize
	query = query.Limit(params.PageSize).Offset(offset)

	// 5. 查询数据
	var rows []annotatedRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	// 6. 转换为领域读模型
	books := make([]*book.Annotated, len(rows))
	for i := range rows {
		books[i] = toAnnotated(&rows[i])
	}

	return books, total, nil
}

// =========================================
// 辅助函数:查询构建与模型转换
// =========================================

// annotatedQuery 带点赞数聚合的基础查询
func (r *bookRepository) annotatedQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&BookModel{}).
		Select("books.*, " + likesCountExpr + " AS annotated_likes").
		Joins("LEFT JOIN user_book_relations ON user_book_relations.book_id = books.id").
		Group("books.id")
}

// applyFilters 应用价格过滤与搜索条件
// 搜索对书名、作者名做大小写不敏感的子串匹配(对应icontains语义)
func applyFilters(query *gorm.DB, params book.ListParams) *gorm.DB {
	if params.PriceCents != nil {
		query = query.Where("books.price = ?", *params.PriceCents)
	}
	if params.Search != "" {
		keyword := "%" + params.Search + "%"
		query = query.Where("LOWER(books.name) LIKE LOWER(?) OR LOWER(books.author_name) LIKE LOWER(?)",
			keyword, keyword)
	}
	return query
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:         model.ID,
		Name:       model.Name,
		PriceCents: model.Price,
		AuthorName: model.AuthorName,
		OwnerID:    model.OwnerID,
		Rating:     model.Rating,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// toAnnotated 查询结果行 → 领域读模型
func toAnnotated(row *annotatedRow) *book.Annotated {
	return &book.Annotated{
		Book: book.Book{
			ID:         row.ID,
			Name:       row.Name,
			PriceCents: row.Price,
			AuthorName: row.AuthorName,
			OwnerID:    row.OwnerID,
			Rating:     row.Rating,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		},
		LikesCount: row.AnnotatedLikes,
	}
}
