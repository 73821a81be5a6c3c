package mysql

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/relation"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// relationRepository 用户图书关系仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/relation/repository.go定义的接口
// 2. GetOrCreate依赖(user_id,book_id)唯一索引解决并发首次触达:
//    插入撞到重复键说明另一个请求先创建成功了,重查一次拿现成的行
// 3. AverageRating用SQL的AVG聚合,没有评分时AVG返回NULL
type relationRepository struct {
	db *gorm.DB
}

// NewRelationRepository 创建关系仓储
func NewRelationRepository(db *gorm.DB) relation.Repository {
	return &relationRepository{db: db}
}

// GetOrCreate 返回(userID,bookID)的关系记录,不存在则以默认值创建
func (r *relationRepository) GetOrCreate(ctx context.Context, userID, bookID uint) (*relation.UserBookRelation, error) {
	// 1. 先查已有记录
	rel, err := r.find(ctx, userID, bookID)
	if err == nil {
		return rel, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(err, "查询用户图书关系失败")
	}

	// 2. 不存在,插入默认记录
	model := &UserBookRelationModel{
		UserID: userID,
		BookID: bookID,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// 并发首次触达:另一个请求刚插入成功,重查一次
		if isDuplicateError(err) {
			rel, err := r.find(ctx, userID, bookID)
			if err != nil {
				return nil, apperrors.Wrap(err, "查询用户图书关系失败")
			}
			return rel, nil
		}
		return nil, apperrors.Wrap(err, "创建用户图书关系失败")
	}

	return toRelationEntity(model), nil
}

// Save 保存关系记录的全部字段
func (r *relationRepository) Save(ctx context.Context, rel *relation.UserBookRelation) error {
	model := &UserBookRelationModel{
		ID:          rel.ID,
		UserID:      rel.UserID,
		BookID:      rel.BookID,
		Liked:       rel.Like,
		InBookmarks: rel.InBookmarks,
		Rate:        rel.Rate,
		CreatedAt:   rel.CreatedAt,
	}

	// 使用Save更新所有字段(布尔false、评分NULL都要能写回去)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "保存用户图书关系失败")
	}

	rel.UpdatedAt = model.UpdatedAt
	return nil
}

// AverageRating 计算某图书所有已评分关系的平均分
// 没有任何评分时返回nil
func (r *relationRepository) AverageRating(ctx context.Context, bookID uint) (*float64, error) {
	var avg sql.NullFloat64
	row := r.db.WithContext(ctx).Model(&UserBookRelationModel{}).
		Where("book_id = ? AND rate IS NOT NULL", bookID).
		Select("AVG(rate)").
		Row()

	if err := row.Scan(&avg); err != nil {
		return nil, apperrors.Wrap(err, "计算平均评分失败")
	}

	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// find 按(userID,bookID)查询关系记录
func (r *relationRepository) find(ctx context.Context, userID, bookID uint) (*relation.UserBookRelation, error) {
	var model UserBookRelationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&model).Error
	if err != nil {
		return nil, err
	}
	return toRelationEntity(&model), nil
}

// toRelationEntity GORM模型 → 领域实体
func toRelationEntity(model *UserBookRelationModel) *relation.UserBookRelation {
	return &relation.UserBookRelation{
		ID:          model.ID,
		UserID:      model.UserID,
		BookID:      model.BookID,
		Like:        model.Liked,
		InBookmarks: model.InBookmarks,
		Rate:        model.Rate,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
