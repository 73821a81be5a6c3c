package relation

import (
	"context"
)

// Service 用户图书关系领域服务接口
// 设计说明:
// 1. PatchRelation实现upsert-on-first-touch:先get_or_create再打补丁
// 2. RecomputeBookRating是评分聚合器:显式的写后钩子,
//    由应用层在评分字段被触碰后调用,仓储层不会隐式触发
//    (点赞数是读时统计,评分是写时推送,两者策略刻意不同)
type Service interface {
	// PatchRelation 对(userID,bookID)的关系做部分更新
	// 关系不存在时先以默认值创建;评分超出0-5返回ErrInvalidRate,
	// 此时已存在的字段值不变(但首次触达创建的默认记录会保留)
	PatchRelation(ctx context.Context, userID, bookID uint, patch Patch) (*UserBookRelation, error)

	// RecomputeBookRating 重算并写回图书的平均评分
	// 算法:对该图书所有rate非空的关系求算术平均;一个都没有则写NULL
	RecomputeBookRating(ctx context.Context, bookID uint) (*float64, error)
}

// service 领域服务实现
type service struct {
	repo         Repository
	ratingWriter BookRatingWriter
}

// NewService 创建关系领域服务
func NewService(repo Repository, ratingWriter BookRatingWriter) Service {
	return &service{
		repo:         repo,
		ratingWriter: ratingWriter,
	}
}

// PatchRelation 部分更新关系
func (s *service) PatchRelation(ctx context.Context, userID, bookID uint, patch Patch) (*UserBookRelation, error) {
	// 1. 取出或创建关系记录
	rel, err := s.repo.GetOrCreate(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	// 2. 应用补丁(含评分范围校验)
	if err := rel.Apply(patch); err != nil {
		return nil, err
	}

	// 3. 持久化
	if err := s.repo.Save(ctx, rel); err != nil {
		return nil, err
	}

	return rel, nil
}

// RecomputeBookRating 重算图书平均评分
func (s *service) RecomputeBookRating(ctx context.Context, bookID uint) (*float64, error) {
	// 1. 聚合查询当前平均分
	avg, err := s.repo.AverageRating(ctx, bookID)
	if err != nil {
		return nil, err
	}

	// 2. 写回图书
	if err := s.ratingWriter.UpdateRating(ctx, bookID, avg); err != nil {
		return nil, err
	}

	return avg, nil
}
