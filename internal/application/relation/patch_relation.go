package relation

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/relation"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// EventPublisher 事件发布接口
// pkg/mq.Publisher实现该接口;RabbitMQ未启用时注入NoopPublisher
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// NoopPublisher 空实现,RabbitMQ关闭时使用
type NoopPublisher struct{}

// Publish 直接丢弃事件
func (NoopPublisher) Publish(routingKey string, message interface{}) error {
	return nil
}

// PatchRelationUseCase 用户-图书关系补丁用例
//
// 编排流程:
// 1. 确认图书存在(不存在返回404,不会创建孤儿关系)
// 2. 领域服务执行get_or_create + 补丁
// 3. 补丁触碰了评分字段时,重算该书的平均评分并写回
// 4. 发布领域事件(点赞/评分),发布失败只记日志不影响主流程
type PatchRelationUseCase struct {
	bookService     book.Service
	relationService relation.Service
	publisher       EventPublisher
}

// NewPatchRelationUseCase 创建用例实例
func NewPatchRelationUseCase(bookService book.Service, relationService relation.Service, publisher EventPublisher) *PatchRelationUseCase {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &PatchRelationUseCase{
		bookService:     bookService,
		relationService: relationService,
		publisher:       publisher,
	}
}

// PatchRelationRequest 补丁请求
// 三个字段都是可选的;RateSet区分"没传rate"和"rate传了null"
type PatchRelationRequest struct {
	UserID      uint
	BookID      uint
	Like        *bool
	InBookmarks *bool
	Rate        *int
	RateSet     bool
}

// PatchRelationResponse 补丁响应
type PatchRelationResponse struct {
	Relation *relation.UserBookRelation
	// Rating 重算后的平均评分,本次没触碰评分时为nil且无意义
	Rating *float64
	// RatingRecomputed 本次是否触发了评分重算
	RatingRecomputed bool
}

// BookLikedEvent 点赞状态变更事件
type BookLikedEvent struct {
	BookID uint  `json:"book_id"`
	UserID uint  `json:"user_id"`
	Like   bool  `json:"like"`
	At     int64 `json:"at"`
}

// BookRatedEvent 评分变更事件
type BookRatedEvent struct {
	BookID  uint     `json:"book_id"`
	UserID  uint     `json:"user_id"`
	Rate    *int     `json:"rate"`
	Average *float64 `json:"average"`
	At      int64    `json:"at"`
}

// Execute 执行补丁
func (uc *PatchRelationUseCase) Execute(ctx context.Context, req PatchRelationRequest) (*PatchRelationResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "application.relation", "PatchRelation")
	defer span.End()

	// 1. 图书必须存在
	if _, err := uc.bookService.FindBook(ctx, req.BookID); err != nil {
		return nil, err
	}

	// 2. 领域服务打补丁(内部先get_or_create)
	patch := relation.Patch{
		Like:        req.Like,
		InBookmarks: req.InBookmarks,
		Rate:        req.Rate,
		RateSet:     req.RateSet,
	}
	rel, err := uc.relationService.PatchRelation(ctx, req.UserID, req.BookID, patch)
	if err != nil {
		return nil, err
	}

	uc.recordPatchMetrics(patch)

	resp := &PatchRelationResponse{Relation: rel}

	// 3. 评分被触碰时重算平均分
	// 点赞数不在这里维护:它是读时聚合的,写路径不用管
	if patch.TouchesRate() {
		start := time.Now()
		avg, err := uc.relationService.RecomputeBookRating(ctx, req.BookID)
		if err != nil {
			return nil, err
		}
		if metrics.RatingRecomputesTotal != nil {
			metrics.RatingRecomputesTotal.Inc()
			metrics.RatingRecomputeDuration.Observe(time.Since(start).Seconds())
		}
		resp.Rating = avg
		resp.RatingRecomputed = true

		uc.publishEvent("book.rated", BookRatedEvent{
			BookID:  req.BookID,
			UserID:  req.UserID,
			Rate:    rel.Rate,
			Average: avg,
			At:      time.Now().Unix(),
		})
	}

	// 4. 点赞事件
	if req.Like != nil {
		uc.publishEvent("book.liked", BookLikedEvent{
			BookID: req.BookID,
			UserID: req.UserID,
			Like:   rel.Like,
			At:     time.Now().Unix(),
		})
	}

	return resp, nil
}

// recordPatchMetrics 按字段维度记录补丁计数
func (uc *PatchRelationUseCase) recordPatchMetrics(patch relation.Patch) {
	if metrics.RelationPatchesTotal == nil {
		return
	}
	if patch.Like != nil {
		metrics.RelationPatchesTotal.WithLabelValues("like").Inc()
	}
	if patch.InBookmarks != nil {
		metrics.RelationPatchesTotal.WithLabelValues("in_bookmarks").Inc()
	}
	if patch.RateSet {
		metrics.RelationPatchesTotal.WithLabelValues("rate").Inc()
	}
}

// publishEvent 尽力发布,失败不影响主流程
func (uc *PatchRelationUseCase) publishEvent(routingKey string, event interface{}) {
	if err := uc.publisher.Publish(routingKey, event); err != nil {
		log.Printf("⚠️ 事件发布失败: routing_key=%s, err=%v", routingKey, err)
	}
}
