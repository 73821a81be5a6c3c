package relation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/relation"
)

// fakeBookService 只实现用例用到的FindBook
type fakeBookService struct {
	books map[uint]*book.Book
}

func (s *fakeBookService) CreateBook(ctx context.Context, name string, priceCents int64, authorName string, ownerID uint) (*book.Book, error) {
	panic("not used")
}

func (s *fakeBookService) GetBook(ctx context.Context, id uint) (*book.Annotated, error) {
	panic("not used")
}

func (s *fakeBookService) FindBook(ctx context.Context, id uint) (*book.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func (s *fakeBookService) UpdateBook(ctx context.Context, id uint, p book.Principal, params book.UpdateParams) (*book.Book, error) {
	panic("not used")
}

func (s *fakeBookService) ListBooks(ctx context.Context, params book.ListParams) ([]*book.Annotated, int64, error) {
	panic("not used")
}

// fakeRelationService 记录调用,返回预设结果
type fakeRelationService struct {
	patched    *relation.UserBookRelation
	patchErr   error
	recomputes int
	avg        *float64
}

func (s *fakeRelationService) PatchRelation(ctx context.Context, userID, bookID uint, patch relation.Patch) (*relation.UserBookRelation, error) {
	if s.patchErr != nil {
		return nil, s.patchErr
	}
	rel := relation.NewRelation(userID, bookID)
	rel.ID = 1
	_ = rel.Apply(patch)
	s.patched = rel
	return rel, nil
}

func (s *fakeRelationService) RecomputeBookRating(ctx context.Context, bookID uint) (*float64, error) {
	s.recomputes++
	return s.avg, nil
}

// recordingPublisher 记录发布过的事件
type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(routingKey string, message interface{}) error {
	p.events = append(p.events, routingKey)
	return nil
}

func intPtr(v int) *int        { return &v }
func boolPtr(v bool) *bool     { return &v }
func f64Ptr(v float64) *float64 { return &v }

func newTestUseCase(relSvc *fakeRelationService, pub EventPublisher) *PatchRelationUseCase {
	bookSvc := &fakeBookService{books: map[uint]*book.Book{
		10: {ID: 10, Name: "存在的书", PriceCents: 2500, AuthorName: "作者"},
	}}
	return NewPatchRelationUseCase(bookSvc, relSvc, pub)
}

// TestPatchRelationUseCase 测试关系补丁用例编排
func TestPatchRelationUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("图书不存在返回404", func(t *testing.T) {
		relSvc := &fakeRelationService{}
		uc := newTestUseCase(relSvc, nil)

		_, err := uc.Execute(ctx, PatchRelationRequest{UserID: 1, BookID: 999, Like: boolPtr(true)})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
		assert.Nil(t, relSvc.patched, "图书不存在时不应创建关系")
	})

	t.Run("只点赞不触发评分重算", func(t *testing.T) {
		relSvc := &fakeRelationService{}
		uc := newTestUseCase(relSvc, nil)

		resp, err := uc.Execute(ctx, PatchRelationRequest{UserID: 1, BookID: 10, Like: boolPtr(true)})
		require.NoError(t, err)

		assert.Zero(t, relSvc.recomputes, "没动评分不应重算")
		assert.False(t, resp.RatingRecomputed)
		assert.True(t, resp.Relation.Like)
	})

	t.Run("评分触发重算", func(t *testing.T) {
		relSvc := &fakeRelationService{avg: f64Ptr(4.5)}
		uc := newTestUseCase(relSvc, nil)

		resp, err := uc.Execute(ctx, PatchRelationRequest{UserID: 1, BookID: 10, Rate: intPtr(5), RateSet: true})
		require.NoError(t, err)

		assert.Equal(t, 1, relSvc.recomputes)
		assert.True(t, resp.RatingRecomputed)
		require.NotNil(t, resp.Rating)
		assert.InDelta(t, 4.5, *resp.Rating, 1e-9)
	})

	t.Run("清空评分同样触发重算", func(t *testing.T) {
		relSvc := &fakeRelationService{avg: nil}
		uc := newTestUseCase(relSvc, nil)

		resp, err := uc.Execute(ctx, PatchRelationRequest{UserID: 1, BookID: 10, Rate: nil, RateSet: true})
		require.NoError(t, err)

		assert.Equal(t, 1, relSvc.recomputes, "rate=null也是触碰评分")
		assert.True(t, resp.RatingRecomputed)
		assert.Nil(t, resp.Rating)
	})

	t.Run("补丁失败不重算不发事件", func(t *testing.T) {
		relSvc := &fakeRelationService{patchErr: relation.ErrInvalidRate}
		pub := &recordingPublisher{}
		uc := newTestUseCase(relSvc, pub)

		_, err := uc.Execute(ctx, PatchRelationRequest{UserID: 1, BookID: 10, Rate: intPtr(9), RateSet: true})
		assert.ErrorIs(t, err, relation.ErrInvalidRate)
		assert.Zero(t, relSvc.recomputes)
		assert.Empty(t, pub.events)
	})

	t.Run("事件发布", func(t *testing.T) {
		relSvc := &fakeRelationService{avg: f64Ptr(5.0)}
		pub := &recordingPublisher{}
		uc := newTestUseCase(relSvc, pub)

		_, err := uc.Execute(ctx, PatchRelationRequest{
			UserID: 1, BookID: 10,
			Like: boolPtr(true),
			Rate: intPtr(5), RateSet: true,
		})
		require.NoError(t, err)

		assert.Contains(t, pub.events, "book.rated")
		assert.Contains(t, pub.events, "book.liked")
	})

	t.Run("无发布者时退化为no-op", func(t *testing.T) {
		relSvc := &fakeRelationService{}
		uc := newTestUseCase(relSvc, nil)

		_, err := uc.Execute(ctx, PatchRelationRequest{UserID: 1, BookID: 10, Like: boolPtr(true)})
		assert.NoError(t, err, "publisher为nil时不应panic")
	})
}
