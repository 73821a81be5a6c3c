package relation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relKey 内存仓储的主键
type relKey struct {
	userID uint
	bookID uint
}

// fakeRepository 内存关系仓储
type fakeRepository struct {
	relations map[relKey]*UserBookRelation
	nextID    uint
	creates   int // GetOrCreate实际创建的次数
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		relations: make(map[relKey]*UserBookRelation),
		nextID:    1,
	}
}

func (r *fakeRepository) GetOrCreate(ctx context.Context, userID, bookID uint) (*UserBookRelation, error) {
	key := relKey{userID, bookID}
	if rel, ok := r.relations[key]; ok {
		clone := *rel
		return &clone, nil
	}
	rel := NewRelation(userID, bookID)
	rel.ID = r.nextID
	r.nextID++
	r.creates++
	clone := *rel
	r.relations[key] = &clone
	return rel, nil
}

func (r *fakeRepository) Save(ctx context.Context, rel *UserBookRelation) error {
	clone := *rel
	r.relations[relKey{rel.UserID, rel.BookID}] = &clone
	return nil
}

func (r *fakeRepository) AverageRating(ctx context.Context, bookID uint) (*float64, error) {
	var sum, count int
	for _, rel := range r.relations {
		if rel.BookID == bookID && rel.Rate != nil {
			sum += *rel.Rate
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	avg := float64(sum) / float64(count)
	return &avg, nil
}

// fakeRatingWriter 记录写回的评分
type fakeRatingWriter struct {
	ratings map[uint]*float64
	calls   int
}

func newFakeRatingWriter() *fakeRatingWriter {
	return &fakeRatingWriter{ratings: make(map[uint]*float64)}
}

func (w *fakeRatingWriter) UpdateRating(ctx context.Context, bookID uint, rating *float64) error {
	w.ratings[bookID] = rating
	w.calls++
	return nil
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// TestPatchRelation 测试关系补丁
func TestPatchRelation(t *testing.T) {
	ctx := context.Background()

	t.Run("首次触达自动创建默认记录", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, newFakeRatingWriter())

		rel, err := svc.PatchRelation(ctx, 1, 10, Patch{Like: boolPtr(true)})
		require.NoError(t, err)

		assert.Equal(t, 1, repo.creates, "应该创建了一条记录")
		assert.True(t, rel.Like)
		assert.False(t, rel.InBookmarks, "未触碰的字段保持默认值")
		assert.Nil(t, rel.Rate)
	})

	t.Run("再次补丁复用同一条记录", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, newFakeRatingWriter())

		first, err := svc.PatchRelation(ctx, 1, 10, Patch{Like: boolPtr(true)})
		require.NoError(t, err)

		second, err := svc.PatchRelation(ctx, 1, 10, Patch{InBookmarks: boolPtr(true)})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID, "同一(用户,图书)对只有一条记录")
		assert.Equal(t, 1, repo.creates)
		assert.True(t, second.Like, "之前的点赞状态保留")
		assert.True(t, second.InBookmarks)
	})

	t.Run("不同用户各自独立", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, newFakeRatingWriter())

		_, err := svc.PatchRelation(ctx, 1, 10, Patch{Like: boolPtr(true)})
		require.NoError(t, err)
		rel2, err := svc.PatchRelation(ctx, 2, 10, Patch{Rate: intPtr(5), RateSet: true})
		require.NoError(t, err)

		assert.Equal(t, 2, repo.creates)
		assert.False(t, rel2.Like, "另一个用户的点赞不影响本用户")
	})

	t.Run("取消点赞", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, newFakeRatingWriter())

		_, err := svc.PatchRelation(ctx, 1, 10, Patch{Like: boolPtr(true)})
		require.NoError(t, err)
		rel, err := svc.PatchRelation(ctx, 1, 10, Patch{Like: boolPtr(false)})
		require.NoError(t, err)

		assert.False(t, rel.Like)
	})

	t.Run("清空评分", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, newFakeRatingWriter())

		rel, err := svc.PatchRelation(ctx, 1, 10, Patch{Rate: intPtr(4), RateSet: true})
		require.NoError(t, err)
		require.NotNil(t, rel.Rate)

		rel, err = svc.PatchRelation(ctx, 1, 10, Patch{Rate: nil, RateSet: true})
		require.NoError(t, err)
		assert.Nil(t, rel.Rate, "RateSet=true且Rate=nil表示清空")
	})

	t.Run("评分越界失败且已有字段不变", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, newFakeRatingWriter())

		_, err := svc.PatchRelation(ctx, 1, 10, Patch{Like: boolPtr(true), Rate: intPtr(3), RateSet: true})
		require.NoError(t, err)

		// 越界评分连带的like修改也不生效
		_, err = svc.PatchRelation(ctx, 1, 10, Patch{Like: boolPtr(false), Rate: intPtr(6), RateSet: true})
		assert.ErrorIs(t, err, ErrInvalidRate)

		rel, err := repo.GetOrCreate(ctx, 1, 10)
		require.NoError(t, err)
		assert.True(t, rel.Like, "失败的补丁不应修改任何字段")
		assert.Equal(t, 3, *rel.Rate)

		_, err = svc.PatchRelation(ctx, 1, 10, Patch{Rate: intPtr(-1), RateSet: true})
		assert.ErrorIs(t, err, ErrInvalidRate)
	})

	t.Run("越界评分仍然创建默认记录", func(t *testing.T) {
		// 先get_or_create再校验:失败的首次补丁留下一条默认记录
		repo := newFakeRepository()
		svc := NewService(repo, newFakeRatingWriter())

		_, err := svc.PatchRelation(ctx, 1, 10, Patch{Rate: intPtr(9), RateSet: true})
		assert.ErrorIs(t, err, ErrInvalidRate)
		assert.Equal(t, 1, repo.creates, "默认记录已创建")

		rel, err := repo.GetOrCreate(ctx, 1, 10)
		require.NoError(t, err)
		assert.False(t, rel.Like)
		assert.Nil(t, rel.Rate, "记录是默认值,非法评分没有写入")
	})

	t.Run("评分边界值", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, newFakeRatingWriter())

		rel, err := svc.PatchRelation(ctx, 1, 10, Patch{Rate: intPtr(0), RateSet: true})
		require.NoError(t, err)
		assert.Equal(t, 0, *rel.Rate, "0分合法,和没评分是两回事")

		rel, err = svc.PatchRelation(ctx, 1, 10, Patch{Rate: intPtr(5), RateSet: true})
		require.NoError(t, err)
		assert.Equal(t, 5, *rel.Rate)
	})
}

// TestRecomputeBookRating 测试评分聚合器
func TestRecomputeBookRating(t *testing.T) {
	ctx := context.Background()

	t.Run("多个用户的算术平均", func(t *testing.T) {
		repo := newFakeRepository()
		writer := newFakeRatingWriter()
		svc := NewService(repo, writer)

		_, err := svc.PatchRelation(ctx, 1, 10, Patch{Rate: intPtr(5), RateSet: true})
		require.NoError(t, err)
		_, err = svc.PatchRelation(ctx, 2, 10, Patch{Rate: intPtr(4), RateSet: true})
		require.NoError(t, err)
		_, err = svc.PatchRelation(ctx, 3, 10, Patch{Rate: intPtr(3), RateSet: true})
		require.NoError(t, err)

		avg, err := svc.RecomputeBookRating(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, avg)
		assert.InDelta(t, 4.0, *avg, 1e-9)

		// 平均分写回了图书
		require.NotNil(t, writer.ratings[10])
		assert.InDelta(t, 4.0, *writer.ratings[10], 1e-9)
	})

	t.Run("没评分的关系不参与聚合", func(t *testing.T) {
		repo := newFakeRepository()
		writer := newFakeRatingWriter()
		svc := NewService(repo, writer)

		_, err := svc.PatchRelation(ctx, 1, 10, Patch{Rate: intPtr(4), RateSet: true})
		require.NoError(t, err)
		// 只点赞不评分
		_, err = svc.PatchRelation(ctx, 2, 10, Patch{Like: boolPtr(true)})
		require.NoError(t, err)

		avg, err := svc.RecomputeBookRating(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, avg)
		assert.InDelta(t, 4.0, *avg, 1e-9, "rate为nil的记录不拉低平均分")
	})

	t.Run("一个评分都没有时写回NULL", func(t *testing.T) {
		repo := newFakeRepository()
		writer := newFakeRatingWriter()
		svc := NewService(repo, writer)

		avg, err := svc.RecomputeBookRating(ctx, 10)
		require.NoError(t, err)
		assert.Nil(t, avg)
		assert.Equal(t, 1, writer.calls, "即使没有评分也要写回(清空旧值)")
		assert.Nil(t, writer.ratings[10])
	})

	t.Run("最后一个评分被清空后回到NULL", func(t *testing.T) {
		repo := newFakeRepository()
		writer := newFakeRatingWriter()
		svc := NewService(repo, writer)

		_, err := svc.PatchRelation(ctx, 1, 10, Patch{Rate: intPtr(5), RateSet: true})
		require.NoError(t, err)
		avg, err := svc.RecomputeBookRating(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, avg)

		_, err = svc.PatchRelation(ctx, 1, 10, Patch{Rate: nil, RateSet: true})
		require.NoError(t, err)
		avg, err = svc.RecomputeBookRating(ctx, 10)
		require.NoError(t, err)
		assert.Nil(t, avg, "评分全部清空后平均分应为NULL")
	})
}
