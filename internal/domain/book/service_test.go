package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository 内存仓储,避免单元测试依赖数据库
type fakeRepository struct {
	books   map[uint]*Book
	likes   map[uint]int64
	nextID  uint
	updates int // Update被调用的次数
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		books:  make(map[uint]*Book),
		likes:  make(map[uint]int64),
		nextID: 1,
	}
}

func (r *fakeRepository) Create(ctx context.Context, b *Book) error {
	b.ID = r.nextID
	r.nextID++
	clone := *b
	r.books[b.ID] = &clone
	return nil
}

func (r *fakeRepository) FindByID(ctx context.Context, id uint) (*Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeRepository) FindAnnotatedByID(ctx context.Context, id uint) (*Annotated, error) {
	b, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Annotated{Book: *b, LikesCount: r.likes[id]}, nil
}

func (r *fakeRepository) Update(ctx context.Context, b *Book) error {
	if _, ok := r.books[b.ID]; !ok {
		return ErrBookNotFound
	}
	clone := *b
	r.books[b.ID] = &clone
	r.updates++
	return nil
}

func (r *fakeRepository) UpdateRating(ctx context.Context, id uint, rating *float64) error {
	b, ok := r.books[id]
	if !ok {
		return ErrBookNotFound
	}
	b.Rating = rating
	return nil
}

func (r *fakeRepository) List(ctx context.Context, params ListParams) ([]*Annotated, int64, error) {
	var result []*Annotated
	for _, b := range r.books {
		result = append(result, &Annotated{Book: *b, LikesCount: r.likes[b.ID]})
	}
	return result, int64(len(result)), nil
}

// TestCreateBook 测试图书创建
func TestCreateBook(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("正常创建", func(t *testing.T) {
		b, err := svc.CreateBook(ctx, "Go语言实战", 2500, "William Kennedy", 1)
		require.NoError(t, err)

		assert.NotZero(t, b.ID, "应该分配ID")
		assert.Equal(t, int64(2500), b.PriceCents)
		assert.Equal(t, uint(1), b.OwnerID, "创建者应该成为owner")
		assert.Nil(t, b.Rating, "新书没有评分")
	})

	t.Run("书名为空应失败", func(t *testing.T) {
		_, err := svc.CreateBook(ctx, "", 2500, "作者", 1)
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("作者为空应失败", func(t *testing.T) {
		_, err := svc.CreateBook(ctx, "书名", 2500, "", 1)
		assert.ErrorIs(t, err, ErrInvalidAuthorName)
	})

	t.Run("价格越界应失败", func(t *testing.T) {
		_, err := svc.CreateBook(ctx, "书名", 0, "作者", 1)
		assert.ErrorIs(t, err, ErrInvalidPrice, "0分不合法")

		_, err = svc.CreateBook(ctx, "书名", 10000000, "作者", 1)
		assert.ErrorIs(t, err, ErrInvalidPrice, "超过99999.99元不合法")
	})

	t.Run("价格边界值", func(t *testing.T) {
		_, err := svc.CreateBook(ctx, "最便宜", 1, "作者", 1)
		assert.NoError(t, err, "0.01元合法")

		_, err = svc.CreateBook(ctx, "最贵", 9999999, "作者", 1)
		assert.NoError(t, err, "99999.99元合法")
	})
}

// TestUpdateBookAuthorization 测试更新的权限策略
func TestUpdateBookAuthorization(t *testing.T) {
	ctx := context.Background()
	newName := "改名后的书"

	setup := func(t *testing.T, ownerID uint) (*fakeRepository, Service, uint) {
		repo := newFakeRepository()
		svc := NewService(repo)
		b, err := svc.CreateBook(ctx, "原书名", 2500, "原作者", ownerID)
		require.NoError(t, err)
		return repo, svc, b.ID
	}

	t.Run("owner可以修改", func(t *testing.T) {
		_, svc, id := setup(t, 1)
		b, err := svc.UpdateBook(ctx, id, Principal{UserID: 1}, UpdateParams{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, newName, b.Name)
	})

	t.Run("staff可以修改任何图书", func(t *testing.T) {
		_, svc, id := setup(t, 1)
		b, err := svc.UpdateBook(ctx, id, Principal{UserID: 99, IsStaff: true}, UpdateParams{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, newName, b.Name)
	})

	t.Run("其他用户被拒绝且记录不变", func(t *testing.T) {
		repo, svc, id := setup(t, 1)
		_, err := svc.UpdateBook(ctx, id, Principal{UserID: 2}, UpdateParams{Name: &newName})
		assert.ErrorIs(t, err, ErrForbidden)

		// 记录保持原样
		b, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "原书名", b.Name)
		assert.Zero(t, repo.updates, "权限拒绝时不应触碰持久层")
	})

	t.Run("无主图书只有staff能修改", func(t *testing.T) {
		_, svc, id := setup(t, 0)

		// 普通用户被拒绝,即使UserID恰好也是0(匿名)
		_, err := svc.UpdateBook(ctx, id, Principal{UserID: 0}, UpdateParams{Name: &newName})
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = svc.UpdateBook(ctx, id, Principal{UserID: 5}, UpdateParams{Name: &newName})
		assert.ErrorIs(t, err, ErrForbidden)

		// staff可以
		_, err = svc.UpdateBook(ctx, id, Principal{UserID: 5, IsStaff: true}, UpdateParams{Name: &newName})
		assert.NoError(t, err)
	})

	t.Run("图书不存在返回404错误", func(t *testing.T) {
		_, svc, _ := setup(t, 1)
		_, err := svc.UpdateBook(ctx, 999, Principal{UserID: 1}, UpdateParams{Name: &newName})
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

// TestUpdateBookValidation 测试更新字段校验
func TestUpdateBookValidation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewService(repo)

	b, err := svc.CreateBook(ctx, "原书名", 2500, "原作者", 1)
	require.NoError(t, err)
	owner := Principal{UserID: 1}

	t.Run("部分更新只改给定字段", func(t *testing.T) {
		price := int64(3900)
		updated, err := svc.UpdateBook(ctx, b.ID, owner, UpdateParams{PriceCents: &price})
		require.NoError(t, err)

		assert.Equal(t, int64(3900), updated.PriceCents)
		assert.Equal(t, "原书名", updated.Name, "未给定的字段保持原值")
		assert.Equal(t, "原作者", updated.AuthorName)
	})

	t.Run("非法价格整体失败", func(t *testing.T) {
		name := "新书名"
		badPrice := int64(-1)
		_, err := svc.UpdateBook(ctx, b.ID, owner, UpdateParams{Name: &name, PriceCents: &badPrice})
		assert.ErrorIs(t, err, ErrInvalidPrice)

		// 合法的name字段也不应落库
		stored, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "原书名", stored.Name, "部分合法字段也不应写入")
	})

	t.Run("空字符串字段失败", func(t *testing.T) {
		empty := ""
		_, err := svc.UpdateBook(ctx, b.ID, owner, UpdateParams{Name: &empty})
		assert.ErrorIs(t, err, ErrInvalidName)

		_, err = svc.UpdateBook(ctx, b.ID, owner, UpdateParams{AuthorName: &empty})
		assert.ErrorIs(t, err, ErrInvalidAuthorName)
	})
}

// TestListBooksOrdering 测试排序字段白名单
func TestListBooksOrdering(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	valid := []string{"", "price", "-price", "author_name", "-author_name"}
	for _, ordering := range valid {
		_, _, err := svc.ListBooks(ctx, ListParams{Ordering: ordering, Page: 1, PageSize: 20})
		assert.NoError(t, err, "排序字段 %q 应该合法", ordering)
	}

	invalid := []string{"name", "id", "-rating", "price; DROP TABLE books", "PRICE"}
	for _, ordering := range invalid {
		_, _, err := svc.ListBooks(ctx, ListParams{Ordering: ordering, Page: 1, PageSize: 20})
		assert.ErrorIs(t, err, ErrInvalidOrdering, "排序字段 %q 应该被拒绝", ordering)
	}
}

// TestCanBeModifiedBy 测试权限策略表
func TestCanBeModifiedBy(t *testing.T) {
	tests := []struct {
		name      string
		ownerID   uint
		principal Principal
		want      bool
	}{
		{"owner本人", 1, Principal{UserID: 1}, true},
		{"staff", 1, Principal{UserID: 2, IsStaff: true}, true},
		{"其他用户", 1, Principal{UserID: 2}, false},
		{"匿名", 1, Principal{}, false},
		{"无主图书_普通用户", 0, Principal{UserID: 1}, false},
		{"无主图书_匿名", 0, Principal{}, false},
		{"无主图书_staff", 0, Principal{UserID: 1, IsStaff: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Book{OwnerID: tt.ownerID}
			assert.Equal(t, tt.want, b.CanBeModifiedBy(tt.principal))
		})
	}
}
