package book

import (
	"context"
	"errors"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// UpdateBookUseCase 更新图书用例
// 只有owner或staff可以修改,其他人拿到403且记录不变
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建用例实例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

// UpdateBookRequest 更新请求
// nil表示该字段本次不修改
type UpdateBookRequest struct {
	BookID     uint
	Principal  book.Principal
	Name       *string
	PriceCents *int64
	AuthorName *string
}

// Execute 执行更新
// 返回更新后的图书（重新读取一次,带上实时点赞数）
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookData, error) {
	_, err := uc.bookService.UpdateBook(ctx, req.BookID, req.Principal, book.UpdateParams{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		AuthorName: req.AuthorName,
	})
	if err != nil {
		if errors.Is(err, book.ErrForbidden) && metrics.BookUpdatesDeniedTotal != nil {
			metrics.BookUpdatesDeniedTotal.Inc()
		}
		return nil, err
	}

	// 更新成功后重新聚合一次,保证响应里的likes_count是最新值
	a, err := uc.bookService.GetBook(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	return toBookData(a), nil
}
