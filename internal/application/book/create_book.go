package book

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// CreateBookUseCase 创建图书用例
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建用例实例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{bookService: bookService}
}

// CreateBookRequest 创建图书请求
type CreateBookRequest struct {
	Name       string
	PriceCents int64
	AuthorName string
	OwnerID    uint
}

// Execute 执行创建
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookData, error) {
	b, err := uc.bookService.CreateBook(ctx, req.Name, req.PriceCents, req.AuthorName, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if metrics.BooksCreatedTotal != nil {
		metrics.BooksCreatedTotal.Inc()
	}

	// 新建图书还没有任何点赞和评分
	return toBookData(&book.Annotated{Book: *b, LikesCount: 0}), nil
}
