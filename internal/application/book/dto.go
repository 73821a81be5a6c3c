package book

import (
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// BookData 应用层图书DTO
// 价格以分为单位透传，格式化（"25.00"）是接口层的职责
type BookData struct {
	ID         uint
	Name       string
	PriceCents int64
	AuthorName string
	OwnerID    uint
	LikesCount int64
	Rating     *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func toBookData(a *book.Annotated) *BookData {
	return &BookData{
		ID:         a.ID,
		Name:       a.Name,
		PriceCents: a.PriceCents,
		AuthorName: a.AuthorName,
		OwnerID:    a.OwnerID,
		LikesCount: a.LikesCount,
		Rating:     a.Rating,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
