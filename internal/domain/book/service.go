package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
// 3. 权限策略在这里执行:写操作必须通过CanBeModifiedBy检查,
//    读操作对任何人开放(包括匿名)
type Service interface {
	// CreateBook 创建图书
	// 业务规则:
	// - 书名、作者名不能为空
	// - 价格必须在0.01-99999.99元之间
	// - 任何已登录用户都可以创建,创建者自动成为owner
	CreateBook(ctx context.Context, name string, priceCents int64, authorName string, ownerID uint) (*Book, error)

	// GetBook 根据ID获取图书详情(带当前点赞数)
	GetBook(ctx context.Context, id uint) (*Annotated, error)

	// FindBook 根据ID获取图书(不带派生字段,供内部写路径使用)
	FindBook(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 更新图书可编辑字段(name/price/author_name)
	// 业务规则:
	// - 请求主体必须是owner或staff,否则返回ErrForbidden,记录不变
	// - 校验失败同样不产生任何修改
	UpdateBook(ctx context.Context, id uint, p Principal, params UpdateParams) (*Book, error)

	// ListBooks 查询图书列表
	// 公开接口,不需要权限校验;不认识的排序字段返回ErrInvalidOrdering
	ListBooks(ctx context.Context, params ListParams) ([]*Annotated, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, name string, priceCents int64, authorName string, ownerID uint) (*Book, error) {
	// 1. 字段校验
	if name == "" {
		return nil, ErrInvalidName
	}
	if authorName == "" {
		return nil, ErrInvalidAuthorName
	}
	if err := validatePrice(priceCents); err != nil {
		return nil, err
	}

	// 2. 创建图书实体
	b := NewBook(name, priceCents, authorName, ownerID)

	// 3. 持久化
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// GetBook 根据ID获取图书(带点赞数)
func (s *service) GetBook(ctx context.Context, id uint) (*Annotated, error) {
	return s.repo.FindAnnotatedByID(ctx, id)
}

// FindBook 根据ID获取图书
func (s *service) FindBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBook 更新图书
// 校验和权限检查都发生在持久化之前:任何一步失败,记录保持原样
func (s *service) UpdateBook(ctx context.Context, id uint, p Principal, params UpdateParams) (*Book, error) {
	// 1. 查询图书
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 权限检查:owner或staff
	if !b.CanBeModifiedBy(p) {
		return nil, ErrForbidden
	}

	// 3. 应用更新(ApplyUpdate先校验再写字段,校验失败时实体不变)
	if err := b.ApplyUpdate(params); err != nil {
		return nil, err
	}

	// 4. 持久化
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// ListBooks 查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Annotated, int64, error) {
	// 排序字段白名单校验
	switch params.Ordering {
	case "", OrderingPrice, OrderingPriceDesc, OrderingAuthorName, OrderingAuthorNameDesc:
	default:
		return nil, 0, ErrInvalidOrdering
	}

	return s.repo.List(ctx, params)
}
