package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createUC *appbook.CreateBookUseCase
	getUC    *appbook.GetBookUseCase
	listUC   *appbook.ListBooksUseCase
	updateUC *appbook.UpdateBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(createUC *appbook.CreateBookUseCase, getUC *appbook.GetBookUseCase, listUC *appbook.ListBooksUseCase, updateUC *appbook.UpdateBookUseCase) *BookHandler {
	return &BookHandler{
		createUC: createUC,
		getUC:    getUC,
		listUC:   listUC,
		updateUC: updateUC,
	}
}

// ListBooks 图书列表
//
//	@Summary		图书列表
//	@Description	分页查询图书,支持价格过滤/书名作者搜索/排序,点赞数实时统计
//	@Tags			图书
//	@Produce		json
//	@Param			price		query		string	false	"价格精确过滤,如25.00"
//	@Param			search		query		string	false	"书名/作者名模糊搜索(不区分大小写)"
//	@Param			ordering	query		string	false	"排序"	Enums(price, -price, author_name, -author_name)
//	@Param			page		query		int		false	"页码"	default(1)
//	@Param			page_size	query		int		false	"每页数量"	default(20)
//	@Success		200			{object}	response.Response
//	@Failure		400			{object}	response.Response
//	@Router			/api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, listBindError(err))
		return
	}

	// binding的omitempty对显式传0的情况不生效,这里单独拦截
	if req.Page < 1 || req.PageSize < 1 {
		response.Error(c, apperrors.New(apperrors.ErrCodeInvalidParams, "分页参数必须为正整数"))
		return
	}

	ucReq := appbook.ListBooksRequest{
		Search:   req.Search,
		Ordering: req.Ordering,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Price != "" {
		cents, err := dto.ParsePrice(req.Price)
		if err != nil {
			response.Error(c, err)
			return
		}
		ucReq.PriceCents = &cents
	}

	resp, err := h.listUC.Execute(c.Request.Context(), ucReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, dto.ToBookResponseList(resp.Items), resp.Total, ucReq.Page, ucReq.PageSize)
}

// GetBook 图书详情
//
//	@Summary		图书详情
//	@Description	根据ID查询图书,带实时点赞数和平均评分
//	@Tags			图书
//	@Produce		json
//	@Param			id	path		int	true	"图书ID"
//	@Success		200	{object}	response.Response
//	@Failure		404	{object}	response.Response
//	@Router			/api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	data, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBookResponse(data))
}

// CreateBook 创建图书
//
//	@Summary		创建图书
//	@Description	创建新图书,创建者自动成为owner
//	@Tags			图书
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.CreateBookRequest	true	"图书信息"
//	@Success		201		{object}	response.Response
//	@Failure		400		{object}	response.Response
//	@Failure		401		{object}	response.Response
//	@Router			/api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	cents, err := dto.ParsePrice(req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.createUC.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Name:       req.Name,
		PriceCents: cents,
		AuthorName: req.AuthorName,
		OwnerID:    middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToBookResponse(data))
}

// UpdateBook 更新图书
//
//	@Summary		更新图书
//	@Description	部分更新name/price/author_name,仅owner或staff可操作
//	@Tags			图书
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int						true	"图书ID"
//	@Param			request	body		dto.UpdateBookRequest	true	"更新字段"
//	@Success		200		{object}	response.Response
//	@Failure		400		{object}	response.Response
//	@Failure		403		{object}	response.Response
//	@Failure		404		{object}	response.Response
//	@Router			/api/v1/books/{id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	ucReq := appbook.UpdateBookRequest{
		BookID:     id,
		Principal:  middleware.GetPrincipal(c),
		Name:       req.Name,
		AuthorName: req.AuthorName,
	}
	if req.Price != nil {
		cents, err := dto.ParsePrice(*req.Price)
		if err != nil {
			response.Error(c, err)
			return
		}
		ucReq.PriceCents = &cents
	}

	data, err := h.updateUC.Execute(c.Request.Context(), ucReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBookResponse(data))
}

// ReplaceBook 全量更新图书
//
//	@Summary		全量更新图书
//	@Description	整体替换name/price/author_name(三个字段都必填),仅owner或staff可操作
//	@Tags			图书
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int						true	"图书ID"
//	@Param			request	body		dto.ReplaceBookRequest	true	"图书信息"
//	@Success		200		{object}	response.Response
//	@Failure		400		{object}	response.Response
//	@Failure		403		{object}	response.Response
//	@Failure		404		{object}	response.Response
//	@Router			/api/v1/books/{id} [put]
func (h *BookHandler) ReplaceBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.ReplaceBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	cents, err := dto.ParsePrice(req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 全量更新走同一个用例,三个字段全部置位
	data, err := h.updateUC.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		BookID:     id,
		Principal:  middleware.GetPrincipal(c),
		Name:       &req.Name,
		PriceCents: &cents,
		AuthorName: &req.AuthorName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBookResponse(data))
}

// listBindError 区分排序白名单错误和普通参数绑定错误
// ordering有固定文案要求,其余字段统一走参数格式错误
func listBindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Ordering" {
				return apperrors.New(apperrors.ErrCodeInvalidOrdering, "不支持的排序字段")
			}
		}
	}
	return apperrors.ErrBindError
}

// parseIDParam 解析路径里的图书ID,非法时直接写400响应
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.Error(c, apperrors.New(apperrors.ErrCodeInvalidParams, "ID格式不正确"))
		return 0, false
	}
	return uint(id), true
}
