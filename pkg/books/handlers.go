package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
)

type handler struct {
	bookService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, err := h.bookService.ListBooks(ctx, ListBooksOptions{
		Search:   params.Search,
		Price:    params.Price,
		Ordering: params.Ordering,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, books))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := auth.UserFromContext(c)
	if !ok {
		return errcodes.NotAuthenticated()
	}

	params := BookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Name:       params.Name,
		AuthorName: params.AuthorName,
		Price:      *params.Price,
		OwnerID:    &user.ID,
	}

	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

// update handles PUT: a full replacement of the writable fields.
func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.fetchForWrite(c)
	if err != nil {
		return err
	}

	params := BookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book.Name = params.Name
	book.AuthorName = params.AuthorName
	book.Price = *params.Price

	err = h.bookService.UpdateBook(ctx, book, UpdateBookOptions{
		Columns: []string{"name", "author_name", "price"},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Reload to pick up the computed aggregates.
	book, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

// partialUpdate handles PATCH: only the provided fields change.
func (h *handler) partialUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.fetchForWrite(c)
	if err != nil {
		return err
	}

	params := PartialUpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateBookOptions{Columns: []string{}}

	if params.Name != nil && *params.Name != book.Name {
		book.Name = *params.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if params.AuthorName != nil {
		book.AuthorName = params.AuthorName
		opts.Columns = append(opts.Columns, "author_name")
	}
	if params.Price != nil && *params.Price != book.Price {
		book.Price = *params.Price
		opts.Columns = append(opts.Columns, "price")
	}

	err = h.bookService.UpdateBook(ctx, book, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	book, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.fetchForWrite(c)
	if err != nil {
		return err
	}

	if err := h.bookService.DeleteBook(ctx, book.ID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// fetchForWrite loads the addressed book and enforces the owner-or-staff
// rule for mutations.
func (h *handler) fetchForWrite(c echo.Context) (*models.Book, error) {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	user, ok := auth.UserFromContext(c)
	if !ok {
		return nil, errcodes.NotAuthenticated()
	}
	if !user.CanModify(book) {
		return nil, errcodes.PermissionDenied()
	}

	return book, nil
}
