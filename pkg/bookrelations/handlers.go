package bookrelations

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
)

type handler struct {
	relationService *Service
}

// partialUpdate is addressed by book id, not relation id: the service
// resolves the row for (current user, book) and creates it on first write.
func (h *handler) partialUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	user, ok := auth.UserFromContext(c)
	if !ok {
		return errcodes.NotAuthenticated()
	}

	params := UpdateRelationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := UpsertRelationOptions{
		UserID:      user.ID,
		BookID:      bookID,
		Like:        params.Like,
		InBookmarks: params.InBookmarks,
	}
	if params.Rate.Set {
		if params.Rate.Value == nil {
			opts.ClearRate = true
		} else {
			opts.Rate = params.Rate.Value
		}
	}

	rel, err := h.relationService.UpsertRelation(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rel))
}
