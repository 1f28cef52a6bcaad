package echoapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads `?ordering=code,-year`; a leading "-" sorts descending.
func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

type validatable interface {
	Validate(validate *validator.Validate) error
}

// bind decodes the request into data, then cleans & validates it.
func bind(ctx echo.Context, validate *validator.Validate, data validatable) error {
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding request")
	}
	return data.Validate(validate)
}

// Page is a paginated list response.
type Page struct {
	Data     interface{} `json:"data"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func paginated(ctx echo.Context, data interface{}, total int, p core.Pagination) error {
	return ctx.JSON(http.StatusOK, Page{Data: data, Total: total, Page: p.Page, PageSize: p.PageSize})
}

// Write responses: {message, <key>: obj} and {message}.

func created(ctx echo.Context, msg, key string, obj interface{}) error {
	return ctx.JSON(http.StatusCreated, echo.Map{"message": msg, key: obj})
}

func updated(ctx echo.Context, msg, key string, obj interface{}) error {
	return ctx.JSON(http.StatusOK, echo.Map{"message": msg, key: obj})
}

func done(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusOK, echo.Map{"message": msg})
}
