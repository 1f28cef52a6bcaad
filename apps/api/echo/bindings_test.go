package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/fmsedu/curriculum/core"
)

func TestOrdering_Bind(t *testing.T) {
	tests := []struct {
		query string
		want  []core.DBOrdering
	}{
		{query: "", want: nil},
		{query: "ordering=code", want: []core.DBOrdering{{Field: "code", Ascending: true}}},
		{query: "ordering=-year,%20code%20,-,", want: []core.DBOrdering{{Field: "year"}, {Field: "code", Ascending: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/programs?"+tt.query, nil)
			ctx := echo.New().NewContext(req, httptest.NewRecorder())

			var ord Ordering
			ord.Bind(ctx)
			assert.Equal(t, tt.want, ord.Orderings)
		})
	}
}

func TestPaginated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/programs", nil)
	rec := httptest.NewRecorder()
	ctx := echo.New().NewContext(req, rec)

	p := core.Pagination{Page: 0, PageSize: 500}
	p.Clean()
	err := paginated(ctx, []string{"a"}, 41, p)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"data":["a"],"total":41,"page":1,"pageSize":100}`, rec.Body.String())
}
