package repository

import (
	"strings"
	"testing"

	"github.com/deppfellow/storefront/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "lamp", escapeLike("lamp"))
	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
}

func TestBuildProductListQueryDefaults(t *testing.T) {
	q := buildProductListQuery(model.ProductQuery{}.Normalize())

	assert.Contains(t, q.listSQL, "p.created_at DESC")
	assert.Contains(t, q.listSQL, "p.id DESC")
	assert.NotContains(t, q.listSQL, "ILIKE")
	assert.NotContains(t, q.countSQL, "ILIKE")
	assert.Equal(t, 10, q.args["limit"])
	assert.Equal(t, 0, q.args["offset"])
	assert.NotContains(t, q.args, "search")
}

func TestBuildProductListQuerySearchAndSort(t *testing.T) {
	q := buildProductListQuery(model.ProductQuery{
		Page:   3,
		Limit:  20,
		Sort:   model.SortByPrice,
		Order:  model.SortAsc,
		Search: "50%_off",
	}.Normalize())

	assert.Contains(t, q.listSQL, "p.price ASC")
	assert.Contains(t, q.listSQL, `p.name ILIKE @search ESCAPE '\'`)
	assert.Contains(t, q.countSQL, `p.name ILIKE @search ESCAPE '\'`)
	assert.Equal(t, `%50\%\_off%`, q.args["search"])
	assert.Equal(t, 20, q.args["limit"])
	assert.Equal(t, 40, q.args["offset"])
}

func TestBuildProductListQueryNeverInterpolatesInput(t *testing.T) {
	q := buildProductListQuery(model.ProductQuery{
		Sort:   "name; DROP TABLE users",
		Search: "'; DROP TABLE products; --",
	}.Normalize())

	assert.NotContains(t, q.listSQL, "DROP")
	assert.NotContains(t, q.countSQL, "DROP")
	assert.Contains(t, q.listSQL, "p.created_at DESC")
}

func TestBuildProductListQuerySortColumns(t *testing.T) {
	for sort, column := range productSortColumns {
		q := buildProductListQuery(model.ProductQuery{Sort: sort, Order: model.SortDesc}.Normalize())
		assert.Contains(t, q.listSQL, column+" DESC", sort)
	}
}

func TestBuildProductUpdate(t *testing.T) {
	id := uuid.New()

	_, _, ok := buildProductUpdate(id, model.UpdateProductParams{})
	assert.False(t, ok)

	name := "Desk"
	price := decimal.RequireFromString("19.99")
	stmt, args, ok := buildProductUpdate(id, model.UpdateProductParams{Name: &name, Price: &price})
	assert.True(t, ok)
	assert.Contains(t, stmt, "name = @name")
	assert.Contains(t, stmt, "price = @price")
	assert.NotContains(t, stmt, "description")
	assert.NotContains(t, stmt, "category_ids")
	assert.Equal(t, id, args["id"])
	assert.Equal(t, "Desk", args["name"])
	assert.Equal(t, 1, strings.Count(stmt, "WHERE"))
}

func TestBuildProductUpdateEmptyCategories(t *testing.T) {
	stmt, args, ok := buildProductUpdate(uuid.New(), model.UpdateProductParams{CategoryIDs: []uuid.UUID{}})
	assert.True(t, ok)
	assert.Contains(t, stmt, "category_ids = @category_ids")
	assert.Equal(t, []uuid.UUID{}, args["category_ids"])
}
