package repository

import (
	"fmt"
	"strings"

	"github.com/deppfellow/storefront/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// productSortColumns whitelists the ORDER BY expressions. Client input never
// reaches the SQL text except through this map.
var productSortColumns = map[model.ProductSort]string{
	model.SortByName:      "p.name",
	model.SortByPrice:     "p.price",
	model.SortByStatus:    "p.status",
	model.SortByCreatedAt: "p.created_at",
	model.SortByUpdatedAt: "p.updated_at",
}

const populatedProductColumns = `
			p.id,
			p.name,
			p.description,
			p.price,
			p.status,
			p.created_at,
			p.updated_at,
			jsonb_build_object('id', u.id, 'username', u.username, 'email', u.email) AS owner,
			COALESCE(
				(
					SELECT
						jsonb_agg(jsonb_build_object('id', c.id, 'name', c.name) ORDER BY ref.ord)
					FROM
						unnest(p.category_ids) WITH ORDINALITY AS ref (category_id, ord)
						JOIN categories c ON c.id = ref.category_id
				),
				'[]'::jsonb
			) AS categories`

// productListQuery is one page of the listing plus the matching count.
type productListQuery struct {
	listSQL  string
	countSQL string
	args     pgx.NamedArgs
}

// escapeLike makes s match literally inside a LIKE pattern using '\' as
// the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildProductListQuery expects a normalized query.
func buildProductListQuery(q model.ProductQuery) productListQuery {
	args := pgx.NamedArgs{
		"limit":  q.Limit,
		"offset": q.Offset(),
	}

	where := ""
	if q.Search != "" {
		where = `
		WHERE
			p.name ILIKE @search ESCAPE '\'`
		args["search"] = "%" + escapeLike(q.Search) + "%"
	}

	column, ok := productSortColumns[q.Sort]
	if !ok {
		column = productSortColumns[model.SortByCreatedAt]
	}
	direction := "DESC"
	if q.Order == model.SortAsc {
		direction = "ASC"
	}

	listSQL := fmt.Sprintf(`
		SELECT%s
		FROM
			products p
			JOIN users u ON u.id = p.user_id%s
		ORDER BY
			%s %s,
			p.id %s
		LIMIT
			@limit
		OFFSET
			@offset
	`, populatedProductColumns, where, column, direction, direction)

	countSQL := fmt.Sprintf(`
		SELECT
			COUNT(*)
		FROM
			products p%s
	`, where)

	return productListQuery{
		listSQL:  listSQL,
		countSQL: countSQL,
		args:     args,
	}
}

// buildProductUpdate returns an UPDATE touching only the supplied fields.
// ok is false when there is nothing to update.
func buildProductUpdate(id uuid.UUID, params model.UpdateProductParams) (stmt string, args pgx.NamedArgs, ok bool) {
	if params.IsEmpty() {
		return "", nil, false
	}

	args = pgx.NamedArgs{"id": id}
	var sets []string

	if params.Name != nil {
		sets = append(sets, "name = @name")
		args["name"] = *params.Name
	}
	if params.Description != nil {
		sets = append(sets, "description = @description")
		args["description"] = *params.Description
	}
	if params.Price != nil {
		sets = append(sets, "price = @price")
		args["price"] = *params.Price
	}
	if params.Status != nil {
		sets = append(sets, "status = @status")
		args["status"] = string(*params.Status)
	}
	if params.CategoryIDs != nil {
		sets = append(sets, "category_ids = @category_ids")
		args["category_ids"] = params.CategoryIDs
	}

	stmt = fmt.Sprintf(`
		UPDATE products
		SET
			%s
		WHERE
			id = @id
		RETURNING
			*
	`, strings.Join(sets, ",\n\t\t\t"))

	return stmt, args, true
}
