package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	for _, bad := range []string{"", "Admin", "superuser", " seller"} {
		_, err := ParseRole(bad)
		assert.Error(t, err, bad)
	}
}

func TestActorHasRole(t *testing.T) {
	seller := Actor{UserID: uuid.New(), Role: RoleSeller}

	assert.True(t, seller.HasRole(RoleAdmin, RoleSeller))
	assert.False(t, seller.HasRole(RoleAdmin))
	assert.False(t, seller.HasRole())
}

func TestProductQueryNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   ProductQuery
		want ProductQuery
	}{
		{
			name: "defaults",
			in:   ProductQuery{},
			want: ProductQuery{Page: 1, Limit: 10, Sort: SortByCreatedAt, Order: SortDesc},
		},
		{
			name: "limit clamped",
			in:   ProductQuery{Page: 3, Limit: 500, Sort: SortByPrice, Order: SortAsc},
			want: ProductQuery{Page: 3, Limit: 100, Sort: SortByPrice, Order: SortAsc},
		},
		{
			name: "unknown sort and order fall back",
			in:   ProductQuery{Page: -2, Limit: 5, Sort: "password_hash", Order: "sideways", Search: "  lamp "},
			want: ProductQuery{Page: 1, Limit: 5, Sort: SortByCreatedAt, Order: SortDesc, Search: "lamp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestProductQueryOffset(t *testing.T) {
	assert.Equal(t, 0, ProductQuery{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, ProductQuery{Page: 5, Limit: 10}.Offset())
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]int{1, 2, 3}, 23, 2, 10)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNextPage)
	assert.True(t, resp.HasPrevPage)

	last := NewPaginatedResponse([]int{1}, 21, 3, 10)
	assert.False(t, last.HasNextPage)

	empty := NewPaginatedResponse[int](nil, 0, 1, 10)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPrevPage)
	assert.NotNil(t, empty.Data)

	body, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"total":0,"page":1,"total_pages":0,"has_next_page":false,"has_prev_page":false}`, string(body))
}

func TestUserPasswordHashNotSerialized(t *testing.T) {
	body, err := json.Marshal(User{Username: "ann", Email: "ann@example.com", PasswordHash: "secret", Role: RoleSeller})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret")
	assert.NotContains(t, string(body), "password")
}

func TestUpdateProductParamsIsEmpty(t *testing.T) {
	assert.True(t, UpdateProductParams{}.IsEmpty())

	price := decimal.NewFromInt(5)
	assert.False(t, UpdateProductParams{Price: &price}.IsEmpty())
	assert.False(t, UpdateProductParams{CategoryIDs: []uuid.UUID{}}.IsEmpty())
}

func TestProductOwnedBy(t *testing.T) {
	owner := uuid.New()
	p := &Product{UserID: owner}
	assert.True(t, p.OwnedBy(owner))
	assert.False(t, p.OwnedBy(uuid.New()))
}
