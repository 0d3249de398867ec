package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Store is an in-memory stand-in for the Postgres repositories. It mimics
// the driver's errors: pgx.ErrNoRows for missing rows and a 23505
// *pgconn.PgError for unique violations.
type Store struct {
	mu         sync.Mutex
	now        time.Time
	users      map[uuid.UUID]*model.User
	categories []*model.Category
	products   map[uuid.UUID]*model.Product

	// Err, when set, is returned by every store call.
	Err error
}

func NewStore() *Store {
	return &Store{
		now:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    make(map[uuid.UUID]*model.User),
		products: make(map[uuid.UUID]*model.Product),
	}
}

// tick returns a strictly increasing timestamp so ordering by time is
// deterministic. Callers hold mu.
func (s *Store) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *Store) newBase() model.Base {
	now := s.tick()
	return model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func notFound(table string) error {
	return sqlerr.WrapNotFound(table, pgx.ErrNoRows)
}

func uniqueViolation(table, constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		TableName:      table,
		ConstraintName: constraint,
	}
}

// AddUser seeds a user whose password is hashed with the minimum bcrypt cost.
func (s *Store) AddUser(username, email, password string, role model.Role) *model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := &model.User{
		Base:         s.newBase(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	s.users[user.ID] = user
	cp := *user
	return &cp
}

// RemoveUser deletes a user and, like ON DELETE CASCADE, their products.
func (s *Store) RemoveUser(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	for pid, p := range s.products {
		if p.UserID == id {
			delete(s.products, pid)
		}
	}
}

func (s *Store) AddCategory(name string) *model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := &model.Category{Base: s.newBase(), Name: name}
	s.categories = append(s.categories, category)
	cp := *category
	return &cp
}

func (s *Store) AddProduct(owner uuid.UUID, name string, price string, categoryIDs ...uuid.UUID) *model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if categoryIDs == nil {
		categoryIDs = []uuid.UUID{}
	}
	product := &model.Product{
		Base:        s.newBase(),
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Status:      model.ProductStatusActive,
		UserID:      owner,
		CategoryIDs: categoryIDs,
	}
	s.products[product.ID] = product
	return cloneProduct(product)
}

// Product returns a copy of the stored product, or nil.
func (s *Store) Product(id uuid.UUID) *model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.products[id]; ok {
		return cloneProduct(p)
	}
	return nil
}

// User returns a copy of the stored user, or nil.
func (s *Store) User(id uuid.UUID) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func cloneProduct(p *model.Product) *model.Product {
	cp := *p
	cp.CategoryIDs = append([]uuid.UUID{}, p.CategoryIDs...)
	return &cp
}

func (s *Store) Users() *Users           { return &Users{s} }
func (s *Store) Categories() *Categories { return &Categories{s} }
func (s *Store) Products() *Products     { return &Products{s} }

type Users struct{ s *Store }

func (u *Users) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, existing := range s.users {
		if existing.Email == params.Email {
			return nil, uniqueViolation("users", "unique_users_email")
		}
	}

	user := &model.User{
		Base:         s.newBase(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
	}
	s.users[user.ID] = user
	cp := *user
	return &cp, nil
}

func (u *Users) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	user, ok := s.users[id]
	if !ok {
		return nil, notFound("users")
	}
	cp := *user
	return &cp, nil
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, user := range s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, notFound("users")
}

func (u *Users) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	user, ok := s.users[id]
	if !ok {
		return nil, notFound("users")
	}
	user.Role = role
	user.UpdatedAt = s.tick()
	cp := *user
	return &cp, nil
}

func (u *Users) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}

	_, ok := s.users[id]
	return ok, nil
}

type Categories struct{ s *Store }

func (c *Categories) Create(ctx context.Context, name string) (*model.Category, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, existing := range s.categories {
		if existing.Name == name {
			return nil, uniqueViolation("categories", "unique_categories_name")
		}
	}

	category := &model.Category{Base: s.newBase(), Name: name}
	s.categories = append(s.categories, category)
	cp := *category
	return &cp, nil
}

func (c *Categories) List(ctx context.Context) ([]model.Category, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]model.Category, 0, len(s.categories))
	for _, category := range s.categories {
		out = append(out, *category)
	}
	return out, nil
}

func (c *Categories) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}

	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	count := 0
	for _, category := range s.categories {
		if wanted[category.ID] {
			count++
		}
	}
	return count, nil
}

type Products struct{ s *Store }

func (p *Products) Create(ctx context.Context, params model.CreateProductParams) (*model.Product, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	if _, ok := s.users[params.UserID]; !ok {
		return nil, &pgconn.PgError{Code: "23503", TableName: "products", ColumnName: "user_id"}
	}

	product := &model.Product{
		Base:        s.newBase(),
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Status:      params.Status,
		UserID:      params.UserID,
		CategoryIDs: append([]uuid.UUID{}, params.CategoryIDs...),
	}
	s.products[product.ID] = product
	return cloneProduct(product), nil
}

func (p *Products) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	product, ok := s.products[id]
	if !ok {
		return nil, notFound("products")
	}
	return cloneProduct(product), nil
}

func (p *Products) Update(ctx context.Context, id uuid.UUID, params model.UpdateProductParams) (*model.Product, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	product, ok := s.products[id]
	if !ok {
		return nil, notFound("products")
	}
	if params.IsEmpty() {
		return cloneProduct(product), nil
	}

	if params.Name != nil {
		product.Name = *params.Name
	}
	if params.Description != nil {
		product.Description = *params.Description
	}
	if params.Price != nil {
		product.Price = *params.Price
	}
	if params.Status != nil {
		product.Status = *params.Status
	}
	if params.CategoryIDs != nil {
		product.CategoryIDs = append([]uuid.UUID{}, params.CategoryIDs...)
	}
	product.UpdatedAt = s.tick()

	return cloneProduct(product), nil
}

func (p *Products) Delete(ctx context.Context, id uuid.UUID) error {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.products[id]; !ok {
		return notFound("products")
	}
	delete(s.products, id)
	return nil
}

func (p *Products) List(ctx context.Context, q model.ProductQuery) ([]model.PopulatedProduct, int64, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}

	search := strings.ToLower(q.Search)
	var matched []*model.Product
	for _, product := range s.products {
		if search == "" || strings.Contains(strings.ToLower(product.Name), search) {
			matched = append(matched, product)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		cmp := compareProducts(a, b, q.Sort)
		if cmp == 0 {
			cmp = strings.Compare(a.ID.String(), b.ID.String())
		}
		if q.Order == model.SortAsc {
			return cmp < 0
		}
		return cmp > 0
	})

	total := int64(len(matched))
	start := min(q.Offset(), len(matched))
	end := min(start+q.Limit, len(matched))

	out := make([]model.PopulatedProduct, 0, end-start)
	for _, product := range matched[start:end] {
		out = append(out, s.populate(product))
	}
	return out, total, nil
}

func compareProducts(a, b *model.Product, by model.ProductSort) int {
	switch by {
	case model.SortByName:
		return strings.Compare(a.Name, b.Name)
	case model.SortByPrice:
		return a.Price.Cmp(b.Price)
	case model.SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case model.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// populate resolves owner and categories. Callers hold mu.
func (s *Store) populate(p *model.Product) model.PopulatedProduct {
	out := model.PopulatedProduct{
		Base:        p.Base,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Status:      p.Status,
		Categories:  []model.CategorySummary{},
	}

	if owner, ok := s.users[p.UserID]; ok {
		out.Owner = &model.UserSummary{ID: owner.ID, Username: owner.Username, Email: owner.Email}
	}

	for _, id := range p.CategoryIDs {
		for _, category := range s.categories {
			if category.ID == id {
				out.Categories = append(out.Categories, model.CategorySummary{ID: category.ID, Name: category.Name})
				break
			}
		}
	}

	return out
}
