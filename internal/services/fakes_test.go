package services

import (
	"context"
	"strings"
	"time"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/query"
)

type fakeExistence map[int64]bool

func (f fakeExistence) ExistsByID(_ context.Context, id int64) (bool, error) {
	return f[id], nil
}

type fakeProducts struct {
	byID       map[int64]models.Product
	rows       []models.Product
	total      int64
	pageCalls  int
	sliceCalls int
	lastQuery  query.ListingQuery
	nextID     int64
	patched    *models.PatchProductInput
	deleted    []int64
}

func newFakeProducts(items ...models.Product) *fakeProducts {
	f := &fakeProducts{byID: map[int64]models.Product{}, nextID: 100}
	for _, p := range items {
		f.byID[p.ID] = p
		f.rows = append(f.rows, p)
	}
	f.total = int64(len(items))
	return f
}

func (f *fakeProducts) FindPage(_ context.Context, q query.ListingQuery) ([]models.Product, int64, error) {
	f.pageCalls++
	f.lastQuery = q
	return f.window(q, q.Bounds().Size), f.total, nil
}

func (f *fakeProducts) FindSlice(_ context.Context, q query.ListingQuery) ([]models.Product, error) {
	f.sliceCalls++
	f.lastQuery = q
	return f.window(q, q.Bounds().SliceLimit()), nil
}

func (f *fakeProducts) window(q query.ListingQuery, limit int) []models.Product {
	start := q.Bounds().Offset()
	if start >= len(f.rows) {
		return []models.Product{}
	}
	end := start + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return append([]models.Product(nil), f.rows[start:end]...)
}

func (f *fakeProducts) FindAll(_ context.Context, q query.ListingQuery) ([]models.Product, error) {
	f.lastQuery = q
	return f.rows, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (models.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return models.Product{}, domain.NotFoundError{Resource: "product", ID: id}
	}
	return p, nil
}

func (f *fakeProducts) OwnerID(_ context.Context, id int64) (int64, error) {
	p, ok := f.byID[id]
	if !ok {
		return 0, domain.NotFoundError{Resource: "product", ID: id}
	}
	return p.Owner.ID, nil
}

func (f *fakeProducts) NameTaken(_ context.Context, name string, excludeID int64) (bool, error) {
	for id, p := range f.byID {
		if id != excludeID && strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProducts) Create(_ context.Context, ownerID int64, in models.CreateProductInput) (int64, error) {
	f.nextID++
	now := time.Now()
	f.byID[f.nextID] = models.Product{
		ID: f.nextID, Name: in.Name, Description: in.Description, Price: in.Price, Stock: in.Stock,
		Owner: models.UserSummary{ID: ownerID}, CreatedAt: now, UpdatedAt: now,
	}
	return f.nextID, nil
}

func (f *fakeProducts) Update(_ context.Context, id int64, in models.UpdateProductInput) error {
	p := f.byID[id]
	p.Name, p.Description, p.Price, p.Stock = in.Name, in.Description, in.Price, in.Stock
	f.byID[id] = p
	return nil
}

func (f *fakeProducts) Patch(_ context.Context, id int64, in models.PatchProductInput) error {
	f.patched = &in
	p := f.byID[id]
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	f.byID[id] = p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.NotFoundError{Resource: "product", ID: id}
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCategories struct {
	fakeExistence
}

func (f fakeCategories) CountExisting(_ context.Context, ids []int64) (int, error) {
	seen := map[int64]bool{}
	for _, id := range ids {
		if f.fakeExistence[id] {
			seen[id] = true
		}
	}
	return len(seen), nil
}

// fakeCategoryStore serves category listings and records the last query.
type fakeCategoryStore struct {
	fakeExistence
	rows      []models.Category
	lastQuery query.ListingQuery
	pageCalls int
}

func (f *fakeCategoryStore) FindPage(_ context.Context, q query.ListingQuery) ([]models.Category, int64, error) {
	f.pageCalls++
	f.lastQuery = q
	return f.rows, int64(len(f.rows)), nil
}

func (f *fakeCategoryStore) FindSlice(_ context.Context, q query.ListingQuery) ([]models.Category, error) {
	f.lastQuery = q
	return f.rows, nil
}

func (f *fakeCategoryStore) GetByID(_ context.Context, id int64) (models.Category, error) {
	for _, c := range f.rows {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Category{}, domain.NotFoundError{Resource: "category", ID: id}
}

func (f *fakeCategoryStore) CountProducts(context.Context, int64) (int64, error) { return 0, nil }

func (f *fakeCategoryStore) Create(context.Context, models.CategoryInput) (int64, error) {
	return 0, nil
}

func (f *fakeCategoryStore) Update(context.Context, int64, models.CategoryInput) error { return nil }

func (f *fakeCategoryStore) Delete(context.Context, int64) error { return nil }

type fakeUsers struct {
	byID      map[int64]models.User
	nextID    int64
	lastQuery query.ListingQuery
	pageCalls int
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[int64]models.User{}, nextID: 10}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindPage(_ context.Context, q query.ListingQuery) ([]models.User, int64, error) {
	f.pageCalls++
	f.lastQuery = q
	out := []models.User{}
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUsers) FindSlice(_ context.Context, q query.ListingQuery) ([]models.User, error) {
	rows, _, err := f.FindPage(context.Background(), q)
	return rows, err
}

func (f *fakeUsers) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "user", ID: id}
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (int64, error) {
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	return u.ID, nil
}

func (f *fakeUsers) Update(_ context.Context, u models.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.NotFoundError{Resource: "user", ID: id}
	}
	delete(f.byID, id)
	return nil
}

func sampleProducts(n int, ownerID int64) []models.Product {
	out := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Product{
			ID:    int64(i),
			Name:  "Product " + string(rune('A'+i-1)),
			Price: float64(i * 10),
			Stock: i,
			Owner: models.UserSummary{ID: ownerID, Name: "Owner", Email: "owner@example.com"},
		})
	}
	return out
}
