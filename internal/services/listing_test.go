package services

import (
	"context"
	"testing"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func newProductService(products *fakeProducts) ProductService {
	return ProductService{
		Products:   products,
		Categories: fakeCategories{fakeExistence{1: true, 2: true}},
		Users:      fakeExistence{7: true},
	}
}

func TestProductPage_CountsAndMaps(t *testing.T) {
	products := newFakeProducts(sampleProducts(3, 7)...)
	products.total = 23
	svc := newProductService(products)

	page, err := svc.Page(context.Background(), query.ListingParams{Page: 0, Size: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(23), page.TotalElements)
	assert.Equal(t, 8, page.TotalPages)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "owner@example.com", page.Items[0].User.Email)
	assert.NotNil(t, page.Items[0].Categories)
	assert.Equal(t, 0, products.sliceCalls)
}

func TestProductSlice_HasNextAndNoCount(t *testing.T) {
	products := newFakeProducts(sampleProducts(5, 7)...)
	svc := newProductService(products)

	first, err := svc.Slice(context.Background(), query.ListingParams{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.True(t, first.HasNext)
	assert.Len(t, first.Items, 2)

	last, err := svc.Slice(context.Background(), query.ListingParams{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.False(t, last.HasNext)
	assert.Len(t, last.Items, 1)

	assert.Equal(t, 0, products.pageCalls)
	assert.Equal(t, 2, products.sliceCalls)
}

func TestProductSlice_ExactlyFullLastPage(t *testing.T) {
	products := newFakeProducts(sampleProducts(4, 7)...)
	svc := newProductService(products)

	res, err := svc.Slice(context.Background(), query.ListingParams{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.False(t, res.HasNext)
	assert.Len(t, res.Items, 2)
}

func TestProductPage_EmptyPageBeyondEnd(t *testing.T) {
	products := newFakeProducts(sampleProducts(3, 7)...)
	svc := newProductService(products)

	page, err := svc.Page(context.Background(), query.ListingParams{Page: 9, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, int64(3), page.TotalElements)
}

func TestProductPage_InvalidInputNeverReachesSource(t *testing.T) {
	products := newFakeProducts(sampleProducts(3, 7)...)
	svc := newProductService(products)

	cases := []query.ListingParams{
		{Page: -1, Size: 10},
		{Page: 0, Size: 0},
		{Page: 0, Size: 101},
		{Page: 0, Size: 10, Sort: []string{"password"}},
		{Page: 0, Size: 10, Sort: []string{"name,sideways"}},
		{Page: 0, Size: 10, Filter: query.FilterInput{MinPrice: f64(50), MaxPrice: f64(10)}},
	}
	for _, p := range cases {
		_, err := svc.Page(context.Background(), p)
		assert.True(t, domain.IsValidation(err), "params %+v: got %v", p, err)
	}
	assert.Equal(t, 0, products.pageCalls)
}

func TestProductPageByOwner_MissingOwnerIsNotFound(t *testing.T) {
	products := newFakeProducts()
	svc := newProductService(products)

	_, err := svc.PageByOwner(context.Background(), 99, query.ListingParams{Size: 10})
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Contains(t, err.Error(), "user")
	assert.Equal(t, 0, products.pageCalls)
}

func TestProductPageByOwner_ScopesQuery(t *testing.T) {
	products := newFakeProducts(sampleProducts(2, 7)...)
	svc := newProductService(products)

	_, err := svc.PageByOwner(context.Background(), 7, query.ListingParams{Size: 10, Filter: query.FilterInput{Name: "prod"}})
	require.NoError(t, err)
	owner, ok := products.lastQuery.OwnerID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), owner)
	name, _ := products.lastQuery.Filter().Name()
	assert.Equal(t, "prod", name)
}

func TestProductSearch_MissingCategoryIsNotFound(t *testing.T) {
	products := newFakeProducts()
	svc := newProductService(products)

	_, err := svc.Page(context.Background(), query.ListingParams{Size: 10, Filter: query.FilterInput{CategoryID: i64(42)}})
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Contains(t, err.Error(), "category")
	assert.Equal(t, 0, products.pageCalls)
}

func TestProductSliceByCategory_PathOverridesQuery(t *testing.T) {
	products := newFakeProducts(sampleProducts(1, 7)...)
	svc := newProductService(products)

	_, err := svc.SliceByCategory(context.Background(), 2, query.ListingParams{Size: 10, Filter: query.FilterInput{CategoryID: i64(1)}})
	require.NoError(t, err)
	cat, ok := products.lastQuery.Filter().CategoryID()
	assert.True(t, ok)
	assert.Equal(t, int64(2), cat)
}

func TestListerWithoutOwnerLookupIsInternal(t *testing.T) {
	q, err := query.NewFactory(query.ProductSchema).Build(query.ListingParams{Size: 5})
	require.NoError(t, err)

	l := Lister[int, int]{Source: nil, Map: func(v int) int { return v }}
	_, err = l.Page(context.Background(), q.WithOwner(1))
	assert.True(t, domain.IsInternal(err))
}

func TestProductListAll_ValidatesBoundsBeforeIgnoringThem(t *testing.T) {
	products := newFakeProducts(sampleProducts(3, 7)...)
	svc := newProductService(products)

	_, err := svc.ListAll(context.Background(), query.ListingParams{Page: -1, Size: 10})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.ListAll(context.Background(), query.ListingParams{Page: 0, Size: 500})
	assert.True(t, domain.IsValidation(err))

	all, err := svc.ListAll(context.Background(), query.ListingParams{Page: 0, Size: 1})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductListAllByOwner(t *testing.T) {
	products := newFakeProducts(sampleProducts(3, 7)...)
	svc := newProductService(products)

	items, err := svc.ListAllByOwner(context.Background(), 7, query.ListingParams{Size: 10, Sort: []string{"price,desc"}})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	owner, ok := products.lastQuery.OwnerID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), owner)
	assert.Equal(t, "price,desc", products.lastQuery.Sort().String())

	products.lastQuery = query.ListingQuery{}
	_, err = svc.ListAllByOwner(context.Background(), 99, query.ListingParams{Size: 10})
	assert.True(t, domain.IsNotFound(err))
	_, scoped := products.lastQuery.OwnerID()
	assert.False(t, scoped, "store must not be queried for a missing owner")

	_, err = svc.ListAllByOwner(context.Background(), 0, query.ListingParams{Size: 10})
	assert.True(t, domain.IsValidation(err))
}

func TestCategoryPage(t *testing.T) {
	store := &fakeCategoryStore{rows: []models.Category{{ID: 1, Name: "Books"}, {ID: 2, Name: "Garden"}}}
	svc := CategoryService{Categories: store}

	page, err := svc.Page(context.Background(), query.ListingParams{Size: 1, Sort: []string{"name,desc"}, Filter: query.FilterInput{Name: " bo "}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	name, ok := store.lastQuery.Filter().Name()
	assert.True(t, ok)
	assert.Equal(t, "bo", name)
	assert.Equal(t, "name,desc", store.lastQuery.Sort().String())

	for field, p := range map[string]query.ListingParams{
		"maxPrice":   {Size: 10, Filter: query.FilterInput{Raw: query.RawFilter{MaxPrice: "5"}}},
		"categoryId": {Size: 10, Filter: query.FilterInput{CategoryID: i64(1)}},
		"sort":       {Size: 10, Sort: []string{"price"}},
	} {
		_, err := svc.Page(context.Background(), p)
		var ve domain.ValidationError
		require.ErrorAs(t, err, &ve, field)
		assert.Equal(t, field, ve.Field)
	}
	assert.Equal(t, 1, store.pageCalls)
}

func TestUserPage(t *testing.T) {
	users := newFakeUsers(models.User{ID: 1, Name: "Ana", Email: "ana@example.com", PasswordHash: "secret-hash"})
	svc := UserService{Users: users}

	page, err := svc.Page(context.Background(), query.ListingParams{Size: 10, Sort: []string{"email"}, Filter: query.FilterInput{Name: "an"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ana@example.com", page.Items[0].Email)
	name, _ := users.lastQuery.Filter().Name()
	assert.Equal(t, "an", name)

	_, err = svc.Page(context.Background(), query.ListingParams{Size: 10, Filter: query.FilterInput{MinPrice: f64(1)}})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.Page(context.Background(), query.ListingParams{Size: 10, Sort: []string{"passwordHash"}})
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 1, users.pageCalls)
}
