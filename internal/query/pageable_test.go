package query

import (
	"errors"
	"math"
	"testing"

	"catalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func validationField(t *testing.T, err error) string {
	t.Helper()
	var ve domain.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	return ve.Field
}

func TestValidateBounds(t *testing.T) {
	for _, page := range []int{-1, -50} {
		_, err := ValidateBounds(page, 10)
		require.Error(t, err)
		assert.Equal(t, "page", validationField(t, err))
	}
	for _, size := range []int{-1, 0, 101, 1000} {
		_, err := ValidateBounds(0, size)
		require.Error(t, err)
		assert.Equal(t, "size", validationField(t, err))
		assert.Contains(t, err.Error(), "between 1 and 100")
	}
	for _, size := range []int{1, 100} {
		b, err := ValidateBounds(3, size)
		require.NoError(t, err)
		assert.Equal(t, PageBounds{Page: 3, Size: size}, b)
		assert.Equal(t, 3*size, b.Offset())
	}
}

func TestValidateBounds_OffsetOverflow(t *testing.T) {
	for _, tc := range []struct{ page, size int }{
		{1 << 62, 4},
		{1<<62 + 1, 4},
		{math.MaxInt, 1},
		{math.MaxInt / 100, 100},
	} {
		_, err := ValidateBounds(tc.page, tc.size)
		require.Error(t, err, "page=%d size=%d", tc.page, tc.size)
		assert.Equal(t, "page", validationField(t, err))
	}

	b, err := ValidateBounds(math.MaxInt/100-2, 100)
	require.NoError(t, err)
	assert.Greater(t, b.Offset(), 0)
	assert.Greater(t, b.Offset()+b.SliceLimit(), b.Offset())
}

func TestBuildFilter(t *testing.T) {
	t.Run("blank name means no filter", func(t *testing.T) {
		f, err := BuildFilter(ProductSchema, FilterInput{Name: "   "})
		require.NoError(t, err)
		_, ok := f.Name()
		assert.False(t, ok)
		assert.True(t, f.IsEmpty())
	})

	t.Run("name is trimmed", func(t *testing.T) {
		f, err := BuildFilter(ProductSchema, FilterInput{Name: "  Laptop "})
		require.NoError(t, err)
		name, ok := f.Name()
		assert.True(t, ok)
		assert.Equal(t, "Laptop", name)
	})

	t.Run("valid range", func(t *testing.T) {
		f, err := BuildFilter(ProductSchema, FilterInput{MinPrice: f64(10), MaxPrice: f64(50), CategoryID: i64(3)})
		require.NoError(t, err)
		lo, okLo := f.MinPrice()
		hi, okHi := f.MaxPrice()
		cat, okCat := f.CategoryID()
		assert.True(t, okLo && okHi && okCat)
		assert.Equal(t, 10.0, lo)
		assert.Equal(t, 50.0, hi)
		assert.Equal(t, int64(3), cat)
	})

	t.Run("equal bounds accepted", func(t *testing.T) {
		_, err := BuildFilter(ProductSchema, FilterInput{MinPrice: f64(20), MaxPrice: f64(20)})
		require.NoError(t, err)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := BuildFilter(ProductSchema, FilterInput{MinPrice: f64(50), MaxPrice: f64(10)})
		require.Error(t, err)
		assert.Equal(t, "maxPrice", validationField(t, err))
		assert.Contains(t, err.Error(), "maxPrice must be >= minPrice")
	})

	t.Run("negative min regardless of max", func(t *testing.T) {
		for _, max := range []*float64{nil, f64(5), f64(-10)} {
			_, err := BuildFilter(ProductSchema, FilterInput{MinPrice: f64(-1), MaxPrice: max})
			require.Error(t, err)
			assert.Equal(t, "minPrice", validationField(t, err))
		}
	})

	t.Run("negative max", func(t *testing.T) {
		_, err := BuildFilter(ProductSchema, FilterInput{MaxPrice: f64(-0.5)})
		require.Error(t, err)
		assert.Equal(t, "maxPrice", validationField(t, err))
		assert.Contains(t, err.Error(), "maxPrice must be >= 0")
	})

	t.Run("non positive category", func(t *testing.T) {
		_, err := BuildFilter(ProductSchema, FilterInput{CategoryID: i64(0)})
		require.Error(t, err)
		assert.Equal(t, "categoryId", validationField(t, err))
	})

	t.Run("price filter unsupported for categories", func(t *testing.T) {
		_, err := BuildFilter(CategorySchema, FilterInput{MaxPrice: f64(5)})
		require.Error(t, err)
		assert.Equal(t, "maxPrice", validationField(t, err))
	})

	t.Run("raw values are parsed", func(t *testing.T) {
		f, err := BuildFilter(ProductSchema, FilterInput{Raw: RawFilter{MinPrice: " 9.5 ", MaxPrice: "20", CategoryID: "4"}})
		require.NoError(t, err)
		lo, _ := f.MinPrice()
		hi, _ := f.MaxPrice()
		cat, _ := f.CategoryID()
		assert.Equal(t, 9.5, lo)
		assert.Equal(t, 20.0, hi)
		assert.Equal(t, int64(4), cat)
	})

	t.Run("typed value wins over raw", func(t *testing.T) {
		f, err := BuildFilter(ProductSchema, FilterInput{CategoryID: i64(2), Raw: RawFilter{CategoryID: "x"}})
		require.NoError(t, err)
		cat, _ := f.CategoryID()
		assert.Equal(t, int64(2), cat)
	})

	t.Run("malformed raw values", func(t *testing.T) {
		cases := map[string]RawFilter{
			"minPrice":   {MinPrice: "cheap"},
			"maxPrice":   {MaxPrice: "NaN"},
			"categoryId": {CategoryID: "x"},
		}
		for field, raw := range cases {
			_, err := BuildFilter(ProductSchema, FilterInput{Raw: raw})
			require.Error(t, err, field)
			assert.Equal(t, field, validationField(t, err))
		}
	})

	t.Run("category filter unsupported for users", func(t *testing.T) {
		_, err := BuildFilter(UserSchema, FilterInput{CategoryID: i64(1)})
		require.Error(t, err)
		assert.Equal(t, "categoryId", validationField(t, err))
	})
}

func TestFactoryBuild(t *testing.T) {
	factory := NewFactory(ProductSchema)

	t.Run("defaults", func(t *testing.T) {
		q, err := factory.Build(ListingParams{Page: DefaultPage, Size: DefaultSize})
		require.NoError(t, err)
		assert.Equal(t, PageBounds{Page: 0, Size: 10}, q.Bounds())
		assert.Equal(t, []SortOrder{{Field: "id", Direction: Asc}}, q.Sort().Orders())
		assert.True(t, q.Filter().IsEmpty())
		_, scoped := q.OwnerID()
		assert.False(t, scoped)
	})

	t.Run("bounds are checked before sort and filter", func(t *testing.T) {
		_, err := factory.Build(ListingParams{
			Page:   -1,
			Size:   10,
			Sort:   []string{"password"},
			Filter: FilterInput{MinPrice: f64(-1)},
		})
		require.Error(t, err)
		assert.Equal(t, "page", validationField(t, err))
	})

	t.Run("sort is checked before filter", func(t *testing.T) {
		_, err := factory.Build(ListingParams{
			Size:   10,
			Sort:   []string{"password"},
			Filter: FilterInput{MinPrice: f64(50), MaxPrice: f64(10)},
		})
		require.Error(t, err)
		assert.Equal(t, "sort", validationField(t, err))
	})

	t.Run("malformed raw filters wait for bounds and sort", func(t *testing.T) {
		_, err := factory.Build(ListingParams{Page: -1, Size: 10, Filter: FilterInput{Raw: RawFilter{MinPrice: "abc"}}})
		assert.Equal(t, "page", validationField(t, err))

		_, err = factory.Build(ListingParams{Size: 10, Sort: []string{"password"}, Filter: FilterInput{Raw: RawFilter{CategoryID: "x"}}})
		assert.Equal(t, "sort", validationField(t, err))

		_, err = factory.Build(ListingParams{Size: 10, Filter: FilterInput{Raw: RawFilter{CategoryID: "x"}}})
		assert.Equal(t, "categoryId", validationField(t, err))
	})

	t.Run("rejected sort names the allowed fields", func(t *testing.T) {
		_, err := NewFactory(CategorySchema).Build(ListingParams{Size: 10, Sort: []string{"price"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "allowed fields: createdAt, id, name, updatedAt")
	})

	t.Run("filter failure", func(t *testing.T) {
		_, err := factory.Build(ListingParams{
			Size:   10,
			Filter: FilterInput{MinPrice: f64(50), MaxPrice: f64(10)},
		})
		require.Error(t, err)
		assert.Equal(t, "maxPrice", validationField(t, err))
	})

	t.Run("full query", func(t *testing.T) {
		q, err := factory.Build(ListingParams{
			Page:   2,
			Size:   5,
			Sort:   []string{"price", "desc"},
			Filter: FilterInput{Name: "lap", MinPrice: f64(10), MaxPrice: f64(50)},
		})
		require.NoError(t, err)
		assert.Equal(t, 10, q.Bounds().Offset())
		assert.Equal(t, []SortOrder{{Field: "price", Direction: Desc}}, q.Sort().Orders())

		scoped := q.WithOwner(7)
		owner, ok := scoped.OwnerID()
		assert.True(t, ok)
		assert.Equal(t, int64(7), owner)
		_, stillUnscoped := q.OwnerID()
		assert.False(t, stillUnscoped)
	})
}

func TestResults(t *testing.T) {
	b := PageBounds{Page: 1, Size: 3}

	page := NewPageResult([]int{4, 5, 6}, b, 10)
	assert.Equal(t, int64(10), page.TotalElements)
	assert.Equal(t, 4, page.TotalPages)

	empty := NewPageResult[int](nil, b, 0)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)

	assert.Equal(t, 4, b.SliceLimit())
	more := NewSliceResult([]int{4, 5, 6, 7}, b)
	assert.True(t, more.HasNext)
	assert.Equal(t, []int{4, 5, 6}, more.Items)

	last := NewSliceResult([]int{4, 5, 6}, b)
	assert.False(t, last.HasNext)
	assert.Len(t, last.Items, 3)

	doubled := MapItems([]int{1, 2}, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4}, doubled)
}
