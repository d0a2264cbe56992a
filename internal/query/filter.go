package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"catalog/internal/domain"
)

// FilterInput holds the optional filter parameters. nil means "not sent". Raw carries
// query-string values that are parsed only after bounds and sort have been checked; a
// typed field, when set, wins over its raw counterpart.
type FilterInput struct {
	Name       string
	MinPrice   *float64
	MaxPrice   *float64
	CategoryID *int64
	Raw        RawFilter
}

// RawFilter is the unparsed numeric filter text from a request. Blank means "not sent".
type RawFilter struct {
	MinPrice   string
	MaxPrice   string
	CategoryID string
}

// resolve parses the raw values into the typed fields that are still unset.
func (in FilterInput) resolve() (FilterInput, error) {
	var err error
	if in.MinPrice == nil {
		if in.MinPrice, err = parsePrice("minPrice", in.Raw.MinPrice); err != nil {
			return in, err
		}
	}
	if in.MaxPrice == nil {
		if in.MaxPrice, err = parsePrice("maxPrice", in.Raw.MaxPrice); err != nil {
			return in, err
		}
	}
	if in.CategoryID == nil {
		if raw := strings.TrimSpace(in.Raw.CategoryID); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return in, domain.ValidationError{Field: "categoryId", Msg: "categoryId must be an integer"}
			}
			in.CategoryID = &id
		}
	}
	in.Raw = RawFilter{}
	return in, nil
}

func parsePrice(param, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.ValidationError{Field: param, Msg: param + " must be a number"}
	}
	return &v, nil
}

// FilterSpec is the validated filter. Fields are only reachable through accessors.
type FilterSpec struct {
	name       string
	minPrice   float64
	maxPrice   float64
	categoryID int64
	hasMin     bool
	hasMax     bool
	hasCat     bool
}

// Name is the trimmed substring to match case-insensitively.
func (f FilterSpec) Name() (string, bool) { return f.name, f.name != "" }

func (f FilterSpec) MinPrice() (float64, bool) { return f.minPrice, f.hasMin }

func (f FilterSpec) MaxPrice() (float64, bool) { return f.maxPrice, f.hasMax }

func (f FilterSpec) CategoryID() (int64, bool) { return f.categoryID, f.hasCat }

// IsEmpty reports whether no filter is active.
func (f FilterSpec) IsEmpty() bool {
	return f.name == "" && !f.hasMin && !f.hasMax && !f.hasCat
}

// BuildFilter validates in against the filters schema s declares.
func BuildFilter(s *Schema, in FilterInput) (FilterSpec, error) {
	in, err := in.resolve()
	if err != nil {
		return FilterSpec{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name != "" && !s.Supports(FilterName) {
		return FilterSpec{}, unsupported("name", s)
	}
	if (in.MinPrice != nil || in.MaxPrice != nil) && !s.Supports(FilterPriceRange) {
		param := "minPrice"
		if in.MinPrice == nil {
			param = "maxPrice"
		}
		return FilterSpec{}, unsupported(param, s)
	}
	if in.CategoryID != nil && !s.Supports(FilterCategory) {
		return FilterSpec{}, unsupported("categoryId", s)
	}

	f := FilterSpec{name: name}
	if in.MinPrice != nil {
		if *in.MinPrice < 0 {
			return FilterSpec{}, domain.ValidationError{Field: "minPrice", Msg: "minPrice must be >= 0"}
		}
		f.minPrice, f.hasMin = *in.MinPrice, true
	}
	if in.MaxPrice != nil {
		if *in.MaxPrice < 0 {
			return FilterSpec{}, domain.ValidationError{Field: "maxPrice", Msg: "maxPrice must be >= 0"}
		}
		f.maxPrice, f.hasMax = *in.MaxPrice, true
	}
	if f.hasMin && f.hasMax && f.maxPrice < f.minPrice {
		return FilterSpec{}, domain.ValidationError{Field: "maxPrice", Msg: "maxPrice must be >= minPrice"}
	}
	if in.CategoryID != nil {
		if *in.CategoryID <= 0 {
			return FilterSpec{}, domain.ValidationError{Field: "categoryId", Msg: "categoryId must be a positive id"}
		}
		f.categoryID, f.hasCat = *in.CategoryID, true
	}
	return f, nil
}

func unsupported(param string, s *Schema) error {
	return domain.ValidationError{
		Field: param,
		Msg:   fmt.Sprintf("filter %q is not supported for %s listings", param, s.Entity()),
	}
}
