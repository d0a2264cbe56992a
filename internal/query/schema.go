package query

import (
	"fmt"
	"sort"
	"strings"

	"catalog/internal/domain"
)

// FilterKind is a bit set of the optional filters an entity accepts.
type FilterKind uint8

const (
	FilterName FilterKind = 1 << iota
	FilterPriceRange
	FilterCategory
)

// Schema is the fixed sort/filter vocabulary of one listable entity. It maps every
// allowed sort field to the SQL expression the repository orders by, so a field name that
// is not in the map can never reach a query. A Schema is immutable after NewSchema.
type Schema struct {
	entity  string
	columns map[string]string
	aliases map[string]string
	filters FilterKind
	byID    SortOrder
}

// NewSchema copies columns and aliases. columns must contain "id", the default sort field.
func NewSchema(entity string, columns, aliases map[string]string, filters FilterKind) *Schema {
	if _, ok := columns["id"]; !ok {
		panic(fmt.Sprintf("query: schema %q has no id column", entity))
	}
	s := &Schema{
		entity:  entity,
		columns: make(map[string]string, len(columns)),
		aliases: make(map[string]string, len(aliases)),
		filters: filters,
		byID:    SortOrder{Field: "id", Direction: Asc},
	}
	for k, v := range columns {
		s.columns[k] = v
	}
	for k, v := range aliases {
		s.aliases[k] = v
	}
	return s
}

func (s *Schema) Entity() string { return s.entity }

// Normalize maps an alias to the canonical field name; unknown names pass through.
func (s *Schema) Normalize(field string) string {
	if canonical, ok := s.aliases[field]; ok {
		return canonical
	}
	return field
}

// IsAllowed reports whether a normalized field may be sorted on.
func (s *Schema) IsAllowed(field string) bool {
	_, ok := s.columns[field]
	return ok
}

// Column returns the SQL expression for a normalized, allowed field.
func (s *Schema) Column(field string) (string, bool) {
	col, ok := s.columns[field]
	return col, ok
}

// Supports reports whether the entity accepts filter kind k.
func (s *Schema) Supports(k FilterKind) bool {
	return s.filters&k == k
}

// Fields lists the allowed sort fields in lexical order.
func (s *Schema) Fields() []string {
	out := make([]string, 0, len(s.columns))
	for k := range s.columns {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultSort is the spec used when the client sends no sort: id ascending.
func (s *Schema) DefaultSort() SortSpec {
	return NewSortSpec(s.byID)
}

// ResolveSort validates raw tokens against the whitelist. The first disallowed field or
// unknown direction fails the whole spec; no partial sort is returned.
func (s *Schema) ResolveSort(tokens []SortToken) (SortSpec, error) {
	if len(tokens) == 0 {
		return s.DefaultSort(), nil
	}
	orders := make([]SortOrder, 0, len(tokens))
	for _, tok := range tokens {
		field := s.Normalize(tok.Field)
		if !s.IsAllowed(field) {
			return SortSpec{}, domain.ValidationError{
				Field: "sort",
				Msg: fmt.Sprintf("sort field %q is not allowed; allowed fields: %s",
					tok.Field, strings.Join(s.Fields(), ", ")),
			}
		}
		dir := Asc
		if tok.Direction != "" {
			d, ok := parseDirection(tok.Direction)
			if !ok {
				return SortSpec{}, domain.ValidationError{
					Field: "sort",
					Msg:   fmt.Sprintf("sort direction %q for field %q must be asc or desc", tok.Direction, tok.Field),
				}
			}
			dir = d
		}
		orders = append(orders, SortOrder{Field: field, Direction: dir})
	}
	return SortSpec{orders: orders}, nil
}
