package query

import (
	"strings"
)

// Direction is the normalized ordering keyword.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SortOrder is one whitelisted (field, direction) pair.
type SortOrder struct {
	Field     string
	Direction Direction
}

// SortToken is a raw (field, direction) pair as received from the client. Direction is
// empty when the client did not send one.
type SortToken struct {
	Field     string
	Direction string
}

// SortSpec is an ordered, read-only list of sort orders. Earlier entries take precedence.
type SortSpec struct {
	orders []SortOrder
}

// NewSortSpec copies orders so later mutation of the argument cannot leak in.
func NewSortSpec(orders ...SortOrder) SortSpec {
	cp := make([]SortOrder, len(orders))
	copy(cp, orders)
	return SortSpec{orders: cp}
}

// Orders returns a copy of the sort orders.
func (s SortSpec) Orders() []SortOrder {
	cp := make([]SortOrder, len(s.orders))
	copy(cp, s.orders)
	return cp
}

func (s SortSpec) Len() int { return len(s.orders) }

// String renders the spec as "field,dir;field,dir" for logs.
func (s SortSpec) String() string {
	parts := make([]string, 0, len(s.orders))
	for _, o := range s.orders {
		parts = append(parts, o.Field+","+strings.ToLower(string(o.Direction)))
	}
	return strings.Join(parts, ";")
}

// ParseSortTokens turns the bound `sort` query values into raw sort tokens.
//
// A query string like `sort=price,desc` can reach the handler either as the single value
// "price,desc" or, when the binder splits on commas, as ["price", "desc"]. A two-element
// array whose second element is a direction keyword is therefore read as one sort.
// Everything else is parsed token by token as "field[,direction]".
func ParseSortTokens(tokens []string) []SortToken {
	if len(tokens) == 2 && isDirectionKeyword(tokens[1]) {
		return []SortToken{{
			Field:     strings.TrimSpace(tokens[0]),
			Direction: strings.TrimSpace(tokens[1]),
		}}
	}

	out := make([]SortToken, 0, len(tokens))
	for _, raw := range tokens {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		field, dir, _ := strings.Cut(raw, ",")
		out = append(out, SortToken{
			Field:     strings.TrimSpace(field),
			Direction: strings.TrimSpace(dir),
		})
	}
	return out
}

func isDirectionKeyword(s string) bool {
	_, ok := parseDirection(s)
	return ok
}

func parseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	default:
		return "", false
	}
}
