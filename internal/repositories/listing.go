package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "catalog/internal/config"
	"catalog/internal/domain"
	"catalog/internal/query"

	"github.com/go-sql-driver/mysql"
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
)

type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// listingScope is the per-entity SQL a listing needs beyond the schema columns.
type listingScope struct {
	ownerColumn      string
	categoryMatchSQL string
}

// buildWhere turns the validated filter into predicates. Every value is a bind argument;
// column expressions only come from the schema.
func buildWhere(s *query.Schema, q query.ListingQuery, scope listingScope) (whereClause, error) {
	var w whereClause
	f := q.Filter()

	if name, ok := f.Name(); ok {
		col, found := s.Column("name")
		if !found {
			return w, domain.InternalError{Msg: "name filter has no column for " + s.Entity()}
		}
		w.add("LOWER("+col+") LIKE ?", "%"+escapeLike(strings.ToLower(name))+"%")
	}
	if lo, ok := f.MinPrice(); ok {
		col, found := s.Column("price")
		if !found {
			return w, domain.InternalError{Msg: "price filter has no column for " + s.Entity()}
		}
		w.add(col+" >= ?", lo)
	}
	if hi, ok := f.MaxPrice(); ok {
		col, found := s.Column("price")
		if !found {
			return w, domain.InternalError{Msg: "price filter has no column for " + s.Entity()}
		}
		w.add(col+" <= ?", hi)
	}
	if cat, ok := f.CategoryID(); ok {
		if scope.categoryMatchSQL == "" {
			return w, domain.InternalError{Msg: "category filter has no predicate for " + s.Entity()}
		}
		w.add(scope.categoryMatchSQL, cat)
	}
	if owner, ok := q.OwnerID(); ok {
		if scope.ownerColumn == "" {
			return w, domain.InternalError{Msg: "owner scope has no column for " + s.Entity()}
		}
		w.add(scope.ownerColumn+" = ?", owner)
	}
	return w, nil
}

// buildOrderBy renders the sort spec in order and appends the id column as a final tie
// breaker so page boundaries are stable.
func buildOrderBy(s *query.Schema, spec query.SortSpec) (string, error) {
	orders := spec.Orders()
	parts := make([]string, 0, len(orders)+1)
	hasID := false
	for _, o := range orders {
		col, ok := s.Column(o.Field)
		if !ok {
			return "", domain.InternalError{Msg: fmt.Sprintf("sort field %q has no column", o.Field)}
		}
		if o.Field == "id" {
			hasID = true
		}
		parts = append(parts, col+" "+string(o.Direction))
	}
	if !hasID {
		idCol, _ := s.Column("id")
		parts = append(parts, idCol+" ASC")
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func dbOrDefault(db *sql.DB) *sql.DB {
	if db != nil {
		return db
	}
	return intconfig.DB
}

func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

func isDuplicateEntry(err error) bool {
	return isMySQLError(err, mysqlDuplicateEntry)
}

func internalErr(msg string, err error) error {
	return domain.InternalError{Msg: msg, Err: err}
}

// listingSQL is the fixed SQL of one listable entity.
type listingSQL struct {
	selectSQL string
	countSQL  string
	scope     listingScope
}

func (l listingSQL) rowsQuery(s *query.Schema, q query.ListingQuery) (string, []any, error) {
	where, err := buildWhere(s, q, l.scope)
	if err != nil {
		return "", nil, err
	}
	orderBy, err := buildOrderBy(s, q.Sort())
	if err != nil {
		return "", nil, err
	}
	return l.selectSQL + where.String() + orderBy, where.args, nil
}

// fetchPage returns one page of rows and the total count. The count query is skipped when
// the page itself proves the total: a short page that is first or non-empty.
func fetchPage[T any](ctx context.Context, db *sql.DB, s *query.Schema, l listingSQL, q query.ListingQuery, scan func(*sql.Rows) (T, error)) ([]T, int64, error) {
	b := q.Bounds()
	stmt, args, err := l.rowsQuery(s, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := queryAll(ctx, db, stmt+" LIMIT ? OFFSET ?", append(args, b.Size, b.Offset()), scan)
	if err != nil {
		return nil, 0, err
	}
	if len(items) < b.Size && (b.Offset() == 0 || len(items) > 0) {
		return items, int64(b.Offset() + len(items)), nil
	}

	where, err := buildWhere(s, q, l.scope)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := db.QueryRowContext(ctx, l.countSQL+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, internalErr("count "+s.Entity()+" listing", err)
	}
	return items, total, nil
}

// fetchSlice returns up to Size+1 rows; the extra row only signals that a next page exists.
func fetchSlice[T any](ctx context.Context, db *sql.DB, s *query.Schema, l listingSQL, q query.ListingQuery, scan func(*sql.Rows) (T, error)) ([]T, error) {
	b := q.Bounds()
	stmt, args, err := l.rowsQuery(s, q)
	if err != nil {
		return nil, err
	}
	return queryAll(ctx, db, stmt+" LIMIT ? OFFSET ?", append(args, b.SliceLimit(), b.Offset()), scan)
}

// fetchAll ignores the bounds of q and returns every matching row.
func fetchAll[T any](ctx context.Context, db *sql.DB, s *query.Schema, l listingSQL, q query.ListingQuery, scan func(*sql.Rows) (T, error)) ([]T, error) {
	stmt, args, err := l.rowsQuery(s, q)
	if err != nil {
		return nil, err
	}
	return queryAll(ctx, db, stmt, args, scan)
}

func queryAll[T any](ctx context.Context, db *sql.DB, stmt string, args []any, scan func(*sql.Rows) (T, error)) ([]T, error) {
	if db == nil {
		return nil, internalErr("database not connected", nil)
	}
	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, internalErr("query failed", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, internalErr("scan failed", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, internalErr("rows failed", err)
	}
	return out, nil
}
