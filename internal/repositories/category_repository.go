package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intdb "catalog/internal/db"
	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/query"
)

var categoryListing = listingSQL{
	selectSQL: `SELECT c.id, c.name, COALESCE(c.description, ''), c.created_at, c.updated_at FROM categories c`,
	countSQL:  `SELECT COUNT(*) FROM categories c`,
}

type CategoryRepository struct {
	DB *sql.DB
}

func (r CategoryRepository) db() *sql.DB {
	return dbOrDefault(r.DB)
}

func scanCategory(rows *sql.Rows) (models.Category, error) {
	var c models.Category
	err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r CategoryRepository) FindPage(ctx context.Context, q query.ListingQuery) ([]models.Category, int64, error) {
	return fetchPage(ctx, r.db(), query.CategorySchema, categoryListing, q, scanCategory)
}

func (r CategoryRepository) FindSlice(ctx context.Context, q query.ListingQuery) ([]models.Category, error) {
	return fetchSlice(ctx, r.db(), query.CategorySchema, categoryListing, q, scanCategory)
}

func (r CategoryRepository) GetByID(ctx context.Context, id int64) (models.Category, error) {
	items, err := queryAll(ctx, r.db(), categoryListing.selectSQL+" WHERE c.id = ?", []any{id}, scanCategory)
	if err != nil {
		return models.Category{}, err
	}
	if len(items) == 0 {
		return models.Category{}, domain.NotFoundError{Resource: "category", ID: id}
	}
	return items[0], nil
}

func (r CategoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db(), "categories", id)
}

// CountExisting returns how many of ids are present. Duplicates in ids are counted once.
func (r CategoryRepository) CountExisting(ctx context.Context, ids []int64) (int, error) {
	uniq := uniqueIDs(ids)
	if len(uniq) == 0 {
		return 0, nil
	}
	db := r.db()
	if db == nil {
		return 0, internalErr("database not connected", nil)
	}
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE id IN (`+placeholders(len(uniq))+`)`, uniq...,
	).Scan(&n)
	if err != nil {
		return 0, internalErr("count categories", err)
	}
	return n, nil
}

// CountProducts returns the number of products linked to a category.
func (r CategoryRepository) CountProducts(ctx context.Context, id int64) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, internalErr("database not connected", nil)
	}
	var n int64
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product_categories WHERE category_id = ?`, id,
	).Scan(&n); err != nil {
		return 0, internalErr("count category products", err)
	}
	return n, nil
}

func (r CategoryRepository) Create(ctx context.Context, in models.CategoryInput) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, internalErr("database not connected", nil)
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		strings.TrimSpace(in.Name), intdb.NullIfEmpty(strings.TrimSpace(in.Description)),
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, domain.ConflictError{Resource: "category", Msg: "name already exists", Err: err}
		}
		return 0, internalErr("insert category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, internalErr("insert category id", err)
	}
	return id, nil
}

// Update does not check existence; see ProductRepository.Update.
func (r CategoryRepository) Update(ctx context.Context, id int64, in models.CategoryInput) error {
	db := r.db()
	if db == nil {
		return internalErr("database not connected", nil)
	}
	_, err := db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		strings.TrimSpace(in.Name), intdb.NullIfEmpty(strings.TrimSpace(in.Description)), id,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ConflictError{Resource: "category", Msg: "name already exists", Err: err}
		}
		return internalErr("update category", err)
	}
	return nil
}

func (r CategoryRepository) Delete(ctx context.Context, id int64) error {
	db := r.db()
	if db == nil {
		return internalErr("database not connected", nil)
	}
	res, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return internalErr("delete category", err)
	}
	return requireAffected(res, "category", id)
}

func existsByID(ctx context.Context, db *sql.DB, table string, id int64) (bool, error) {
	if db == nil {
		return false, internalErr("database not connected", nil)
	}
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ? LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, internalErr("check "+table+" id", err)
	}
	return true, nil
}

func uniqueIDs(ids []int64) []any {
	seen := make(map[int64]bool, len(ids))
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
