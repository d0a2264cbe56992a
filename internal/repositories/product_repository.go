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

var productListing = listingSQL{
	selectSQL: `SELECT p.id, p.name, COALESCE(p.description, ''), p.price, p.stock, p.created_at, p.updated_at,
		u.id, u.name, u.email
		FROM products p
		JOIN users u ON u.id = p.user_id`,
	countSQL: `SELECT COUNT(*) FROM products p JOIN users u ON u.id = p.user_id`,
	scope: listingScope{
		ownerColumn:      "p.user_id",
		categoryMatchSQL: "EXISTS (SELECT 1 FROM product_categories fpc WHERE fpc.product_id = p.id AND fpc.category_id = ?)",
	},
}

type ProductRepository struct {
	DB *sql.DB
}

func (r ProductRepository) db() *sql.DB {
	return dbOrDefault(r.DB)
}

func scanProduct(rows *sql.Rows) (models.Product, error) {
	var p models.Product
	err := rows.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
		&p.Owner.ID, &p.Owner.Name, &p.Owner.Email,
	)
	return p, err
}

// FindPage returns one counted page of products with their categories.
func (r ProductRepository) FindPage(ctx context.Context, q query.ListingQuery) ([]models.Product, int64, error) {
	items, total, err := fetchPage(ctx, r.db(), query.ProductSchema, productListing, q, scanProduct)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachCategories(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindSlice returns up to Size+1 products; see query.NewSliceResult.
func (r ProductRepository) FindSlice(ctx context.Context, q query.ListingQuery) ([]models.Product, error) {
	items, err := fetchSlice(ctx, r.db(), query.ProductSchema, productListing, q, scanProduct)
	if err != nil {
		return nil, err
	}
	if err := r.attachCategories(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll returns every product matching the filter and sort of q, unpaged.
func (r ProductRepository) FindAll(ctx context.Context, q query.ListingQuery) ([]models.Product, error) {
	items, err := fetchAll(ctx, r.db(), query.ProductSchema, productListing, q, scanProduct)
	if err != nil {
		return nil, err
	}
	if err := r.attachCategories(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r ProductRepository) GetByID(ctx context.Context, id int64) (models.Product, error) {
	items, err := queryAll(ctx, r.db(), productListing.selectSQL+" WHERE p.id = ?", []any{id}, scanProduct)
	if err != nil {
		return models.Product{}, err
	}
	if len(items) == 0 {
		return models.Product{}, domain.NotFoundError{Resource: "product", ID: id}
	}
	if err := r.attachCategories(ctx, items); err != nil {
		return models.Product{}, err
	}
	return items[0], nil
}

// OwnerID returns the user_id of a product, or NotFoundError.
func (r ProductRepository) OwnerID(ctx context.Context, id int64) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, internalErr("database not connected", nil)
	}
	var owner int64
	err := db.QueryRowContext(ctx, `SELECT user_id FROM products WHERE id = ?`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFoundError{Resource: "product", ID: id}
	}
	if err != nil {
		return 0, internalErr("load product owner", err)
	}
	return owner, nil
}

// NameTaken reports whether another product (id != excludeID) already uses name.
func (r ProductRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	db := r.db()
	if db == nil {
		return false, internalErr("database not connected", nil)
	}
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE LOWER(name) = LOWER(?) AND id <> ?`,
		strings.TrimSpace(name), excludeID,
	).Scan(&n)
	if err != nil {
		return false, internalErr("check product name", err)
	}
	return n > 0, nil
}

func (r ProductRepository) Create(ctx context.Context, ownerID int64, in models.CreateProductInput) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, internalErr("database not connected", nil)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, internalErr("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO products (name, description, price, stock, user_id) VALUES (?, ?, ?, ?, ?)`,
		in.Name, intdb.NullIfEmpty(in.Description), in.Price, in.Stock, ownerID,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, domain.ConflictError{Resource: "product", Msg: "name already exists", Err: err}
		}
		return 0, internalErr("insert product", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, internalErr("insert product id", err)
	}
	if err := replaceProductCategories(ctx, tx, id, in.CategoryIDs); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, internalErr("commit product", err)
	}
	return id, nil
}

// Update rewrites every column and replaces the category links. MySQL reports zero
// affected rows for an unchanged row, so existence is the caller's check.
func (r ProductRepository) Update(ctx context.Context, id int64, in models.UpdateProductInput) error {
	db := r.db()
	if db == nil {
		return internalErr("database not connected", nil)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return internalErr("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ?, stock = ? WHERE id = ?`,
		in.Name, intdb.NullIfEmpty(in.Description), in.Price, in.Stock, id,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ConflictError{Resource: "product", Msg: "name already exists", Err: err}
		}
		return internalErr("update product", err)
	}
	if err := replaceProductCategories(ctx, tx, id, in.CategoryIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return internalErr("commit product", err)
	}
	return nil
}

// Patch updates only the present fields. Like Update, it does not check existence.
func (r ProductRepository) Patch(ctx context.Context, id int64, in models.PatchProductInput) error {
	sets := []string{}
	args := []any{}
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*in.Name))
	}
	if in.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, intdb.NullIfEmpty(strings.TrimSpace(*in.Description)))
	}
	if in.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *in.Price)
	}
	if in.Stock != nil {
		sets = append(sets, "stock = ?")
		args = append(args, *in.Stock)
	}
	if len(sets) == 0 {
		return nil
	}

	db := r.db()
	if db == nil {
		return internalErr("database not connected", nil)
	}
	args = append(args, id)
	if _, err := db.ExecContext(ctx, `UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		if isDuplicateEntry(err) {
			return domain.ConflictError{Resource: "product", Msg: "name already exists", Err: err}
		}
		return internalErr("patch product", err)
	}
	return nil
}

func (r ProductRepository) Delete(ctx context.Context, id int64) error {
	db := r.db()
	if db == nil {
		return internalErr("database not connected", nil)
	}
	res, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return internalErr("delete product", err)
	}
	return requireAffected(res, "product", id)
}

// attachCategories loads the categories of every product in one query.
func (r ProductRepository) attachCategories(ctx context.Context, items []models.Product) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]any, 0, len(items))
	index := make(map[int64]int, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
		index[items[i].ID] = i
		items[i].Categories = []models.Category{}
	}

	type link struct {
		productID int64
		category  models.Category
	}
	links, err := queryAll(ctx, r.db(),
		`SELECT pc.product_id, c.id, c.name, COALESCE(c.description, ''), c.created_at, c.updated_at
		FROM product_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id IN (`+placeholders(len(ids))+`)
		ORDER BY c.name ASC, c.id ASC`,
		ids,
		func(rows *sql.Rows) (link, error) {
			var l link
			err := rows.Scan(&l.productID, &l.category.ID, &l.category.Name, &l.category.Description,
				&l.category.CreatedAt, &l.category.UpdatedAt)
			return l, err
		},
	)
	if err != nil {
		return err
	}
	for _, l := range links {
		if i, ok := index[l.productID]; ok {
			items[i].Categories = append(items[i].Categories, l.category)
		}
	}
	return nil
}

func replaceProductCategories(ctx context.Context, tx *sql.Tx, productID int64, categoryIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = ?`, productID); err != nil {
		return internalErr("clear product categories", err)
	}
	seen := map[int64]bool{}
	for _, cid := range categoryIDs {
		if seen[cid] {
			continue
		}
		seen[cid] = true
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES (?, ?)`, productID, cid,
		); err != nil {
			return internalErr("link product category", err)
		}
	}
	return nil
}

func requireAffected(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return internalErr("rows affected", err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
