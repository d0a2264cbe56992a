package repositories

import (
	"context"
	"database/sql"
	"strings"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/query"
)

var userListing = listingSQL{
	selectSQL: `SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at FROM users u`,
	countSQL:  `SELECT COUNT(*) FROM users u`,
}

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	return dbOrDefault(r.DB)
}

func scanUser(rows *sql.Rows) (models.User, error) {
	var u models.User
	err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r UserRepository) FindPage(ctx context.Context, q query.ListingQuery) ([]models.User, int64, error) {
	return fetchPage(ctx, r.db(), query.UserSchema, userListing, q, scanUser)
}

func (r UserRepository) FindSlice(ctx context.Context, q query.ListingQuery) ([]models.User, error) {
	return fetchSlice(ctx, r.db(), query.UserSchema, userListing, q, scanUser)
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	return r.getOne(ctx, " WHERE u.id = ?", id, domain.NotFoundError{Resource: "user", ID: id})
}

// GetByEmail matches case-insensitively.
func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, " WHERE LOWER(u.email) = LOWER(?)", strings.TrimSpace(email), domain.NotFoundError{Resource: "user"})
}

func (r UserRepository) getOne(ctx context.Context, where string, arg any, notFound error) (models.User, error) {
	items, err := queryAll(ctx, r.db(), userListing.selectSQL+where, []any{arg}, scanUser)
	if err != nil {
		return models.User{}, err
	}
	if len(items) == 0 {
		return models.User{}, notFound
	}
	return items[0], nil
}

func (r UserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db(), "users", id)
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, internalErr("database not connected", nil)
	}
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, role,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
		}
		return 0, internalErr("insert user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, internalErr("insert user id", err)
	}
	return id, nil
}

// Update writes name, email and password_hash. Existence is the caller's check.
func (r UserRepository) Update(ctx context.Context, u models.User) error {
	db := r.db()
	if db == nil {
		return internalErr("database not connected", nil)
	}
	_, err := db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ? WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, u.ID,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
		}
		return internalErr("update user", err)
	}
	return nil
}

func (r UserRepository) Delete(ctx context.Context, id int64) error {
	db := r.db()
	if db == nil {
		return internalErr("database not connected", nil)
	}
	res, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		if isMySQLError(err, mysqlRowIsReferenced) {
			return domain.ConflictError{Resource: "user", Msg: "user still owns products", Err: err}
		}
		return internalErr("delete user", err)
	}
	return requireAffected(res, "user", id)
}
