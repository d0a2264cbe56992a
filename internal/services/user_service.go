package services

import (
	"context"
	"fmt"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/query"
	"catalog/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	ListSource[models.User]
	ExistenceChecker
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u models.User) (int64, error)
	Update(ctx context.Context, u models.User) error
	Delete(ctx context.Context, id int64) error
}

type UserService struct {
	Users     UserStore
	RequestID string
}

var userFactory = query.NewFactory(query.UserSchema)

func (s UserService) Page(ctx context.Context, p query.ListingParams) (query.PageResult[models.PublicUser], error) {
	q, err := userFactory.Build(p)
	if err != nil {
		return query.PageResult[models.PublicUser]{}, err
	}
	return Lister[models.User, models.PublicUser]{Source: s.Users, Map: models.User.ToPublic}.Page(ctx, q)
}

func (s UserService) Get(ctx context.Context, id int64) (models.PublicUser, error) {
	if err := requirePositiveID("id", id); err != nil {
		return models.PublicUser{}, err
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return u.ToPublic(), nil
}

// Create registers a user with the default role.
func (s UserService) Create(ctx context.Context, in models.CreateUserInput) (models.PublicUser, error) {
	u, err := newUser(in.Name, in.Email, in.Password)
	if err != nil {
		return models.PublicUser{}, err
	}
	if err := s.ensureEmailFree(ctx, u.Email, 0); err != nil {
		return models.PublicUser{}, err
	}
	id, err := s.Users.Create(ctx, u)
	if err != nil {
		return models.PublicUser{}, err
	}
	utils.LogEvent(s.RequestID, "users", "create", fmt.Sprintf("user_id=%d", id))
	return s.Get(ctx, id)
}

// Update replaces name, email and password. The caller may only update themself unless
// they are an admin.
func (s UserService) Update(ctx context.Context, rc domain.RequestContext, id int64, in models.UpdateUserInput) (models.PublicUser, error) {
	name, email, password := in.Name, in.Email, in.Password
	return s.apply(ctx, rc, id, &name, &email, &password)
}

func (s UserService) Patch(ctx context.Context, rc domain.RequestContext, id int64, in models.PatchUserInput) (models.PublicUser, error) {
	return s.apply(ctx, rc, id, in.Name, in.Email, in.Password)
}

func (s UserService) Delete(ctx context.Context, id int64) error {
	if err := requirePositiveID("id", id); err != nil {
		return err
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "users", "delete", fmt.Sprintf("user_id=%d", id))
	return nil
}

func (s UserService) apply(ctx context.Context, rc domain.RequestContext, id int64, name, email, password *string) (models.PublicUser, error) {
	if err := requirePositiveID("id", id); err != nil {
		return models.PublicUser{}, err
	}
	if rc.UserID != id && rc.Role != domain.RoleAdmin {
		return models.PublicUser{}, domain.ForbiddenError{Msg: "you can only modify your own account"}
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	if name != nil {
		u.Name = utils.NormalizeSpace(*name)
		if err := requireLength("name", u.Name, 3, 150); err != nil {
			return models.PublicUser{}, err
		}
	}
	if email != nil {
		normalized, err := requireEmail(*email)
		if err != nil {
			return models.PublicUser{}, err
		}
		if normalized != u.Email {
			if err := s.ensureEmailFree(ctx, normalized, id); err != nil {
				return models.PublicUser{}, err
			}
		}
		u.Email = normalized
	}
	if password != nil {
		hash, err := hashPassword(*password)
		if err != nil {
			return models.PublicUser{}, err
		}
		u.PasswordHash = hash
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return models.PublicUser{}, err
	}
	utils.LogEvent(s.RequestID, "users", "update", fmt.Sprintf("user_id=%d", id))
	return s.Get(ctx, id)
}

func (s UserService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.Users.GetByEmail(ctx, email)
	if domain.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}
	return nil
}

func newUser(name, email, password string) (models.User, error) {
	name = utils.NormalizeSpace(name)
	if err := requireLength("name", name, 3, 150); err != nil {
		return models.User{}, err
	}
	normalized, err := requireEmail(email)
	if err != nil {
		return models.User{}, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return models.User{Name: name, Email: normalized, PasswordHash: hash, Role: domain.RoleUser}, nil
}

func hashPassword(password string) (string, error) {
	if err := requirePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.InternalError{Msg: "hash password", Err: err}
	}
	return string(hash), nil
}
