package services

import (
	"context"
	"fmt"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type TokenIssuer interface {
	Issue(userID int64, email, role string) (string, error)
}

type AuthResponse struct {
	Token     string            `json:"token"`
	TokenType string            `json:"tokenType"`
	User      models.PublicUser `json:"user"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService struct {
	Users     UserStore
	Tokens    TokenIssuer
	RequestID string
}

// Register creates a ROLE_USER account and signs a token for it.
func (s AuthService) Register(ctx context.Context, in models.CreateUserInput) (AuthResponse, error) {
	created, err := UserService{Users: s.Users, RequestID: s.RequestID}.Create(ctx, in)
	if err != nil {
		return AuthResponse{}, err
	}
	return s.respond(created)
}

// Login never reveals whether the email or the password was wrong.
func (s AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	email := utils.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return AuthResponse{}, domain.ValidationError{Field: "email", Msg: "email and password are required"}
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if domain.IsNotFound(err) {
		return AuthResponse{}, domain.UnauthorizedError{Msg: "invalid email or password"}
	}
	if err != nil {
		return AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResponse{}, domain.UnauthorizedError{Msg: "invalid email or password"}
	}
	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user_id=%d", u.ID))
	return s.respond(u.ToPublic())
}

func (s AuthService) respond(u models.PublicUser) (AuthResponse, error) {
	token, err := s.Tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return AuthResponse{}, domain.InternalError{Msg: "sign token", Err: err}
	}
	return AuthResponse{Token: token, TokenType: "Bearer", User: u}, nil
}
