package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"campus-connect-api/internal/model"
	"campus-connect-api/internal/token"
	"campus-connect-api/pkg/apierror"
)

const bcryptCost = 12

// UserStore is the durable credential store contract the service needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

// AuthService orchestrates signup, login and token verification. It holds no
// session state: the token itself is the session.
type AuthService struct {
	users         UserStore
	tokens        *token.Issuer
	campusDomains []string
}

func NewAuthService(users UserStore, tokens *token.Issuer, campusDomains []string) *AuthService {
	domains := make([]string, 0, len(campusDomains))
	for _, d := range campusDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains = append(domains, d)
		}
	}

	return &AuthService{users: users, tokens: tokens, campusDomains: domains}
}

// Signup creates an account and immediately issues a token for it.
func (s *AuthService) Signup(ctx context.Context, name string, email string, password string, role string) (model.AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return model.AuthResult{}, apierror.New("BAD_REQUEST", "name is required", "name", http.StatusBadRequest)
	}
	if password == "" {
		return model.AuthResult{}, apierror.New("BAD_REQUEST", "password is required", "password", http.StatusBadRequest)
	}

	parsedRole, err := model.ParseRole(role)
	if err != nil {
		return model.AuthResult{}, apierror.New("BAD_REQUEST", "role must be student, teacher or society", role, http.StatusBadRequest)
	}

	if err := s.validateEmailForRole(email, parsedRole); err != nil {
		return model.AuthResult{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("check existing account: %w", err)
	}
	if exists {
		return model.AuthResult{}, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         parsedRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The store enforces email uniqueness at insert time; a duplicate here
	// means another signup won the race between the pre-check and the insert.
	if err := s.users.Create(ctx, user); err != nil {
		return model.AuthResult{}, err
	}

	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	return model.AuthResult{User: user.Profile(), Token: signed}, nil
}

// Login verifies credentials and issues a token carrying the stored role.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return model.AuthResult{}, apierror.New("BAD_REQUEST", "email and password are required", "", http.StatusBadRequest)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.AuthResult{}, model.ErrInvalidCredentials
		}
		return model.AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.AuthResult{}, model.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	return model.AuthResult{User: user.Profile(), Token: signed}, nil
}

// Verify validates the token and resolves its subject to the current account
// record, so role changes made after issuance are observed.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (model.Profile, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return model.Profile{}, err
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return model.Profile{}, err
	}

	return user.Profile(), nil
}

// UserByID returns the public profile for an already-authenticated subject.
func (s *AuthService) UserByID(ctx context.Context, id string) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.Profile{}, err
	}

	return user.Profile(), nil
}

func (s *AuthService) validateEmailForRole(email string, role model.Role) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apierror.New("BAD_REQUEST", "a valid email address is required", "email", http.StatusBadRequest)
	}

	if !role.RequiresCampusEmail() || len(s.campusDomains) == 0 {
		return nil
	}

	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	for _, allowed := range s.campusDomains {
		if domain == allowed {
			return nil
		}
	}

	return apierror.New("BAD_REQUEST",
		fmt.Sprintf("%s accounts must sign up with a campus email address", role),
		"email", http.StatusBadRequest)
}
