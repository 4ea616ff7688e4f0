package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"trading_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength is the minimum accepted password length.
	minPasswordLength = 8

	// TokenType is the scheme reported alongside issued tokens.
	TokenType = "bearer"
)

// usernameRe restricts usernames to letters, digits and underscores.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// dummyBcryptHash is compared against when the email is unknown so the
// login path does the same amount of work either way.
const dummyBcryptHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts persistence for user records.
// Per Go convention the interface is defined by the consumer (usecase),
// not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. It returns ErrEmailTaken or
	// ErrUsernameTaken when the folded identity already exists.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a user by lower-cased email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves a user by id.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// UpdateLastLogin stamps the user's last_login column.
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error

	// Deactivate flips is_active to false. Soft delete; the row stays.
	Deactivate(ctx context.Context, id uint) error
}

// TokenIssuer mints signed bearer tokens.
type TokenIssuer interface {
	Generate(userID uint, email string) (string, error)
	TTL() time.Duration
}

// Token is the result of a successful login or refresh.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
	User        *entity.User
}

// authUsecase implements the credential and token service.
type authUsecase struct {
	users  UserRepository
	issuer TokenIssuer
}

// NewAuthUsecase creates the auth service with its dependencies injected.
func NewAuthUsecase(users UserRepository, issuer TokenIssuer) *authUsecase {
	return &authUsecase{users: users, issuer: issuer}
}

// validatePassword enforces length >= 8, at least one letter and one digit.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, minPasswordLength)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("%w: password must contain at least one letter", ErrValidation)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one number", ErrValidation)
	}
	return nil
}

// validateUsername enforces the allowed charset. Length bounds are already
// checked by request binding.
func validateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username can only contain letters, numbers, and underscores", ErrValidation)
	}
	return nil
}

// Signup registers a new user with a hashed password. Email and username
// are case-folded before the uniqueness check and storage.
func (u *authUsecase) Signup(ctx context.Context, email, username, fullName, password string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.ToLower(strings.TrimSpace(username))

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:          email,
		Username:       username,
		FullName:       fullName,
		HashedPassword: string(hashed),
		IsActive:       true,
		IsVerified:     false,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and issues a bearer token. Unknown email and
// wrong password both return ErrInvalidCredentials; bcrypt runs against a
// dummy hash when the user is missing so timing stays flat. The
// deactivation check only happens after the password matched.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*Token, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, findErr := u.users.FindByEmail(ctx, email)

	passwordHash := dummyBcryptHash
	if findErr == nil {
		passwordHash = user.HashedPassword
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if findErr != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	return u.issueToken(ctx, user)
}

// Refresh re-issues a token for an already authenticated user. Previously
// issued tokens stay valid until their own expiry; there is no revocation.
func (u *authUsecase) Refresh(ctx context.Context, userID uint) (*Token, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.issueToken(ctx, user)
}

// Deactivate soft-deletes the user's own account.
func (u *authUsecase) Deactivate(ctx context.Context, userID uint) error {
	return u.users.Deactivate(ctx, userID)
}

// issueToken mints a token and stamps last_login.
func (u *authUsecase) issueToken(ctx context.Context, user *entity.User) (*Token, error) {
	now := time.Now().UTC()
	if err := u.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	signed, err := u.issuer.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Token{
		AccessToken: signed,
		TokenType:   TokenType,
		ExpiresIn:   int(u.issuer.TTL().Seconds()),
		User:        user,
	}, nil
}
