package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"taskboard/internal/auth"
	dom "taskboard/internal/domain"
	"taskboard/internal/repo"
	"taskboard/internal/utils"

	"github.com/jackc/pgx/v5"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrEmailTaken = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")

// ValidationError names the first input field that failed validation.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func invalidInput(msg string) error { return &ValidationError{msg: msg} }

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dummyHash keeps bcrypt comparison time constant when the email is unknown,
// so login latency does not reveal account existence.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserService handles registration, login and profile access.
type UserService struct {
	repo   repo.UserRepo
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
}

// NewUserService returns a new UserService.
func NewUserService(r repo.UserRepo, hasher *auth.PasswordHasher, tokens *auth.TokenService) *UserService {
	return &UserService{repo: r, hasher: hasher, tokens: tokens}
}

// Register validates and normalizes the input, stores the user with a hashed
// password and returns it with a fresh token. A duplicate email surfaces as
// ErrEmailTaken — the unique index on users.email is authoritative, so two
// concurrent registrations cannot both succeed.
func (s *UserService) Register(ctx context.Context, name, email, password string) (dom.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if len(name) < 2 {
		return dom.User{}, "", invalidInput("name must be at least 2 characters")
	}
	if !emailRe.MatchString(email) {
		return dom.User{}, "", invalidInput("email is not valid")
	}
	if len(password) < 6 {
		return dom.User{}, "", invalidInput("password must be at least 6 characters")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return dom.User{}, "", err
	}
	u, err := s.repo.Create(ctx, name, email, hash)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, "", ErrEmailTaken
		}
		return dom.User{}, "", err
	}
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return dom.User{}, "", err
	}
	return u, token, nil
}

// Login checks the credentials and returns the user with a fresh token.
// Unknown email and wrong password are indistinguishable: both return
// ErrInvalidCredentials, and the bcrypt comparison always runs.
func (s *UserService) Login(ctx context.Context, email, password string) (dom.User, string, error) {
	email = normalizeEmail(email)
	if !emailRe.MatchString(email) {
		return dom.User{}, "", invalidInput("email is not valid")
	}
	if password == "" {
		return dom.User{}, "", invalidInput("password is required")
	}

	u, lookupErr := s.repo.GetByEmail(ctx, email)
	if lookupErr != nil && !errors.Is(lookupErr, pgx.ErrNoRows) {
		return dom.User{}, "", lookupErr
	}

	hash := dummyHash
	if lookupErr == nil {
		hash = u.PasswordHash
	}
	ok := s.hasher.Verify(password, hash)
	if lookupErr != nil || !ok {
		return dom.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return dom.User{}, "", err
	}
	return u, token, nil
}

// GetProfile returns the user for the resolved identity.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// UpdateProfile applies only the fields present in the request (nil = keep).
// The identifier comes from the resolved token, never from the client.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, name, email *string) (dom.User, error) {
	existing, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}

	patch := existing
	if name != nil {
		n := strings.TrimSpace(*name)
		if len(n) < 2 {
			return dom.User{}, invalidInput("name must be at least 2 characters")
		}
		patch.Name = n
	}
	if email != nil {
		e := normalizeEmail(*email)
		if !emailRe.MatchString(e) {
			return dom.User{}, invalidInput("email is not valid")
		}
		patch.Email = e
	}

	u, err := s.repo.Update(ctx, userID, patch.Name, patch.Email)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
