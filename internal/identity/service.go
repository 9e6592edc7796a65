package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/netts-ev/netts-backend/internal/apperr"
	"github.com/netts-ev/netts-backend/internal/auth"
)

// refIDCreateAttempts bounds retries when the generated referral code
// collides with an existing record.
const refIDCreateAttempts = 3

// Service is the identity resolver: it decides account existence and
// creation, and produces signed identity tokens.
type Service struct {
	repo              Repository
	tokens            *auth.Issuer
	placeholderDomain string
}

// NewService creates a new identity service. placeholderDomain is the
// domain used to synthesize email addresses for phone-only signups.
func NewService(repo Repository, tokens *auth.Issuer, placeholderDomain string) *Service {
	return &Service{repo: repo, tokens: tokens, placeholderDomain: placeholderDomain}
}

// RegisterInput carries a registration request. Email and phone are
// optional individually; everything else is required.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	State     string
	City      string
	Pincode   string
}

// Register validates the input, persists a new user and returns it with
// a signed session token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, string, error) {
	if in.FirstName == "" || in.LastName == "" || in.State == "" || in.City == "" || in.Pincode == "" {
		return User{}, "", apperr.Validation("missing required fields")
	}

	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)
	password := strings.TrimSpace(in.Password)

	if email == "" && phone == "" {
		return User{}, "", apperr.Validation("identifier required")
	}
	if phone != "" && email == "" && password == "" {
		return User{}, "", apperr.Validation("password required for phone-only registration")
	}

	// Pre-checks give friendly conflicts; the store's constraints
	// still decide races between concurrent registrations.
	if email != "" {
		if _, err := s.repo.FindByEmail(ctx, email); err == nil {
			return User{}, "", apperr.Conflict("email already registered")
		} else if !errors.Is(err, ErrNotFound) {
			return User{}, "", apperr.Store(err)
		}
	}
	if phone != "" {
		if _, err := s.repo.FindByPhone(ctx, phone); err == nil {
			return User{}, "", apperr.Conflict("phone number already registered")
		} else if !errors.Is(err, ErrNotFound) {
			return User{}, "", apperr.Store(err)
		}
	}

	var passwordHash string
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return User{}, "", err
		}
		passwordHash = hash
	}

	// Phone-only signups get a deterministic placeholder address so
	// the email column stays a usable unique key.
	if email == "" {
		email = phone + "@" + s.placeholderDomain
	}

	user := User{
		ID:           uuid.New().String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		State:        in.State,
		City:         in.City,
		Pincode:      in.Pincode,
		Coins:        0,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.createWithRefID(ctx, &user); err != nil {
		return User{}, "", err
	}

	token, err := s.tokens.Issue(map[string]any{"id": user.ID, "email": user.Email}, auth.SessionTokenTTL)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// createWithRefID assigns a referral code and inserts the record,
// regenerating the code when the store reports it taken.
func (s *Service) createWithRefID(ctx context.Context, user *User) error {
	for attempt := 0; attempt < refIDCreateAttempts; attempt++ {
		refID, err := newRefID()
		if err != nil {
			return err
		}
		user.RefID = refID

		err = s.repo.Create(ctx, *user)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrRefIDTaken) {
			continue
		}
		if apperr.IsKind(err, apperr.KindConflict) {
			return err
		}
		return apperr.Store(err)
	}
	return apperr.Store(errors.New("ref id generation exhausted retries"))
}

// LoginLocal authenticates a phone+password pair and issues a session
// token.
func (s *Service) LoginLocal(ctx context.Context, phone, password string) (User, string, error) {
	user, err := s.repo.FindByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", apperr.Auth("user not found")
		}
		return User{}, "", apperr.Store(err)
	}

	if !user.HasLocalCredentials() {
		return User{}, "", apperr.Auth("user registered via social login")
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return User{}, "", err
	}
	if !ok {
		return User{}, "", apperr.Auth("incorrect password")
	}

	token, err := s.tokens.Issue(map[string]any{"id": user.ID, "phone": user.Phone}, auth.SessionTokenTTL)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// OAuthResolution is the outcome of mapping a verified external email
// to an internal account. An unregistered email is an expected result,
// not an error: no token is issued and nothing is written.
type OAuthResolution struct {
	Registered bool
	Email      string
	User       User
	Token      string
}

// ResolveOAuthIdentity looks up the account bound to a verified email
// and issues a token with the given lifetime when one exists.
func (s *Service) ResolveOAuthIdentity(ctx context.Context, verifiedEmail string, ttl time.Duration) (OAuthResolution, error) {
	user, err := s.repo.FindByEmail(ctx, verifiedEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return OAuthResolution{Registered: false, Email: verifiedEmail}, nil
		}
		return OAuthResolution{}, apperr.Store(err)
	}

	token, err := s.tokens.Issue(map[string]any{"id": user.ID, "email": user.Email}, ttl)
	if err != nil {
		return OAuthResolution{}, err
	}
	return OAuthResolution{Registered: true, Email: user.Email, User: user, Token: token}, nil
}

// Get fetches a user by id, for the session endpoint and middleware.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.Auth("user not found")
		}
		return User{}, apperr.Store(err)
	}
	return user, nil
}
