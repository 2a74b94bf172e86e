package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
	"github.com/99minutos/catalog-api/internal/infrastructure/security"
)

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users   map[string]*domain.User
	findErr error
	creates int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.creates++
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// countingHasher records calls so tests can assert which paths hash.
type countingHasher struct {
	hashes, verifies, decoys int
	verifyErr                error
}

func (h *countingHasher) Hash(plaintext string) (string, error) {
	h.hashes++
	return "hashed:" + plaintext, nil
}

func (h *countingHasher) Verify(plaintext, hash string) (bool, error) {
	h.verifies++
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return hash == "hashed:"+plaintext, nil
}

func (h *countingHasher) CompareDecoy(string) { h.decoys++ }

func newAuthService(repo ports.UserRepository, hasher ports.PasswordHasher) *AuthService {
	return NewAuthService(repo, hasher, security.NewTokenService("secret"), discardLogger)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	hasher := &countingHasher{}
	svc := newAuthService(repo, hasher)

	user, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Password: "pw123", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.PasswordHash == "pw123" {
		t.Fatalf("expected password to be hashed")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
	if hasher.hashes != 1 {
		t.Fatalf("expected one hash, got %d", hasher.hashes)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &countingHasher{})

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "", Password: "x", Role: "OWNER"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %+v", verr.Violations)
	}
	if repo.creates != 0 {
		t.Fatalf("expected no write on invalid input")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	hasher := &countingHasher{}
	svc := newAuthService(repo, hasher)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pass1", Role: domain.RoleUser})
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pass2", Role: domain.RoleAdmin})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if hasher.hashes != 1 {
		t.Fatalf("duplicate must be rejected before hashing, got %d hashes", hasher.hashes)
	}
	if repo.creates != 1 || len(repo.users) != 1 {
		t.Fatalf("expected exactly one stored record, got %d creates / %d users", repo.creates, len(repo.users))
	}
	if repo.users["bob"].Role != domain.RoleUser {
		t.Fatalf("original record was modified")
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection refused")
	svc := newAuthService(repo, &countingHasher{})

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "carol", Password: "pass1", Role: domain.RoleUser})
	if err == nil || errors.Is(err, domain.ErrUserExists) || errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected wrapped internal error, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	tokens := security.NewTokenService("secret")
	svc := NewAuthService(repo, &countingHasher{}, tokens, discardLogger)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "carol", Password: "s3cret", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.User == nil || result.User.Username != "carol" {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	if d := time.Until(result.ExpiresAt); d <= 59*time.Minute || d > time.Hour {
		t.Fatalf("expected ~1h expiry, got %v", d)
	}

	identity, err := tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if identity.Role != domain.RoleAdmin || identity.Username != "carol" {
		t.Fatalf("unexpected claims: %+v", identity)
	}
}

func TestAuthService_Login_EnumerationResistance(t *testing.T) {
	repo := newStubUserRepo()
	hasher := &countingHasher{}
	svc := newAuthService(repo, hasher)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "dave", Password: "goodpass", Role: domain.RoleUser})

	_, wrongPassword := svc.Login(context.Background(), "dave", "badpass")
	_, unknownUser := svc.Login(context.Background(), "ghost", "badpass")

	if wrongPassword != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if unknownUser != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if hasher.decoys != 1 {
		t.Fatalf("expected a decoy compare for the unknown user, got %d", hasher.decoys)
	}
}

func TestAuthService_Login_CorruptedHash(t *testing.T) {
	repo := newStubUserRepo()
	hasher := &countingHasher{verifyErr: security.ErrMalformedHash}
	svc := newAuthService(repo, hasher)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "erin", Password: "goodpass", Role: domain.RoleUser})

	_, err := svc.Login(context.Background(), "erin", "goodpass")
	if !errors.Is(err, security.ErrMalformedHash) {
		t.Fatalf("expected malformed hash error, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("corrupted data must not look like a wrong password")
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &countingHasher{})

	_, err := svc.Login(context.Background(), "", "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Violations) != 2 {
		t.Fatalf("expected two violations, got %v", err)
	}
}
