package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SPMS-2025/progress-service/internal/models"
	"github.com/SPMS-2025/progress-service/internal/repositories"
	"github.com/SPMS-2025/progress-service/internal/validator"
)

// MockUserRepository keeps users in memory keyed by email.
type MockUserRepository struct {
	usersByEmail map[string]*models.User
	createErr    error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{usersByEmail: make(map[string]*models.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.usersByEmail[user.Email] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.usersByEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.usersByEmail[email]
	return ok, nil
}

// MockAuthRepository exposes only the user repository.
type MockAuthRepository struct {
	userRepo *MockUserRepository
}

func (m *MockAuthRepository) Student() repositories.StudentRepository { return nil }
func (m *MockAuthRepository) ContestHistory() repositories.ContestHistoryRepository {
	return nil
}
func (m *MockAuthRepository) Submission() repositories.SubmissionRepository { return nil }
func (m *MockAuthRepository) User() repositories.UserRepository             { return m.userRepo }
func (m *MockAuthRepository) SyncLog() repositories.SyncLogRepository       { return nil }
func (m *MockAuthRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *MockAuthRepository) Ping(ctx context.Context) error { return nil }
func (m *MockAuthRepository) Close() error                   { return nil }

func newTestAuthService(userRepo *MockUserRepository) AuthService {
	return NewAuthService(
		&MockAuthRepository{userRepo: userRepo},
		validator.New(),
		testLogger(),
		AuthConfig{
			Secret:           "test-secret",
			SignupTokenHours: 24,
			SigninTokenHours: 1,
		},
	)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		userRepo := NewMockUserRepository()
		service := newTestAuthService(userRepo)

		resp, err := service.Signup(ctx, &SignupRequest{
			Username: "mentor",
			Email:    "mentor@example.com",
			Password: "correct horse",
		})
		if err != nil {
			t.Fatalf("Signup failed: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a signed token")
		}
		if resp.Username != "mentor" {
			t.Errorf("unexpected username %q", resp.Username)
		}

		stored := userRepo.usersByEmail["mentor@example.com"]
		if stored == nil {
			t.Fatal("user was not persisted")
		}
		if stored.Password == "correct horse" {
			t.Error("password must not be stored in plaintext")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("correct horse")); err != nil {
			t.Errorf("stored hash does not match the password: %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		userRepo := NewMockUserRepository()
		service := newTestAuthService(userRepo)

		req := &SignupRequest{Username: "mentor", Email: "mentor@example.com", Password: "correct horse"}
		if _, err := service.Signup(ctx, req); err != nil {
			t.Fatalf("first signup failed: %v", err)
		}
		if _, err := service.Signup(ctx, req); !errors.Is(err, ErrUserAlreadyExists) {
			t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		service := newTestAuthService(NewMockUserRepository())

		cases := []struct {
			name string
			req  *SignupRequest
		}{
			{"short password", &SignupRequest{Username: "mentor", Email: "mentor@example.com", Password: "short"}},
			{"bad email", &SignupRequest{Username: "mentor", Email: "not-an-email", Password: "correct horse"}},
			{"missing username", &SignupRequest{Email: "mentor@example.com", Password: "correct horse"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := service.Signup(ctx, tc.req); !errors.Is(err, ErrValidationFailed) {
					t.Errorf("expected ErrValidationFailed, got %v", err)
				}
			})
		}
	})
}

func TestAuthService_Signin(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	service := newTestAuthService(userRepo)

	if _, err := service.Signup(ctx, &SignupRequest{
		Username: "mentor",
		Email:    "mentor@example.com",
		Password: "correct horse",
	}); err != nil {
		t.Fatalf("signup setup failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := service.Signin(ctx, &SigninRequest{Email: "mentor@example.com", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Signin failed: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a signed token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Signin(ctx, &SigninRequest{Email: "mentor@example.com", Password: "wrong horse"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Signin(ctx, &SigninRequest{Email: "nobody@example.com", Password: "correct horse"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	service := newTestAuthService(userRepo)

	resp, err := service.Signup(ctx, &SignupRequest{
		Username: "mentor",
		Email:    "mentor@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("signup setup failed: %v", err)
	}

	t.Run("round trip", func(t *testing.T) {
		id, err := service.VerifyToken(resp.Token)
		if err != nil {
			t.Fatalf("VerifyToken failed: %v", err)
		}
		if id != resp.ID {
			t.Errorf("token resolved to %q, want %q", id, resp.ID)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := service.VerifyToken("not.a.token"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(
			&MockAuthRepository{userRepo: userRepo},
			validator.New(),
			testLogger(),
			AuthConfig{Secret: "different-secret", SignupTokenHours: 24, SigninTokenHours: 1},
		)
		if _, err := other.VerifyToken(resp.Token); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
