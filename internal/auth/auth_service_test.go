package auth_test

import (
	"context"
	"testing"

	"staff-portal/internal/auth"
	autherrors "staff-portal/internal/auth/errors"
	"staff-portal/internal/employee"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeEmployeeRepo struct {
	employee.Repository
	byEmail map[string]*employee.Employee
	byID    map[string]*employee.Employee
}

func (f *fakeEmployeeRepo) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	if e, ok := f.byEmail[email]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func seedAccount(t *testing.T, password string) (*fakeEmployeeRepo, *employee.Employee) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	empl := &employee.Employee{
		ID:           uuid.New(),
		EmployeeID:   "EMP-0001",
		Name:         "Noa Field",
		Email:        "noa@example.com",
		Department:   "Operations",
		Position:     "Analyst",
		Role:         "Employee",
		PasswordHash: string(hash),
	}
	repo := &fakeEmployeeRepo{
		byEmail: map[string]*employee.Employee{empl.Email: empl},
		byID:    map[string]*employee.Employee{empl.ID.String(): empl},
	}
	return repo, empl
}

func TestAuthService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("success returns tokens and profile", func(t *testing.T) {
		repo, empl := seedAccount(t, "correct-horse")
		svc := auth.NewService(repo)

		access, refresh, resp, err := svc.Login(ctx, empl.Email, "correct-horse")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, empl.EmployeeID, resp.EmployeeID)
		assert.Equal(t, "Operations", resp.Department)
		assert.Equal(t, "Employee", resp.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo, empl := seedAccount(t, "correct-horse")
		svc := auth.NewService(repo)

		_, _, _, err := svc.Login(ctx, empl.Email, "wrong")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo, _ := seedAccount(t, "correct-horse")
		svc := auth.NewService(repo)

		_, _, _, err := svc.Login(ctx, "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("round trip picks up account changes", func(t *testing.T) {
		repo, empl := seedAccount(t, "correct-horse")
		svc := auth.NewService(repo)

		_, refresh, _, err := svc.Login(ctx, empl.Email, "correct-horse")
		assert.NoError(t, err)

		empl.Role = "Head"

		_, _, resp, err := svc.RefreshToken(ctx, refresh)
		assert.NoError(t, err)
		assert.Equal(t, "Head", resp.Role)
	})

	t.Run("garbage token", func(t *testing.T) {
		repo, _ := seedAccount(t, "correct-horse")
		svc := auth.NewService(repo)

		_, _, _, err := svc.RefreshToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	repo, empl := seedAccount(t, "correct-horse")
	svc := auth.NewService(repo)

	t.Run("found", func(t *testing.T) {
		resp, err := svc.GetMe(ctx, empl.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, empl.Email, resp.Email)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetMe(ctx, uuid.New().String())
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}
