package usecase_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"asset_dashboard/internal/feature/auth/domain/entity"
	"asset_dashboard/internal/feature/auth/usecase"
)

// mockUserRepository はUserRepositoryインターフェースのモック実装です。
type mockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *entity.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return errors.New("CreateFunc is not implemented")
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, errors.New("FindByEmailFunc is not implemented")
}

// mockJWTGenerator はJWTGeneratorインターフェースのモック実装です。
type mockJWTGenerator struct {
	GenerateTokenFunc func(userID uint, email string) (string, error)
}

func (m *mockJWTGenerator) GenerateToken(userID uint, email string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, email)
	}
	return "", errors.New("GenerateTokenFunc is not implemented")
}

// TestAuthUsecase_Signup はパスワード検証とハッシュ化を伴う登録をテストします。
func TestAuthUsecase_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("success: password is stored hashed", func(t *testing.T) {
		var created *entity.User
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				created = user
				return nil
			},
		}
		au := usecase.NewAuthUsecase(repo, &mockJWTGenerator{})

		if err := au.Signup(ctx, "ops@example.com", "correct horse"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created == nil {
			t.Fatal("user was not persisted")
		}
		if created.Password == "correct horse" {
			t.Error("password stored in plain text")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("correct horse")); err != nil {
			t.Errorf("stored hash does not verify: %v", err)
		}
	})

	t.Run("failure: short password is rejected before the repository", func(t *testing.T) {
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				t.Fatal("repository must not be reached")
				return nil
			},
		}
		au := usecase.NewAuthUsecase(repo, &mockJWTGenerator{})

		if err := au.Signup(ctx, "ops@example.com", "short"); err == nil {
			t.Fatal("expected an error for a 5-character password")
		}
	})

	t.Run("failure: duplicate email propagates", func(t *testing.T) {
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return usecase.ErrEmailAlreadyExists
			},
		}
		au := usecase.NewAuthUsecase(repo, &mockJWTGenerator{})

		err := au.Signup(ctx, "ops@example.com", "long enough password")
		if !errors.Is(err, usecase.ErrEmailAlreadyExists) {
			t.Fatalf("err = %v, want ErrEmailAlreadyExists", err)
		}
	})
}

// TestAuthUsecase_Login は認証とトークン発行をテストします。未検出と
// パスワード不一致が同じエラーになることも確認します。
func TestAuthUsecase_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("opensesame99"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	stored := &entity.User{ID: 7, Email: "ops@example.com", Password: string(hash)}

	repo := &mockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, usecase.ErrUserNotFound
		},
	}

	t.Run("success: returns the generated token", func(t *testing.T) {
		gen := &mockJWTGenerator{
			GenerateTokenFunc: func(userID uint, email string) (string, error) {
				if userID != 7 || email != "ops@example.com" {
					t.Errorf("GenerateToken(%d, %q)", userID, email)
				}
				return "signed-token", nil
			},
		}
		au := usecase.NewAuthUsecase(repo, gen)

		token, err := au.Login(ctx, "ops@example.com", "opensesame99")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "signed-token" {
			t.Errorf("token = %q", token)
		}
	})

	t.Run("failure: wrong password and unknown user yield the same error", func(t *testing.T) {
		au := usecase.NewAuthUsecase(repo, &mockJWTGenerator{})

		_, errWrong := au.Login(ctx, "ops@example.com", "wrong password")
		_, errUnknown := au.Login(ctx, "nobody@example.com", "opensesame99")

		if errWrong == nil || errUnknown == nil {
			t.Fatal("expected errors")
		}
		if errWrong.Error() != errUnknown.Error() {
			t.Errorf("error messages differ: %q vs %q", errWrong, errUnknown)
		}
	})

	t.Run("failure: token generation error surfaces", func(t *testing.T) {
		gen := &mockJWTGenerator{
			GenerateTokenFunc: func(userID uint, email string) (string, error) {
				return "", errors.New("no signing key")
			},
		}
		au := usecase.NewAuthUsecase(repo, gen)

		if _, err := au.Login(ctx, "ops@example.com", "opensesame99"); err == nil {
			t.Fatal("expected an error")
		}
	})
}
