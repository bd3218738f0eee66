package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"asset_dashboard/internal/feature/auth/domain/entity"
)

// minPasswordLength はパスワードの最低文字数です。
const minPasswordLength = 8

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。メールアドレスが重複していれば
	// ErrEmailAlreadyExists を返します。
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail はメールアドレスでユーザーを取得します。存在しなければ
	// ErrUserNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// JWTGenerator はJWTトークン生成を抽象化します。
type JWTGenerator interface {
	GenerateToken(userID uint, email string) (string, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users UserRepository
	jwt   JWTGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, jwt JWTGenerator) *authUsecase {
	return &authUsecase{users: users, jwt: jwt}
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
func (u *authUsecase) Signup(ctx context.Context, email, password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return u.users.Create(ctx, &entity.User{Email: email, Password: string(hashed)})
}

// dummyHash keeps the bcrypt comparison on the login path even when the user
// does not exist, so response timing does not leak account existence.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Login はユーザーを認証し、成功時に署名済みJWTトークンを返します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, email)

	hash := dummyHash
	if err == nil {
		hash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	// 未検出とパスワード不一致は区別せず同じエラーを返す
	if err != nil || compareErr != nil {
		return "", errors.New("invalid email or password")
	}

	token, err := u.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
