// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"asset_dashboard/internal/feature/auth/domain/entity"
	"asset_dashboard/internal/feature/auth/usecase"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserRepository は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserRepository(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// UserModel is the persisted operator account row.
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Password  string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// Create はユーザーを追加します。メールアドレスが重複していれば
// usecase.ErrEmailAlreadyExists を返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	m := UserModel{Email: u.Email, Password: u.Password}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	u.ID = m.ID
	u.Created = m.CreatedAt
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。存在しなければ
// usecase.ErrUserNotFound を返します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &entity.User{ID: m.ID, Email: m.Email, Password: m.Password, Created: m.CreatedAt}, nil
}
