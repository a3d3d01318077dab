package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore/internal/domain/model"
	"bookstore/internal/repository"
	"bookstore/internal/validator"

)

// 会員登録の入力
type RegisterUserInput struct {
	Username string
	Email    string
	Password string
}

// 会員登録の出力
type RegisterUserOutput struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

var (
	// 同時登録などで保存時に一意制約に当たった
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// 入力の検証（validator.AuthValidatorが実装）
type InputValidator interface {
	ValidateRegister(ctx context.Context, username string, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

// 保存用のハッシュを作る
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 会員登録（USERロール・有効状態で作る）
type RegisterUserUsecase struct {
	userRepo  repository.UserRepository
	validator InputValidator
	hasher    PasswordHasher
	clock     Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	v InputValidator,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:  userRepo,
		validator: v,
		hasher:    hasher,
		clock:     clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	username := validator.SanitizeString(in.Username, validator.MaxNameLen)
	email := validator.SanitizeString(in.Email, validator.MaxNameLen)

	if err := u.validator.ValidateRegister(ctx, username, email, in.Password); err != nil {
		return RegisterUserOutput{}, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return RegisterUserOutput{}, fmt.Errorf("hash password: %w", err)
	}

	now := u.clock.Now()
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed, // 平文は保存しない
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 検証後に別リクエストが同じemailで登録した場合は一意制約で弾かれる
	switch err := u.userRepo.Create(ctx, user); {
	case errors.Is(err, repository.ErrConflict):
		return RegisterUserOutput{}, ErrEmailAlreadyExists
	case err != nil:
		return RegisterUserOutput{}, err
	}

	return RegisterUserOutput{UserID: user.ID, Username: user.Username, Email: user.Email}, nil
}
