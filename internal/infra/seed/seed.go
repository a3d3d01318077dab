package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"bookstore/internal/domain/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 初期データ（YAML）
type File struct {
	Users []UserSeed `yaml:"users"`
	Books []BookSeed `yaml:"books"`
}

type UserSeed struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role,omitempty"`
}

type BookSeed struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	Image  string `yaml:"image,omitempty"`
	// "10.99" のように文字列で書く
	Price string `yaml:"price"`
	Stock int64  `yaml:"stock"`
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 実際に追加した件数
type Result struct {
	Users int64
	Books int64
}

func LoadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (File, error) {
	var out File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return File{}, nil
		}
		return File{}, fmt.Errorf("decode seed: %w", err)
	}
	return out, nil
}

// 既にあるもの（email / title）はスキップするので何度流しても同じ
func Apply(ctx context.Context, gdb *gorm.DB, f File, hasher PasswordHasher) (Result, error) {
	var res Result

	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range f.Users {
			u, err := toUser(s, hasher)
			if err != nil {
				return err
			}
			r := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).Create(&u)
			if r.Error != nil {
				return fmt.Errorf("seed user %s: %w", s.Email, r.Error)
			}
			res.Users += r.RowsAffected
		}

		for _, s := range f.Books {
			b, err := toBook(s)
			if err != nil {
				return err
			}
			r := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "title"}}, DoNothing: true}).Create(&b)
			if r.Error != nil {
				return fmt.Errorf("seed book %s: %w", s.Title, r.Error)
			}
			res.Books += r.RowsAffected
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func toUser(s UserSeed, hasher PasswordHasher) (model.User, error) {
	if s.Email == "" || s.Password == "" {
		return model.User{}, fmt.Errorf("seed user: email and password required")
	}
	role := model.Role(strings.ToUpper(s.Role))
	switch role {
	case "":
		role = model.RoleUser
	case model.RoleUser, model.RoleAdmin:
	default:
		return model.User{}, fmt.Errorf("seed user %s: unknown role %q", s.Email, s.Role)
	}

	hash, err := hasher.Hash(s.Password)
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		Username:     s.Username,
		Email:        s.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}, nil
}

func toBook(s BookSeed) (model.Book, error) {
	if s.Title == "" || s.Author == "" {
		return model.Book{}, fmt.Errorf("seed book: title and author required")
	}
	price, err := decimal.NewFromString(s.Price)
	if err != nil {
		return model.Book{}, fmt.Errorf("seed book %s: price: %w", s.Title, err)
	}
	if price.IsNegative() || s.Stock < 0 {
		return model.Book{}, fmt.Errorf("seed book %s: price and stock must be >= 0", s.Title)
	}
	return model.Book{
		Title:  s.Title,
		Author: s.Author,
		Image:  s.Image,
		Price:  price.Round(2),
		Stock:  s.Stock,
	}, nil
}
