package userdb

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound marks a lookup for a user that was never registered.
var ErrNotFound = errors.New("user not found")

// User holds one seller's credentials and report preferences.
type User struct {
	UserID    string `gorm:"primaryKey"`
	APIKey    string
	ShopName  string
	TaxRate   float64
	SheetLink string
}

// Store persists users in a local sqlite database.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the user database at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open user db %s: %w", path, err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("migrate user db: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the user with the given id or ErrNotFound.
func (s *Store) Get(userID string) (*User, error) {
	var u User
	err := s.db.First(&u, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	return &u, nil
}

// Upsert creates or fully replaces the user record.
func (s *Store) Upsert(u *User) error {
	if u.UserID == "" {
		return errors.New("user id must not be empty")
	}
	if err := s.db.Save(u).Error; err != nil {
		return fmt.Errorf("save user %s: %w", u.UserID, err)
	}
	return nil
}

// Delete removes the user record if present.
func (s *Store) Delete(userID string) error {
	if err := s.db.Delete(&User{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	return nil
}
