package identity

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	authcore "github.com/vterekhov/authcore"
)

// Store implements authcore.IdentityStore over a GORM database handle.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open GORM handle. The caller owns the handle's
// lifecycle and shutdown sequencing.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the users, roles, and login-history tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&Role{}, &User{}, &LoginHistory{})
}

// GetUserByLogin returns the user with the given login.
func (s *Store) GetUserByLogin(ctx context.Context, login string) (authcore.UserRecord, error) {
	var user User
	err := s.db.WithContext(ctx).Preload("Role").Where("login = ?", login).First(&user).Error
	if err != nil {
		return authcore.UserRecord{}, mapUserErr(err)
	}
	return toRecord(user), nil
}

// GetUserByID returns the user with the given ID.
func (s *Store) GetUserByID(ctx context.Context, userID string) (authcore.UserRecord, error) {
	var user User
	err := s.db.WithContext(ctx).Preload("Role").Where("id = ?", userID).First(&user).Error
	if err != nil {
		return authcore.UserRecord{}, mapUserErr(err)
	}
	return toRecord(user), nil
}

// GetRoleByName returns the role with the given name.
func (s *Store) GetRoleByName(ctx context.Context, name string) (authcore.RoleRecord, error) {
	var role Role
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authcore.RoleRecord{}, authcore.ErrRoleNotFound
		}
		return authcore.RoleRecord{}, fmt.Errorf("role lookup: %w", err)
	}
	return authcore.RoleRecord{Name: role.Name, Description: role.Description}, nil
}

// CreateUser inserts a new user referencing an existing role. A duplicate
// login fails with authcore.ErrUserExists.
func (s *Store) CreateUser(ctx context.Context, input authcore.CreateUserInput) (authcore.UserRecord, error) {
	var record authcore.UserRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role Role
		if err := tx.Where("name = ?", input.Role).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return authcore.ErrRoleNotFound
			}
			return fmt.Errorf("role lookup: %w", err)
		}

		var count int64
		if err := tx.Model(&User{}).Where("login = ?", input.Login).Count(&count).Error; err != nil {
			return fmt.Errorf("login check: %w", err)
		}
		if count > 0 {
			return authcore.ErrUserExists
		}

		user := User{
			Login:        input.Login,
			PasswordHash: input.PasswordHash,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			RoleID:       role.ID,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("user insert: %w", err)
		}

		user.Role = role
		record = toRecord(user)
		return nil
	})
	if err != nil {
		return authcore.UserRecord{}, err
	}

	return record, nil
}

// CreateRole inserts a new role. A duplicate name fails with
// authcore.ErrRoleExists.
func (s *Store) CreateRole(ctx context.Context, input authcore.RoleRecord) (authcore.RoleRecord, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Role{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("role check: %w", err)
		}
		if count > 0 {
			return authcore.ErrRoleExists
		}

		role := Role{Name: input.Name, Description: input.Description}
		if err := tx.Create(&role).Error; err != nil {
			return fmt.Errorf("role insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return authcore.RoleRecord{}, err
	}

	return input, nil
}

// UpdateUser applies the non-zero fields of input to the user.
func (s *Store) UpdateUser(ctx context.Context, userID string, input authcore.UpdateUserInput) (authcore.UserRecord, error) {
	var record authcore.UserRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user User
		if err := tx.Preload("Role").Where("id = ?", userID).First(&user).Error; err != nil {
			return mapUserErr(err)
		}

		if input.NewLogin != "" && input.NewLogin != user.Login {
			var count int64
			if err := tx.Model(&User{}).Where("login = ?", input.NewLogin).Count(&count).Error; err != nil {
				return fmt.Errorf("login check: %w", err)
			}
			if count > 0 {
				return authcore.ErrUserExists
			}
			user.Login = input.NewLogin
		}
		if input.NewPasswordHash != "" {
			user.PasswordHash = input.NewPasswordHash
		}

		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("user update: %w", err)
		}

		record = toRecord(user)
		return nil
	})
	if err != nil {
		return authcore.UserRecord{}, err
	}

	return record, nil
}

// ListLoginHistory returns up to limit history records for userID, newest
// first.
func (s *Store) ListLoginHistory(ctx context.Context, userID string, limit int) ([]LoginHistory, error) {
	if limit <= 0 {
		limit = 50
	}

	var history []LoginHistory
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("login_time DESC").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("history lookup: %w", err)
	}

	return history, nil
}

func mapUserErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return authcore.ErrUserNotFound
	}
	return fmt.Errorf("user lookup: %w", err)
}

func toRecord(user User) authcore.UserRecord {
	return authcore.UserRecord{
		UserID:       user.ID,
		Login:        user.Login,
		PasswordHash: user.PasswordHash,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         user.Role.Name,
	}
}
