package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/debasish218/pg-manager/models"
)

type AccountService struct {
	DB *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{DB: db}
}

// Register creates the account for phoneNumber, or refreshes the name and PG
// name of the existing one.
func (s *AccountService) Register(ctx context.Context, phoneNumber, name, pgName string) (*models.Account, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return nil, fmt.Errorf("%w: phone number is required", ErrInvalidInput)
	}
	if strings.TrimSpace(pgName) == "" {
		return nil, fmt.Errorf("%w: PG name is required", ErrInvalidInput)
	}

	var account models.Account
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := forUpdate(tx).Where("phone_number = ?", phoneNumber).First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			account = models.Account{PhoneNumber: phoneNumber, Name: name, PgName: pgName, Role: "owner"}
			return tx.Create(&account).Error
		}
		if err != nil {
			return err
		}
		account.Name = name
		account.PgName = pgName
		return tx.Save(&account).Error
	})
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}
	return &account, nil
}

func (s *AccountService) Get(ctx context.Context, accountID uint) (*models.Account, error) {
	var account models.Account
	err := s.DB.WithContext(ctx).First(&account, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &account, nil
}

// UpdateProfile renames the PG and, when name is non-nil, the owner.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID uint, name *string, pgName string) (*models.Account, error) {
	pgName = strings.TrimSpace(pgName)
	if pgName == "" {
		return nil, fmt.Errorf("%w: PG name is required", ErrInvalidInput)
	}

	var account models.Account
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := forUpdate(tx).First(&account, accountID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		account.PgName = pgName
		if name != nil {
			account.Name = strings.TrimSpace(*name)
		}
		return tx.Model(&account).Select("pg_name", "name").Updates(&account).Error
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	log.Info().Uint("account_id", accountID).Msg("account profile updated")
	return &account, nil
}

// Delete removes the account together with all of its tenants and rooms.
func (s *AccountService) Delete(ctx context.Context, accountID uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		err := forUpdate(tx).First(&account, accountID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("account_id = ?", accountID).Delete(&models.Tenant{}).Error; err != nil {
			return fmt.Errorf("delete tenants: %w", err)
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&models.Room{}).Error; err != nil {
			return fmt.Errorf("delete rooms: %w", err)
		}
		return tx.Delete(&account).Error
	})
	if err != nil {
		return err
	}

	log.Info().Uint("account_id", accountID).Msg("account deleted")
	return nil
}
