package db

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/utils"
)

// SeedFirstAdmin creates an active admin account when none exists yet.
// It is a no-op when email or password is empty.
func SeedFirstAdmin(gdb *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := gdb.Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var existing models.User
	err := gdb.Where("email = ?", email).First(&existing).Error
	if err == nil {
		zap.L().Info("promoting existing user to admin", zap.String("email", email))
		return gdb.Model(&existing).Updates(map[string]any{
			"is_admin": true,
			"status":   models.StatusActive,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: hash,
		Status:   models.StatusActive,
		IsAdmin:  true,
	}
	if err := gdb.Create(&admin).Error; err != nil {
		return err
	}
	zap.L().Info("first admin created", zap.String("email", email))
	return nil
}
