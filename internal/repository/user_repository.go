package repository

import (
	"errors"
	"time"

	"github.com/TheNotus/coursebot/internal/models"

	"gorm.io/gorm"
)

// UserRepository интерфейс для работы с пользователями
type UserRepository interface {
	Upsert(telegramID int64, username string) (*models.User, error)
	GetByTelegramID(telegramID int64) (*models.User, error)
	List() ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert регистрирует пользователя по telegram id или обновляет его имя
func (r *userRepository) Upsert(telegramID int64, username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			TelegramID:       telegramID,
			Username:         username,
			RegistrationDate: time.Now(),
		}
		if err := r.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	if username != "" && user.Username != username {
		user.Username = username
		if err := r.db.Save(&user).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}

// GetByTelegramID получает пользователя по telegram id
func (r *userRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User
	if err := r.db.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List получает всех пользователей
func (r *userRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("registration_date DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
