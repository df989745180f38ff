package repository

import (
	"errors"
	"time"

	"github.com/TheNotus/coursebot/internal/models"

	"gorm.io/gorm"
)

// PurchaseRepository интерфейс для работы с покупками
type PurchaseRepository interface {
	Create(userID, courseID uint, amount float64) (*models.Purchase, error)
	GetByUserAndCourse(userID, courseID uint) (*models.Purchase, error)
	ListByUser(userID uint) ([]models.Purchase, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository создает новый репозиторий покупок
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// Create создает новую покупку. Повторные покупки одного курса допускаются.
func (r *purchaseRepository) Create(userID, courseID uint, amount float64) (*models.Purchase, error) {
	purchase := models.Purchase{
		UserID:       userID,
		CourseID:     courseID,
		PurchaseDate: time.Now(),
		Amount:       amount,
	}
	if err := r.db.Create(&purchase).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

// GetByUserAndCourse получает покупку курса пользователем,
// nil без ошибки — если покупки нет
func (r *purchaseRepository) GetByUserAndCourse(userID, courseID uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&purchase).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ListByUser получает все покупки пользователя
func (r *purchaseRepository) ListByUser(userID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	if err := r.db.Where("user_id = ?", userID).Order("purchase_date DESC").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}
