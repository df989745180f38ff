package repository

import (
	"github.com/TheNotus/coursebot/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository интерфейс для работы с акциями
type PromotionRepository interface {
	Create(promotion *models.Promotion) error
	GetByID(id uint) (*models.Promotion, error)
	Update(promotion *models.Promotion) error
	Delete(id uint) error
	List() ([]models.Promotion, error)
	ListActive() ([]models.Promotion, error)
}

type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository создает новый репозиторий акций
func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepository{db: db}
}

// Create создает новую акцию
func (r *promotionRepository) Create(promotion *models.Promotion) error {
	return r.db.Create(promotion).Error
}

// GetByID получает акцию по ID
func (r *promotionRepository) GetByID(id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.First(&promotion, id).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

// Update обновляет акцию
func (r *promotionRepository) Update(promotion *models.Promotion) error {
	return r.db.Save(promotion).Error
}

// Delete удаляет акцию
func (r *promotionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Promotion{}, id).Error
}

// List получает все акции
func (r *promotionRepository) List() ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := r.db.Order("id").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// ListActive получает акции для показа в боте. Фильтрации по датам нет:
// срок действия — справочная информация в карточке акции.
func (r *promotionRepository) ListActive() ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := r.db.Order("id").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}
