package repository

import (
	"github.com/TheNotus/coursebot/internal/models"

	"gorm.io/gorm"
)

// MenuItemRepository интерфейс для работы с пунктами меню
type MenuItemRepository interface {
	Create(item *models.MenuItem) error
	GetByID(id uint) (*models.MenuItem, error)
	GetByKey(key string) (*models.MenuItem, error)
	Update(item *models.MenuItem) error
	Delete(id uint) error
	List() ([]models.MenuItem, error)
}

type menuItemRepository struct {
	db *gorm.DB
}

// NewMenuItemRepository создает новый репозиторий пунктов меню
func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

// Create создает новый пункт меню
func (r *menuItemRepository) Create(item *models.MenuItem) error {
	return r.db.Create(item).Error
}

// GetByID получает пункт меню по ID
func (r *menuItemRepository) GetByID(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByKey получает пункт меню по ключу
func (r *menuItemRepository) GetByKey(key string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.Where("key = ?", key).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update обновляет пункт меню
func (r *menuItemRepository) Update(item *models.MenuItem) error {
	return r.db.Save(item).Error
}

// Delete удаляет пункт меню
func (r *menuItemRepository) Delete(id uint) error {
	return r.db.Delete(&models.MenuItem{}, id).Error
}

// List получает все пункты меню
func (r *menuItemRepository) List() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
