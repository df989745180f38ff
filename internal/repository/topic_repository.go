package repository

import (
	"github.com/TheNotus/coursebot/internal/models"

	"gorm.io/gorm"
)

// TopicRepository интерфейс для работы с темами
type TopicRepository interface {
	Create(topic *models.Topic) error
	GetByID(id uint) (*models.Topic, error)
	Update(topic *models.Topic) error
	Delete(id uint) error
	List() ([]models.Topic, error)
	ListByParent(parentID *uint) ([]models.Topic, error)
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository создает новый репозиторий тем
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

// Create создает новую тему
func (r *topicRepository) Create(topic *models.Topic) error {
	return r.db.Create(topic).Error
}

// GetByID получает тему по ID
func (r *topicRepository) GetByID(id uint) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.First(&topic, id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

// Update обновляет тему
func (r *topicRepository) Update(topic *models.Topic) error {
	return r.db.Save(topic).Error
}

// Delete удаляет тему. Связанные курсы и подтемы удаляются каскадно
// на уровне базы данных.
func (r *topicRepository) Delete(id uint) error {
	return r.db.Delete(&models.Topic{}, id).Error
}

// List получает все темы
func (r *topicRepository) List() ([]models.Topic, error) {
	var topics []models.Topic
	if err := r.db.Order("name").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// ListByParent получает темы с указанным родителем (nil — корневые темы)
func (r *topicRepository) ListByParent(parentID *uint) ([]models.Topic, error) {
	var topics []models.Topic
	query := r.db.Order("id")
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if err := query.Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}
