package repository

import (
	"github.com/TheNotus/coursebot/internal/models"

	"gorm.io/gorm"
)

// CourseRepository интерфейс для работы с курсами
type CourseRepository interface {
	Create(course *models.Course) error
	GetByID(id uint) (*models.Course, error)
	Update(course *models.Course) error
	Delete(id uint) error
	List() ([]models.Course, error)
	ListByTopic(topicID uint) ([]models.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository создает новый репозиторий курсов
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// Create создает новый курс
func (r *courseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

// GetByID получает курс по ID
func (r *courseRepository) GetByID(id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// Update обновляет курс
func (r *courseRepository) Update(course *models.Course) error {
	return r.db.Save(course).Error
}

// Delete удаляет курс. Покупки курса удаляются каскадно на уровне базы данных.
func (r *courseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Course{}, id).Error
}

// List получает все курсы
func (r *courseRepository) List() ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.Order("id").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// ListByTopic получает все курсы темы
func (r *courseRepository) ListByTopic(topicID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.Where("topic_id = ?", topicID).Order("id").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}
