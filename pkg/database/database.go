package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TheNotus/coursebot/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database представляет подключение к базе данных
type Database struct {
	DB *gorm.DB
}

// NewDatabase создает новое подключение к базе данных
func NewDatabase(dbPath string) (*Database, error) {
	// Создаем директорию для базы данных если она не существует
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Каскадные удаления объявлены на уровне схемы, поэтому включаем
	// проверку внешних ключей в каждом соединении.
	dsn := fmt.Sprintf("%s?_foreign_keys=on", dbPath)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db}

	// Автомиграция моделей
	if err := database.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

// Migrate выполняет миграцию базы данных
func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(
		&models.User{},
		&models.Topic{},
		&models.Course{},
		&models.Purchase{},
		&models.MenuItem{},
		&models.Promotion{},
	)
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureMenuItems создает обязательные пункты меню, если их еще нет.
// Бот обращается к пунктам по этим ключам.
func (d *Database) EnsureMenuItems() error {
	defaults := []models.MenuItem{
		{Key: models.MenuKeyAboutProject, Title: "О проекте", Content: "Информация о нашем проекте и миссии"},
		{Key: models.MenuKeyPromotions, Title: "Акции", Content: "Действующие акции и скидки на курсы"},
		{Key: models.MenuKeyReviews, Title: "Отзывы", Content: "Отзывы наших учеников"},
		{Key: models.MenuKeySupport, Title: "Поддержка", Content: "Контакты для связи и поддержки"},
		{Key: models.MenuKeyCatalog, Title: "Каталог", Content: "Каталог всех наших курсов", URLLink: "https://example.com"},
	}

	for _, item := range defaults {
		var count int64
		if err := d.DB.Model(&models.MenuItem{}).Where("key = ?", item.Key).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check menu item %q: %w", item.Key, err)
		}
		if count == 0 {
			if err := d.DB.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create menu item %q: %w", item.Key, err)
			}
		}
	}

	return nil
}
