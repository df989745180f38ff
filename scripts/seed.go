package main

import (
	"log"

	"github.com/TheNotus/coursebot/internal/config"
	"github.com/TheNotus/coursebot/internal/models"
	"github.com/TheNotus/coursebot/pkg/database"
)

// Заполняет пустую базу тестовыми темами и курсами.
// Повторный запуск на непустой базе ничего не меняет.
func main() {
	cfg := config.Load()

	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.EnsureMenuItems(); err != nil {
		log.Fatalf("Failed to seed menu items: %v", err)
	}

	var topicsCount int64
	if err := db.DB.Model(&models.Topic{}).Count(&topicsCount).Error; err != nil {
		log.Fatalf("Failed to count topics: %v", err)
	}
	if topicsCount > 0 {
		log.Println("Database already seeded, nothing to do")
		return
	}

	topics := []models.Topic{
		{Name: "Программирование"},
		{Name: "Дизайн"},
		{Name: "Маркетинг"},
		{Name: "Бизнес"},
	}
	if err := db.DB.Create(&topics).Error; err != nil {
		log.Fatalf("Failed to seed topics: %v", err)
	}

	courses := []models.Course{
		{TopicID: topics[0].ID, Name: "Python для начинающих", Description: "Основы программирования на Python", Price: 2990.0},
		{TopicID: topics[0].ID, Name: "JavaScript продвинутый", Description: "Современные фреймворки и библиотеки", Price: 4990.0},
		{TopicID: topics[0].ID, Name: "Разработка на Go", Description: "Создание высоконагруженных приложений", Price: 5990.0},
		{TopicID: topics[1].ID, Name: "Основы графического дизайна", Description: "Цвет, композиция, типографика", Price: 390.0},
		{TopicID: topics[1].ID, Name: "UI/UX дизайн", Description: "Создание интерфейсов и пользовательских путей", Price: 690.0},
		{TopicID: topics[2].ID, Name: "Контекстная реклама", Description: "Google Ads и Яндекс.Директ", Price: 4490.0},
		{TopicID: topics[2].ID, Name: "SMM-стратегия", Description: "Продвижение в социальных сетях", Price: 3990.0},
		{TopicID: topics[3].ID, Name: "Основы предпринимательства", Description: "От идеи до запуска бизнеса", Price: 5490.0},
		{TopicID: topics[3].ID, Name: "Финансовый менеджмент", Description: "Управление финансами компании", Price: 4990.0},
	}
	if err := db.DB.Create(&courses).Error; err != nil {
		log.Fatalf("Failed to seed courses: %v", err)
	}

	log.Println("Sample data added")
}
