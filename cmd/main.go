package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheNotus/coursebot/internal/bot"
	"github.com/TheNotus/coursebot/internal/config"
	"github.com/TheNotus/coursebot/internal/handlers"
	"github.com/TheNotus/coursebot/internal/repository"
	"github.com/TheNotus/coursebot/pkg/database"
	"github.com/TheNotus/coursebot/pkg/storage"
	"github.com/TheNotus/coursebot/pkg/telegram"

	"github.com/gin-gonic/gin"
)

// Максимальный размер загружаемого изображения
const maxImageSize = 10 << 20

func main() {
	cfg := config.Load()

	// Инициализация базы данных
	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.EnsureMenuItems(); err != nil {
		log.Fatalf("Failed to seed menu items: %v", err)
	}

	// Инициализация файлового хранилища изображений
	images, err := storage.NewStorage(cfg.UploadPath, maxImageSize)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Инициализация репозиториев
	repos := bot.Repositories{
		Users:      repository.NewUserRepository(db.DB),
		Topics:     repository.NewTopicRepository(db.DB),
		Courses:    repository.NewCourseRepository(db.DB),
		Purchases:  repository.NewPurchaseRepository(db.DB),
		MenuItems:  repository.NewMenuItemRepository(db.DB),
		Promotions: repository.NewPromotionRepository(db.DB),
	}

	// Инициализация Telegram-бота
	tgBot, err := telegram.NewBot(cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to create telegram bot: %v", err)
	}
	if err := tgBot.SetCommands(); err != nil {
		log.Printf("Failed to set bot commands: %v", err)
	}
	log.Printf("Authorized on account %s", tgBot.Username())

	navigator := bot.NewNavigator(tgBot, images, cfg.MediaPath, repos)

	// Веб-сервер админ-панели
	router := setupRouter(cfg, images, repos)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Admin panel listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Цикл обработки обновлений бота
	updates := tgBot.Updates()
	go func() {
		for update := range updates {
			navigator.HandleUpdate(update)
		}
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	tgBot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Stopped")
}

// setupRouter настраивает маршруты админ-панели
func setupRouter(cfg *config.Config, images *storage.Storage, repos bot.Repositories) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), handlers.RecoveryMiddleware(), handlers.CORSMiddleware())

	router.LoadHTMLGlob("web/templates/*.html")
	router.NoRoute(handlers.NotFoundHandler())

	// Статика с заголовками кэширования
	cache := handlers.CacheControlMiddleware(cfg.StaticCacheMaxAge)
	router.Group("/static", cache).Static("/", "web/static")
	router.Group("/topics_img", cache).Static("/", images.CategoryDir(storage.CategoryTopics))
	router.Group("/courses_img", cache).Static("/", images.CategoryDir(storage.CategoryCourses))
	router.Group("/promotions_img", cache).Static("/", images.CategoryDir(storage.CategoryPromotions))

	authHandler := handlers.NewAuthHandler(cfg.AdminPassword, cfg.JWTSecret)
	topicHandler := handlers.NewTopicHandler(repos.Topics, images)
	courseHandler := handlers.NewCourseHandler(repos.Courses, repos.Topics, images)
	menuItemHandler := handlers.NewMenuItemHandler(repos.MenuItems, images)
	promotionHandler := handlers.NewPromotionHandler(repos.Promotions, repos.Courses, images)

	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	admin := router.Group("/", authHandler.RequireAuth())

	// Темы
	admin.GET("/", topicHandler.Index)
	admin.GET("/add", topicHandler.AddPage)
	admin.POST("/add", topicHandler.Add)
	admin.GET("/edit/:topic_id", topicHandler.EditPage)
	admin.POST("/edit/:topic_id", topicHandler.Edit)
	admin.POST("/delete/:topic_id", topicHandler.Delete)

	// Курсы темы
	courses := admin.Group("/topics/:topic_id/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/add", courseHandler.AddPage)
	courses.POST("/add", courseHandler.Add)
	courses.GET("/edit/:course_id", courseHandler.EditPage)
	courses.POST("/edit/:course_id", courseHandler.Edit)
	courses.POST("/delete/:course_id", courseHandler.Delete)

	// Пункты меню бота
	admin.GET("/admin/menu_items", menuItemHandler.List)
	admin.GET("/admin/menu_items/edit/:key", menuItemHandler.EditPage)
	admin.POST("/admin/menu_items/edit/:key", menuItemHandler.Edit)

	// Акции
	admin.GET("/promotions", promotionHandler.List)
	admin.GET("/promotions/add", promotionHandler.AddPage)
	admin.POST("/promotions/add", promotionHandler.Add)
	admin.GET("/promotions/view/:promotion_id", promotionHandler.ViewPage)
	admin.GET("/promotions/edit/:promotion_id", promotionHandler.EditPage)
	admin.POST("/promotions/edit/:promotion_id", promotionHandler.Edit)
	admin.POST("/promotions/delete/:promotion_id", promotionHandler.Delete)

	// JSON API
	api := admin.Group("/api")
	api.GET("/promotions", promotionHandler.ListAPI)
	api.POST("/promotions", promotionHandler.CreateAPI)
	api.GET("/promotions/:promotion_id", promotionHandler.GetAPI)
	api.PUT("/promotions/:promotion_id", promotionHandler.UpdateAPI)
	api.DELETE("/promotions/:promotion_id", promotionHandler.DeleteAPI)
	api.GET("/courses", promotionHandler.CoursesAPI)

	return router
}
