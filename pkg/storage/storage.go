package storage

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Категории изображений и соответствующие им URL-префиксы.
const (
	CategoryTopics     = "topics"
	CategoryCourses    = "courses"
	CategoryPromotions = "promotions"
	CategoryMenuItems  = "menu_items"
)

// Большие загрузки ужимаются до этой ширины, пропорции сохраняются.
const maxImageWidth = 1280

// urlPrefixes сопоставляет категорию с URL-префиксом, под которым
// файлы этой категории раздаются веб-сервером.
var urlPrefixes = map[string]string{
	CategoryTopics:     "/topics_img",
	CategoryCourses:    "/courses_img",
	CategoryPromotions: "/promotions_img",
	CategoryMenuItems:  "/static/img/menu_items",
}

// Storage представляет файловое хранилище изображений
type Storage struct {
	basePath    string
	maxFileSize int64
}

// NewStorage создает новое файловое хранилище
func NewStorage(basePath string, maxFileSize int64) (*Storage, error) {
	// Создаем директории категорий заранее
	for category := range urlPrefixes {
		if err := os.MkdirAll(filepath.Join(basePath, category), 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	return &Storage{
		basePath:    basePath,
		maxFileSize: maxFileSize,
	}, nil
}

// SaveImage сохраняет загруженное изображение и возвращает его URL-путь
func (s *Storage) SaveImage(file *multipart.FileHeader, category string) (string, error) {
	prefix, ok := urlPrefixes[category]
	if !ok {
		return "", fmt.Errorf("unknown image category: %s", category)
	}

	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", fmt.Errorf("file is not an image")
	}

	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return "", fmt.Errorf("file size exceeds maximum allowed size")
	}

	// Генерируем уникальное имя файла
	fileExt := filepath.Ext(file.Filename)
	fileName := uuid.New().String() + fileExt
	filePath := filepath.Join(s.basePath, category, fileName)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	if err := s.shrinkImage(filePath); err != nil {
		// Логируем ошибку, но не прерываем выполнение
		log.Printf("Failed to shrink image: %v", err)
	}

	return prefix + "/" + fileName, nil
}

// shrinkImage ужимает слишком широкое изображение на месте
func (s *Storage) shrinkImage(filePath string) error {
	img, err := imaging.Open(filePath)
	if err != nil {
		return err
	}

	if img.Bounds().Dx() <= maxImageWidth {
		return nil
	}

	resized := imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	return imaging.Save(resized, filePath, imaging.JPEGQuality(85))
}

// LocalPath переводит URL-путь изображения в путь на диске.
// Возвращает false, если путь не указывает в хранилище.
func (s *Storage) LocalPath(urlPath string) (string, bool) {
	for category, prefix := range urlPrefixes {
		if rest, ok := strings.CutPrefix(urlPath, prefix+"/"); ok && rest != "" {
			// Защищаемся от выхода за пределы директории категории
			name := filepath.Base(rest)
			return filepath.Join(s.basePath, category, name), true
		}
	}
	return "", false
}

// CategoryDir возвращает директорию категории на диске
func (s *Storage) CategoryDir(category string) string {
	return filepath.Join(s.basePath, category)
}

// DeleteImage удаляет изображение по его URL-пути
func (s *Storage) DeleteImage(urlPath string) error {
	localPath, ok := s.LocalPath(urlPath)
	if !ok {
		return nil
	}
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
