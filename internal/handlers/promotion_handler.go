package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TheNotus/coursebot/internal/models"
	"github.com/TheNotus/coursebot/internal/repository"
	"github.com/TheNotus/coursebot/pkg/storage"

	"github.com/gin-gonic/gin"
)

// PromotionHandler обрабатывает страницы и JSON API управления акциями
type PromotionHandler struct {
	promotions repository.PromotionRepository
	courses    repository.CourseRepository
	images     *storage.Storage
}

// NewPromotionHandler создает новый обработчик акций
func NewPromotionHandler(promotions repository.PromotionRepository, courses repository.CourseRepository, images *storage.Storage) *PromotionHandler {
	return &PromotionHandler{promotions: promotions, courses: courses, images: images}
}

// promotionResponse описывает акцию в ответах JSON API
type promotionResponse struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	CourseLink      string   `json:"course_link"`
	DiscountedPrice *float64 `json:"discounted_price"`
	StartDate       *string  `json:"start_date"`
	EndDate         *string  `json:"end_date"`
	IsPeriodEnabled bool     `json:"is_period_enabled"`
	IsPriceEnabled  bool     `json:"is_price_enabled"`
	ImagePath       string   `json:"image_path"`
}

func toPromotionResponse(p *models.Promotion) promotionResponse {
	return promotionResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		CourseLink:      p.CourseLink,
		DiscountedPrice: p.DiscountedPrice,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		IsPeriodEnabled: p.IsPeriodEnabled,
		IsPriceEnabled:  p.IsPriceEnabled,
		ImagePath:       p.ImagePath,
	}
}

// List показывает страницу со списком акций
func (h *PromotionHandler) List(c *gin.Context) {
	promotions, err := h.promotions.List()
	if err != nil {
		log.Printf("failed to list promotions: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "promotions.html", gin.H{"promotions": promotions})
}

// AddPage показывает форму добавления акции
func (h *PromotionHandler) AddPage(c *gin.Context) {
	c.HTML(http.StatusOK, "add_edit_promotion.html", gin.H{"promotion": nil})
}

// Add создает новую акцию
func (h *PromotionHandler) Add(c *gin.Context) {
	renderError := func(msg string) {
		c.HTML(http.StatusOK, "add_edit_promotion.html", gin.H{"promotion": nil, "error": msg})
	}

	imagePath := ""
	if file, err := c.FormFile("image"); err == nil && file.Filename != "" {
		saved, err := h.images.SaveImage(file, storage.CategoryPromotions)
		if err != nil {
			renderError("Файл должен быть изображением")
			return
		}
		imagePath = saved
	}

	promotion, msg, ok := promotionFromForm(c)
	if !ok {
		renderError(msg)
		return
	}
	promotion.ImagePath = imagePath

	if err := h.promotions.Create(promotion); err != nil {
		log.Printf("failed to create promotion: %v", err)
		renderError("Не удалось сохранить акцию")
		return
	}

	c.Redirect(http.StatusSeeOther, "/promotions")
}

// ViewPage показывает карточку акции
func (h *PromotionHandler) ViewPage(c *gin.Context) {
	promotion, ok := h.promotionFromPath(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "add_edit_promotion.html", gin.H{"promotion": promotion})
}

// EditPage показывает форму редактирования акции
func (h *PromotionHandler) EditPage(c *gin.Context) {
	promotion, ok := h.promotionFromPath(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "add_edit_promotion.html", gin.H{"promotion": promotion})
}

// Edit обновляет акцию
func (h *PromotionHandler) Edit(c *gin.Context) {
	current, ok := h.promotionFromPath(c)
	if !ok {
		return
	}

	renderError := func(msg string) {
		c.HTML(http.StatusOK, "add_edit_promotion.html", gin.H{"promotion": current, "error": msg})
	}

	if file, err := c.FormFile("image"); err == nil && file.Filename != "" {
		saved, err := h.images.SaveImage(file, storage.CategoryPromotions)
		if err != nil {
			renderError("Файл должен быть изображением")
			return
		}
		current.ImagePath = saved
	}

	updated, msg, ok := promotionFromForm(c)
	if !ok {
		renderError(msg)
		return
	}

	current.Name = updated.Name
	current.Description = updated.Description
	current.CourseLink = updated.CourseLink
	current.DiscountedPrice = updated.DiscountedPrice
	current.StartDate = updated.StartDate
	current.EndDate = updated.EndDate
	current.IsPeriodEnabled = updated.IsPeriodEnabled
	current.IsPriceEnabled = updated.IsPriceEnabled

	if err := h.promotions.Update(current); err != nil {
		log.Printf("failed to update promotion %d: %v", current.ID, err)
		renderError("Не удалось сохранить акцию")
		return
	}

	c.Redirect(http.StatusSeeOther, "/promotions")
}

// Delete удаляет акцию
func (h *PromotionHandler) Delete(c *gin.Context) {
	promotion, ok := h.promotionFromPath(c)
	if !ok {
		return
	}
	if err := h.promotions.Delete(promotion.ID); err != nil {
		log.Printf("failed to delete promotion %d: %v", promotion.ID, err)
	}
	c.Redirect(http.StatusSeeOther, "/promotions")
}

// ListAPI возвращает все акции
func (h *PromotionHandler) ListAPI(c *gin.Context) {
	promotions, err := h.promotions.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Ошибка при получении акций"})
		return
	}
	response := make([]promotionResponse, 0, len(promotions))
	for i := range promotions {
		response = append(response, toPromotionResponse(&promotions[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetAPI возвращает акцию по ID
func (h *PromotionHandler) GetAPI(c *gin.Context) {
	promotion, ok := h.promotionFromPathAPI(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toPromotionResponse(promotion))
}

// CreateAPI создает акцию из данных формы
func (h *PromotionHandler) CreateAPI(c *gin.Context) {
	imagePath := ""
	if file, err := c.FormFile("image"); err == nil && file.Filename != "" {
		saved, err := h.images.SaveImage(file, storage.CategoryPromotions)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Файл должен быть изображением"})
			return
		}
		imagePath = saved
	}

	promotion, msg, ok := promotionFromForm(c)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": msg})
		return
	}
	promotion.ImagePath = imagePath

	if err := h.promotions.Create(promotion); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Ошибка при создании акции"})
		return
	}
	c.JSON(http.StatusOK, toPromotionResponse(promotion))
}

// UpdateAPI обновляет переданные поля акции
func (h *PromotionHandler) UpdateAPI(c *gin.Context) {
	promotion, ok := h.promotionFromPathAPI(c)
	if !ok {
		return
	}

	if file, err := c.FormFile("image"); err == nil && file.Filename != "" {
		saved, err := h.images.SaveImage(file, storage.CategoryPromotions)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Файл должен быть изображением"})
			return
		}
		if promotion.ImagePath != "" {
			if err := h.images.DeleteImage(promotion.ImagePath); err != nil {
				log.Printf("failed to delete old promotion image: %v", err)
			}
		}
		promotion.ImagePath = saved
	}

	// Непереданные поля сохраняют текущие значения
	if name, ok := c.GetPostForm("name"); ok {
		if strings.TrimSpace(name) == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Название акции не может быть пустым"})
			return
		}
		promotion.Name = strings.TrimSpace(name)
	}
	if description, ok := c.GetPostForm("description"); ok {
		promotion.Description = description
	}
	if courseLink, ok := c.GetPostForm("course_link"); ok {
		if strings.TrimSpace(courseLink) == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Ссылка на курс не может быть пустой"})
			return
		}
		promotion.CourseLink = strings.TrimSpace(courseLink)
	}
	if raw, ok := c.GetPostForm("discounted_price"); ok && strings.TrimSpace(raw) != "" {
		price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Цена должна быть числом."})
			return
		}
		promotion.DiscountedPrice = &price
	}
	if raw, ok := c.GetPostForm("start_date"); ok && strings.TrimSpace(raw) != "" {
		date, err := normalizeDate(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Неверный формат даты. Ожидается YYYY-MM-DD."})
			return
		}
		promotion.StartDate = &date
	}
	if raw, ok := c.GetPostForm("end_date"); ok && strings.TrimSpace(raw) != "" {
		date, err := normalizeDate(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Неверный формат даты. Ожидается YYYY-MM-DD."})
			return
		}
		promotion.EndDate = &date
	}
	if raw, ok := c.GetPostForm("is_period_enabled"); ok {
		promotion.IsPeriodEnabled = parseCheckbox(raw)
	}
	if raw, ok := c.GetPostForm("is_price_enabled"); ok {
		promotion.IsPriceEnabled = parseCheckbox(raw)
	}

	if !promotion.IsPeriodEnabled {
		promotion.StartDate = nil
		promotion.EndDate = nil
	}
	if !promotion.IsPriceEnabled {
		promotion.DiscountedPrice = nil
	}

	if err := h.promotions.Update(promotion); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Ошибка при обновлении акции"})
		return
	}
	c.JSON(http.StatusOK, toPromotionResponse(promotion))
}

// DeleteAPI удаляет акцию вместе с ее изображением
func (h *PromotionHandler) DeleteAPI(c *gin.Context) {
	promotion, ok := h.promotionFromPathAPI(c)
	if !ok {
		return
	}

	if promotion.ImagePath != "" {
		if err := h.images.DeleteImage(promotion.ImagePath); err != nil {
			log.Printf("failed to delete promotion image: %v", err)
		}
	}

	if err := h.promotions.Delete(promotion.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Ошибка при удалении акции из базы данных"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Акция успешно удалена"})
}

// CoursesAPI возвращает список курсов для выбора при создании акции
func (h *PromotionHandler) CoursesAPI(c *gin.Context) {
	courses, err := h.courses.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Ошибка при получении курсов"})
		return
	}
	response := make([]gin.H, 0, len(courses))
	for _, course := range courses {
		response = append(response, gin.H{
			"id":    course.ID,
			"name":  course.Name,
			"price": course.Price,
		})
	}
	c.JSON(http.StatusOK, response)
}

func (h *PromotionHandler) promotionFromPath(c *gin.Context) (*models.Promotion, bool) {
	id, err := strconv.ParseUint(c.Param("promotion_id"), 10, 32)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return nil, false
	}
	promotion, err := h.promotions.GetByID(uint(id))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return nil, false
	}
	return promotion, true
}

func (h *PromotionHandler) promotionFromPathAPI(c *gin.Context) (*models.Promotion, bool) {
	id, err := strconv.ParseUint(c.Param("promotion_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Акция не найдена"})
		return nil, false
	}
	promotion, err := h.promotions.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Акция не найдена"})
		return nil, false
	}
	return promotion, true
}

// promotionFromForm собирает акцию из полей формы. Цена и период
// сохраняются только при включенных флажках.
func promotionFromForm(c *gin.Context) (*models.Promotion, string, bool) {
	name := strings.TrimSpace(c.PostForm("name"))
	courseLink := strings.TrimSpace(c.PostForm("course_link"))
	if name == "" {
		return nil, "Название акции не может быть пустым", false
	}
	if courseLink == "" {
		return nil, "Ссылка на курс не может быть пустой", false
	}

	promotion := &models.Promotion{
		Name:            name,
		Description:     c.PostForm("description"),
		CourseLink:      courseLink,
		IsPeriodEnabled: parseCheckbox(c.PostForm("is_period_enabled")),
		IsPriceEnabled:  parseCheckbox(c.PostForm("is_price_enabled")),
	}

	if promotion.IsPriceEnabled {
		if raw := strings.TrimSpace(c.PostForm("discounted_price")); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil || price < 0 {
				return nil, "Цена должна быть числом.", false
			}
			promotion.DiscountedPrice = &price
		}
	}

	if promotion.IsPeriodEnabled {
		for _, field := range []struct {
			raw  string
			dest **string
		}{
			{c.PostForm("start_date"), &promotion.StartDate},
			{c.PostForm("end_date"), &promotion.EndDate},
		} {
			if strings.TrimSpace(field.raw) == "" {
				continue
			}
			date, err := normalizeDate(field.raw)
			if err != nil {
				return nil, "Неверный формат даты. Ожидается YYYY-MM-DD.", false
			}
			*field.dest = &date
		}
	}

	return promotion, "", true
}

func parseCheckbox(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func normalizeDate(value string) (string, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}
