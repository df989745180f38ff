package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/TheNotus/coursebot/internal/models"
	"github.com/TheNotus/coursebot/internal/repository"
	"github.com/TheNotus/coursebot/pkg/storage"

	"github.com/gin-gonic/gin"
)

// CourseHandler обрабатывает страницы управления курсами темы
type CourseHandler struct {
	courses repository.CourseRepository
	topics  repository.TopicRepository
	images  *storage.Storage
}

// NewCourseHandler создает новый обработчик курсов
func NewCourseHandler(courses repository.CourseRepository, topics repository.TopicRepository, images *storage.Storage) *CourseHandler {
	return &CourseHandler{courses: courses, topics: topics, images: images}
}

// courseForm хранит поля формы курса между проверками
type courseForm struct {
	Name        string
	Description string
	Price       string
	PaymentLink string
}

// List показывает курсы выбранной темы
func (h *CourseHandler) List(c *gin.Context) {
	topic, ok := h.topicFromPath(c)
	if !ok {
		return
	}

	courses, err := h.courses.ListByTopic(topic.ID)
	if err != nil {
		log.Printf("failed to list courses: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}

	c.HTML(http.StatusOK, "courses.html", gin.H{
		"courses": courses,
		"topic":   topic,
	})
}

// AddPage показывает форму добавления курса
func (h *CourseHandler) AddPage(c *gin.Context) {
	topic, ok := h.topicFromPath(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "add_edit_course.html", gin.H{"course": nil, "topic": topic})
}

// Add создает новый курс в теме
func (h *CourseHandler) Add(c *gin.Context) {
	topic, ok := h.topicFromPath(c)
	if !ok {
		return
	}

	form := readCourseForm(c)
	renderError := func(msg string) {
		c.HTML(http.StatusOK, "add_edit_course.html", gin.H{
			"course": nil, "topic": topic, "error": msg,
		})
	}

	imagePath := ""
	if file, err := c.FormFile("image"); err == nil && file.Filename != "" {
		saved, err := h.images.SaveImage(file, storage.CategoryCourses)
		if err != nil {
			renderError("Файл должен быть изображением")
			return
		}
		imagePath = saved
	}

	price, msg, ok := validateCourseForm(form)
	if !ok {
		renderError(msg)
		return
	}

	course := models.Course{
		TopicID:     topic.ID,
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		PaymentLink: form.PaymentLink,
		ImagePath:   imagePath,
	}
	if err := h.courses.Create(&course); err != nil {
		log.Printf("failed to create course: %v", err)
		renderError("Не удалось сохранить курс")
		return
	}

	c.Redirect(http.StatusSeeOther, "/topics/"+strconv.FormatUint(uint64(topic.ID), 10)+"/courses")
}

// EditPage показывает форму редактирования курса
func (h *CourseHandler) EditPage(c *gin.Context) {
	topic, course, ok := h.courseFromPath(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "add_edit_course.html", gin.H{"course": course, "topic": topic})
}

// Edit обновляет курс
func (h *CourseHandler) Edit(c *gin.Context) {
	topic, course, ok := h.courseFromPath(c)
	if !ok {
		return
	}

	form := readCourseForm(c)
	renderError := func(msg string) {
		c.HTML(http.StatusOK, "add_edit_course.html", gin.H{
			"course": course, "topic": topic, "error": msg,
		})
	}

	if file, err := c.FormFile("image"); err == nil && file.Filename != "" {
		saved, err := h.images.SaveImage(file, storage.CategoryCourses)
		if err != nil {
			renderError("Файл должен быть изображением")
			return
		}
		course.ImagePath = saved
	}

	price, msg, ok := validateCourseForm(form)
	if !ok {
		renderError(msg)
		return
	}

	course.Name = form.Name
	course.Description = form.Description
	course.Price = price
	course.PaymentLink = form.PaymentLink
	if err := h.courses.Update(course); err != nil {
		log.Printf("failed to update course: %v", err)
		renderError("Не удалось сохранить курс")
		return
	}

	c.Redirect(http.StatusSeeOther, "/topics/"+strconv.FormatUint(uint64(topic.ID), 10)+"/courses")
}

// Delete удаляет курс
func (h *CourseHandler) Delete(c *gin.Context) {
	topic, course, ok := h.courseFromPath(c)
	if !ok {
		return
	}
	if err := h.courses.Delete(course.ID); err != nil {
		log.Printf("failed to delete course %d: %v", course.ID, err)
	}
	c.Redirect(http.StatusSeeOther, "/topics/"+strconv.FormatUint(uint64(topic.ID), 10)+"/courses")
}

func (h *CourseHandler) topicFromPath(c *gin.Context) (*models.Topic, bool) {
	id, err := strconv.ParseUint(c.Param("topic_id"), 10, 32)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return nil, false
	}
	topic, err := h.topics.GetByID(uint(id))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return nil, false
	}
	return topic, true
}

// courseFromPath загружает курс и проверяет его принадлежность теме из пути
func (h *CourseHandler) courseFromPath(c *gin.Context) (*models.Topic, *models.Course, bool) {
	topic, ok := h.topicFromPath(c)
	if !ok {
		return nil, nil, false
	}

	courseID, err := strconv.ParseUint(c.Param("course_id"), 10, 32)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return nil, nil, false
	}
	course, err := h.courses.GetByID(uint(courseID))
	if err != nil || course.TopicID != topic.ID {
		c.Redirect(http.StatusSeeOther, "/")
		return nil, nil, false
	}
	return topic, course, true
}

func readCourseForm(c *gin.Context) courseForm {
	return courseForm{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Price:       strings.TrimSpace(c.PostForm("price")),
		PaymentLink: strings.TrimSpace(c.PostForm("payment_link")),
	}
}

func validateCourseForm(form courseForm) (float64, string, bool) {
	if utf8.RuneCountInString(form.Description) > 1024 {
		return 0, "Описание не должно превышать 1024 символа", false
	}
	if form.Name == "" || form.Price == "" {
		return 0, "Название и цена не могут быть пустыми", false
	}
	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil {
		return 0, "Цена должна быть числом", false
	}
	return price, "", true
}
