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

// TopicHandler обрабатывает страницы управления темами
type TopicHandler struct {
	topics repository.TopicRepository
	images *storage.Storage
}

// NewTopicHandler создает новый обработчик тем
func NewTopicHandler(topics repository.TopicRepository, images *storage.Storage) *TopicHandler {
	return &TopicHandler{topics: topics, images: images}
}

// Index показывает главную страницу со списком тем
func (h *TopicHandler) Index(c *gin.Context) {
	topics, err := h.topics.List()
	if err != nil {
		log.Printf("failed to list topics: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"topics": topics})
}

// AddPage показывает форму добавления темы
func (h *TopicHandler) AddPage(c *gin.Context) {
	c.HTML(http.StatusOK, "add_edit_topic.html", gin.H{"topic": nil})
}

// Add создает новую тему
func (h *TopicHandler) Add(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))

	if msg, ok := validateTopicName(name); !ok {
		c.HTML(http.StatusOK, "add_edit_topic.html", gin.H{"topic": nil, "error": msg})
		return
	}

	imagePath := ""
	if file, err := c.FormFile("image"); err == nil && file.Filename != "" {
		saved, err := h.images.SaveImage(file, storage.CategoryTopics)
		if err != nil {
			c.HTML(http.StatusOK, "add_edit_topic.html", gin.H{"topic": nil, "error": "Файл должен быть изображением"})
			return
		}
		imagePath = saved
	}

	topic := models.Topic{Name: name, ImagePath: imagePath}
	if err := h.topics.Create(&topic); err != nil {
		log.Printf("failed to create topic: %v", err)
		c.HTML(http.StatusOK, "add_edit_topic.html", gin.H{"topic": nil, "error": "Не удалось сохранить тему"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// EditPage показывает форму редактирования темы
func (h *TopicHandler) EditPage(c *gin.Context) {
	topic, ok := h.topicFromPath(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "add_edit_topic.html", gin.H{"topic": topic})
}

// Edit обновляет тему
func (h *TopicHandler) Edit(c *gin.Context) {
	topic, ok := h.topicFromPath(c)
	if !ok {
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if msg, ok := validateTopicName(name); !ok {
		c.HTML(http.StatusOK, "add_edit_topic.html", gin.H{"topic": topic, "error": msg})
		return
	}

	if file, err := c.FormFile("image"); err == nil && file.Filename != "" {
		saved, err := h.images.SaveImage(file, storage.CategoryTopics)
		if err != nil {
			c.HTML(http.StatusOK, "add_edit_topic.html", gin.H{"topic": topic, "error": "Файл должен быть изображением"})
			return
		}
		topic.ImagePath = saved
	}

	topic.Name = name
	if err := h.topics.Update(topic); err != nil {
		log.Printf("failed to update topic: %v", err)
		c.HTML(http.StatusOK, "add_edit_topic.html", gin.H{"topic": topic, "error": "Не удалось сохранить тему"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Delete удаляет тему вместе с ее курсами
func (h *TopicHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("topic_id"), 10, 32)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if err := h.topics.Delete(uint(id)); err != nil {
		log.Printf("failed to delete topic %d: %v", id, err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *TopicHandler) topicFromPath(c *gin.Context) (*models.Topic, bool) {
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

func validateTopicName(name string) (string, bool) {
	if utf8.RuneCountInString(name) > 100 {
		return "Название темы не должно превышать 100 символов", false
	}
	if name == "" {
		return "Название темы не может быть пустым", false
	}
	return "", true
}
