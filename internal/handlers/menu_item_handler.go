package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/TheNotus/coursebot/internal/models"
	"github.com/TheNotus/coursebot/internal/repository"
	"github.com/TheNotus/coursebot/pkg/storage"

	"github.com/gin-gonic/gin"
)

// MenuItemHandler обрабатывает страницы управления пунктами меню бота
type MenuItemHandler struct {
	menuItems repository.MenuItemRepository
	images    *storage.Storage
}

// NewMenuItemHandler создает новый обработчик пунктов меню
func NewMenuItemHandler(menuItems repository.MenuItemRepository, images *storage.Storage) *MenuItemHandler {
	return &MenuItemHandler{menuItems: menuItems, images: images}
}

// List показывает все пункты меню
func (h *MenuItemHandler) List(c *gin.Context) {
	items, err := h.menuItems.List()
	if err != nil {
		log.Printf("failed to list menu items: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "menu_items.html", gin.H{"menu_items": items})
}

// EditPage показывает форму редактирования пункта меню
func (h *MenuItemHandler) EditPage(c *gin.Context) {
	item, err := h.menuItems.GetByKey(c.Param("key"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/admin/menu_items")
		return
	}
	c.HTML(http.StatusOK, "edit_menu_item.html", gin.H{"item": item})
}

// Edit обновляет пункт меню
func (h *MenuItemHandler) Edit(c *gin.Context) {
	item, err := h.menuItems.GetByKey(c.Param("key"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/admin/menu_items")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	content := c.PostForm("content")
	urlLink := strings.TrimSpace(c.PostForm("url_link"))

	renderError := func(msg string) {
		preview := *item
		preview.Title = title
		preview.Content = content
		c.HTML(http.StatusOK, "edit_menu_item.html", gin.H{"item": &preview, "error": msg})
	}

	if utf8.RuneCountInString(content) > 1024 {
		renderError("Содержание не должно превышать 1024 символа")
		return
	}

	// Для каталога ссылка обязана быть полноценным URL
	if item.Key == models.MenuKeyCatalog {
		parsed, err := url.Parse(urlLink)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			renderError("Ссылка должна быть действительным URL-адресом")
			return
		}
	}

	if file, err := c.FormFile("image"); err == nil && file.Filename != "" {
		saved, err := h.images.SaveImage(file, storage.CategoryMenuItems)
		if err != nil {
			renderError("Файл должен быть изображением")
			return
		}
		item.ImagePath = saved
	}

	item.Title = title
	item.Content = content
	item.URLLink = urlLink
	if err := h.menuItems.Update(item); err != nil {
		log.Printf("failed to update menu item %q: %v", item.Key, err)
		renderError("Не удалось сохранить пункт меню")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/menu_items")
}
