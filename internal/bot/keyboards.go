package bot

import (
	"strings"

	"github.com/TheNotus/coursebot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// PageSize определяет количество кнопок тем или курсов на одной странице
const PageSize = 5

// MainMenuReplyKeyboard возвращает реплай-клавиатуру с одной кнопкой "Главное меню"
func MainMenuReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📚 Главное меню"),
		),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = false
	return keyboard
}

// MainMenuKeyboard возвращает инлайн-клавиатуру главного меню
func MainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Купить товары", Action{Name: ActionTopics}.Pack()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Каталог", Action{Name: ActionCatalog}.Pack()),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Акции", Action{Name: ActionPromotions}.Pack()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤝 Отзывы", Action{Name: ActionReviews}.Pack()),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ О проекте", Action{Name: ActionAboutProject}.Pack()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Поддержка", Action{Name: ActionSupport}.Pack()),
		),
	)
}

// TopicsKeyboard возвращает клавиатуру со страницей списка тем.
// Тема с изображением открывает карточку темы, без изображения — сразу курсы.
func TopicsKeyboard(topics []models.Topic, page int) tgbotapi.InlineKeyboardMarkup {
	start := page * PageSize
	end := start + PageSize
	if start > len(topics) {
		start = len(topics)
	}
	if end > len(topics) {
		end = len(topics)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, topic := range topics[start:end] {
		topicID := topic.ID
		action := Action{Name: ActionCourses, TopicID: &topicID, Page: page}
		if topic.ImagePath != "" {
			action.Name = ActionShowTopicDetails
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(topic.Name, action.Pack()),
		))
	}

	var pagination []tgbotapi.InlineKeyboardButton
	if page > 0 {
		pagination = append(pagination, tgbotapi.NewInlineKeyboardButtonData(
			"◀️ Предыдущая", Action{Name: ActionPrevPageTopics, Page: page - 1}.Pack()))
	}
	if end < len(topics) {
		pagination = append(pagination, tgbotapi.NewInlineKeyboardButtonData(
			"➡️ Вперед", Action{Name: ActionNextPageTopics, Page: page + 1}.Pack()))
	}
	if len(pagination) > 0 {
		rows = append(rows, pagination)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 В главное меню", Action{Name: ActionShowMainMenu}.Pack()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// CoursesKeyboard возвращает клавиатуру со страницей списка курсов темы
func CoursesKeyboard(courses []models.Course, topicID *uint, page int) tgbotapi.InlineKeyboardMarkup {
	start := page * PageSize
	end := start + PageSize
	if start > len(courses) {
		start = len(courses)
	}
	if end > len(courses) {
		end = len(courses)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, course := range courses[start:end] {
		courseID := course.ID
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(course.Name,
				Action{Name: ActionCourse, CourseID: &courseID, Page: page}.Pack()),
		))
	}

	var pagination []tgbotapi.InlineKeyboardButton
	if page > 0 {
		pagination = append(pagination, tgbotapi.NewInlineKeyboardButtonData(
			"◀️ Предыдущая", Action{Name: ActionPrevPageCourses, TopicID: topicID, Page: page - 1}.Pack()))
	}
	if end < len(courses) {
		pagination = append(pagination, tgbotapi.NewInlineKeyboardButtonData(
			"➡️ Вперед", Action{Name: ActionNextPageCourses, TopicID: topicID, Page: page + 1}.Pack()))
	}
	if len(pagination) > 0 {
		rows = append(rows, pagination)
	}

	backText := "🔙 В меню"
	backAction := Action{Name: ActionShowMainMenu}
	if topicID != nil {
		backText = "⬅️ Назад к темам"
		backAction = Action{Name: ActionTopics, TopicID: topicID, Page: page}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(backText, backAction.Pack()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// CourseKeyboard возвращает клавиатуру карточки курса без ссылки на оплату.
// Кнопка "В меню" ведет к родительской теме, если она есть.
func CourseKeyboard(courseID uint, parentTopicID *uint) tgbotapi.InlineKeyboardMarkup {
	backAction := Action{Name: ActionShowMainMenu}
	if parentTopicID != nil && *parentTopicID != 0 {
		backAction = Action{Name: ActionTopics, TopicID: parentTopicID}
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Оплатить",
				Action{Name: ActionPayment, CourseID: &courseID}.Pack()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 В меню", backAction.Pack()),
		),
	)
}

// BackToMainMenuKeyboard возвращает клавиатуру с одной кнопкой возврата в главное меню
func BackToMainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 В главное меню", Action{Name: ActionShowMainMenu}.Pack()),
		),
	)
}

// PaymentKeyboard возвращает клавиатуру с URL-кнопкой оплаты
func PaymentKeyboard(paymentURL string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("💳 Оплатить", paymentURL),
		),
	)
}

// PromotionKeyboard возвращает клавиатуру карточки акции
func PromotionKeyboard(courseLink string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if strings.TrimSpace(courseLink) != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("➡️ Перейти к курсу", courseLink),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 В главное меню", Action{Name: ActionShowMainMenu}.Pack()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// PromotionsListKeyboard возвращает клавиатуру со списком акций
func PromotionsListKeyboard(promotions []models.Promotion) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, promotion := range promotions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(promotion.Name,
				Action{Name: ActionShowPromotionDetails, PromotionID: promotion.ID}.Pack()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 В главное меню", Action{Name: ActionShowMainMenu}.Pack()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
