package bot

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/TheNotus/coursebot/internal/repository"
	"github.com/TheNotus/coursebot/pkg/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Transport отправляет сообщения в Telegram от имени бота
type Transport interface {
	SendMessage(chatID int64, text string, markup interface{}) error
	SendPhoto(chatID int64, filePath, caption string, markup interface{}) error
	EditText(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	EditCaption(chatID int64, messageID int, caption string, markup *tgbotapi.InlineKeyboardMarkup) error
	DeleteMessage(chatID int64, messageID int) error
	AnswerCallback(callbackID string) error
}

// Repositories объединяет репозитории, нужные навигатору
type Repositories struct {
	Users      repository.UserRepository
	Topics     repository.TopicRepository
	Courses    repository.CourseRepository
	Purchases  repository.PurchaseRepository
	MenuItems  repository.MenuItemRepository
	Promotions repository.PromotionRepository
}

// Фиксированные тексты ошибок редактирования. Отправляются новым сообщением
// после удаления старого.
const (
	errEmptyEditText    = "Произошла ошибка: невозможно отредактировать сообщение с пустым текстом."
	errEmptyEditCaption = "Произошла ошибка: невозможно отредактировать сообщение с пустой подписью."
)

// errInvalidRequest показывается вместо экрана, когда callback-данные
// не разбираются.
const errInvalidRequest = "Некорректный запрос. Вернитесь в главное меню."

const (
	mainMenuText     = "📚 Главное меню\n\nВыберите действие:"
	mainMenuEditText = "📚 Главное меню\nВыберите действие:"
	topicsListText   = "Здесь представлен список всех наших когда-либо созданных цифровых продуктов, мы разбили на категории для удобства. Выбирайте что вам по душе:"
)

// screen описывает сообщение, поверх которого рисуется следующий экран
type screen struct {
	ChatID    int64
	MessageID int
	HasPhoto  bool
}

// Navigator обрабатывает команды и callback-запросы бота,
// отрисовывая экраны магазина поверх текущего сообщения
type Navigator struct {
	transport Transport
	images    *storage.Storage
	mediaDir  string
	repos     Repositories
}

// NewNavigator создает новый навигатор
func NewNavigator(transport Transport, images *storage.Storage, mediaDir string, repos Repositories) *Navigator {
	return &Navigator{
		transport: transport,
		images:    images,
		mediaDir:  mediaDir,
		repos:     repos,
	}
}

// HandleUpdate обрабатывает одно обновление от Telegram
func (n *Navigator) HandleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if err := n.handleMessage(update.Message); err != nil {
			log.Printf("message handler error: %v", err)
		}
	case update.CallbackQuery != nil:
		if err := n.handleCallback(update.CallbackQuery); err != nil {
			log.Printf("callback handler error: %v", err)
		}
	}
}

func (n *Navigator) handleMessage(message *tgbotapi.Message) error {
	if message.From == nil {
		return nil
	}

	if message.IsCommand() && message.Command() == "start" {
		return n.handleStart(message.Chat.ID, message.From.ID, message.From.UserName)
	}

	if strings.TrimSpace(message.Text) == "📚 Главное меню" {
		return n.sendMainMenu(message.Chat.ID, false)
	}

	return nil
}

func (n *Navigator) handleCallback(callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil {
		return n.transport.AnswerCallback(callback.ID)
	}

	s := screen{
		ChatID:    callback.Message.Chat.ID,
		MessageID: callback.Message.MessageID,
		HasPhoto:  len(callback.Message.Photo) > 0,
	}

	action, err := ParseAction(callback.Data)
	if err != nil {
		log.Printf("failed to parse callback data: %v", err)
		keyboard := BackToMainMenuKeyboard()
		if err := n.safeEditText(s, errInvalidRequest, &keyboard); err != nil {
			log.Printf("failed to show invalid request screen: %v", err)
		}
		return n.transport.AnswerCallback(callback.ID)
	}

	var handlerErr error
	switch action.Name {
	case ActionShowMainMenu, ActionMainMenu:
		handlerErr = n.showMainMenu(s)
	case ActionAboutProject:
		handlerErr = n.showInfoSection(s, "about_project",
			"Информация о проекте временно недоступна.", Action{Name: ActionMainMenu})
	case ActionSupport:
		handlerErr = n.showInfoSection(s, "support",
			"Информация о поддержке временно недоступна.", Action{Name: ActionMainMenu})
	case ActionReviews:
		handlerErr = n.showReviews(s)
	case ActionCatalog:
		handlerErr = n.showCatalog(s)
	case ActionPromotions:
		handlerErr = n.showPromotions(s)
	case ActionShowPromotionDetails:
		handlerErr = n.showPromotionDetails(s, action.PromotionID)
	case ActionTopics:
		handlerErr = n.showTopics(s, action.Page)
	case ActionPrevPageTopics, ActionNextPageTopics:
		handlerErr = n.showTopicsPage(s, action.Page)
	case ActionShowTopicDetails:
		handlerErr = n.showTopicDetails(s, action.TopicID)
	case ActionCourses, ActionPrevPageCourses:
		handlerErr = n.showCourses(s, action.TopicID, action.Page, false)
	case ActionNextPageCourses:
		handlerErr = n.showCourses(s, action.TopicID, action.Page, true)
	case ActionCourse:
		handlerErr = n.showCourse(s, action.CourseID)
	case ActionPayment:
		handlerErr = n.handlePayment(s, callback.From.ID, action.CourseID)
	}

	if err := n.transport.AnswerCallback(callback.ID); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
	return handlerErr
}

// handleStart регистрирует пользователя и показывает главное меню
func (n *Navigator) handleStart(chatID, telegramID int64, username string) error {
	if _, err := n.repos.Users.Upsert(telegramID, username); err != nil {
		log.Printf("failed to register user %d: %v", telegramID, err)
	}

	if err := n.transport.SendMessage(chatID, "Добро пожаловать! 👋", MainMenuReplyKeyboard()); err != nil {
		return err
	}
	return n.sendMainMenu(chatID, true)
}

// sendMainMenu отправляет главное меню новым сообщением,
// с приветственной картинкой или без нее
func (n *Navigator) sendMainMenu(chatID int64, withPhoto bool) error {
	keyboard := MainMenuKeyboard()
	if withPhoto {
		photoPath := filepath.Join(n.mediaDir, "start.png")
		if fileExists(photoPath) {
			return n.transport.SendPhoto(chatID, photoPath, mainMenuText, keyboard)
		}
	}
	return n.transport.SendMessage(chatID, mainMenuText, keyboard)
}

// showMainMenu возвращает пользователя в главное меню. Экран с фото
// пересоздается, текстовый экран редактируется на месте.
func (n *Navigator) showMainMenu(s screen) error {
	if s.HasPhoto {
		if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
			log.Printf("failed to delete message: %v", err)
		}
		return n.sendMainMenu(s.ChatID, true)
	}
	keyboard := MainMenuKeyboard()
	return n.safeEditText(s, mainMenuEditText, &keyboard)
}

// showInfoSection показывает текстовый раздел меню ("О проекте", "Поддержка")
func (n *Navigator) showInfoSection(s screen, key, fallback string, back Action) error {
	content := fallback
	imagePath := ""
	if item, err := n.repos.MenuItems.GetByKey(key); err == nil {
		content = item.Content
		imagePath = item.ImagePath
	}

	if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
		log.Printf("failed to delete message: %v", err)
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 В главное меню", back.Pack()),
		),
	)

	if local, ok := n.localImage(imagePath); ok {
		return n.transport.SendPhoto(s.ChatID, local, content, keyboard)
	}
	return n.transport.SendMessage(s.ChatID, content, keyboard)
}

// showReviews показывает раздел отзывов со ссылкой на внешнюю площадку
func (n *Navigator) showReviews(s screen) error {
	content := "Информация об отзывах временно недоступна."
	imagePath := ""
	urlLink := ""
	if item, err := n.repos.MenuItems.GetByKey("reviews"); err == nil {
		content = item.Content
		imagePath = item.ImagePath
		urlLink = item.URLLink
	}

	if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
		log.Printf("failed to delete message: %v", err)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if urlLink != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Перейти к отзывам", urlLink),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 В главное меню", Action{Name: ActionShowMainMenu}.Pack()),
	))
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)

	if local, ok := n.localImage(imagePath); ok {
		return n.transport.SendPhoto(s.ChatID, local, content, keyboard)
	}
	return n.transport.SendMessage(s.ChatID, content, keyboard)
}

// showCatalog показывает раздел каталога со ссылкой на внешний каталог
func (n *Navigator) showCatalog(s screen) error {
	content := "Ссылка на каталог временно недоступна."
	imagePath := ""
	urlLink := "https://example.com"
	if item, err := n.repos.MenuItems.GetByKey("catalog"); err == nil {
		content = item.Content
		imagePath = item.ImagePath
		if item.URLLink != "" {
			urlLink = item.URLLink
		}
	}

	if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
		log.Printf("failed to delete message: %v", err)
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🌐 Перейти в каталог", urlLink),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 В главное меню", Action{Name: ActionMainMenu}.Pack()),
		),
	)

	if local, ok := n.localImage(imagePath); ok {
		return n.transport.SendPhoto(s.ChatID, local, content, keyboard)
	}
	return n.transport.SendMessage(s.ChatID, content, keyboard)
}

// showPromotions показывает список акций
func (n *Navigator) showPromotions(s screen) error {
	promotions, err := n.repos.Promotions.ListActive()
	if err != nil {
		return fmt.Errorf("failed to load promotions: %w", err)
	}

	if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
		log.Printf("failed to delete message: %v", err)
	}

	if len(promotions) == 0 {
		return n.transport.SendMessage(s.ChatID,
			"К сожалению, в данный момент активных акций нет.", BackToMainMenuKeyboard())
	}
	return n.transport.SendMessage(s.ChatID, "Выберите акцию:", PromotionsListKeyboard(promotions))
}

// showPromotionDetails показывает карточку акции
func (n *Navigator) showPromotionDetails(s screen, promotionID uint) error {
	promotion, err := n.repos.Promotions.GetByID(promotionID)

	if delErr := n.transport.DeleteMessage(s.ChatID, s.MessageID); delErr != nil {
		log.Printf("failed to delete message: %v", delErr)
	}

	if err != nil {
		return n.transport.SendMessage(s.ChatID,
			"К сожалению, акция не найдена или неактивна.", BackToMainMenuKeyboard())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✨ <b>%s</b>\n\n%s\n\n", promotion.Name, promotion.Description)
	if promotion.IsPriceEnabled && promotion.DiscountedPrice != nil {
		fmt.Fprintf(&b, "💰 Цена по акции: %s руб.\n", formatPrice(*promotion.DiscountedPrice))
	}
	if promotion.IsPeriodEnabled && promotion.StartDate != nil && promotion.EndDate != nil {
		fmt.Fprintf(&b, "🗓️ Период действия: с %s по %s",
			formatDate(*promotion.StartDate), formatDate(*promotion.EndDate))
	}
	text := strings.TrimRight(b.String(), "\n")

	keyboard := PromotionKeyboard(promotion.CourseLink)

	if local, ok := n.localImage(promotion.ImagePath); ok {
		return n.transport.SendPhoto(s.ChatID, local, text, keyboard)
	}
	return n.transport.SendMessage(s.ChatID, text, keyboard)
}

// showTopics показывает первый экран списка тем, с обложкой каталога если она есть
func (n *Navigator) showTopics(s screen, page int) error {
	topics, err := n.repos.Topics.List()
	if err != nil {
		return fmt.Errorf("failed to load topics: %w", err)
	}

	if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
		log.Printf("failed to delete message: %v", err)
	}

	if len(topics) == 0 {
		return n.transport.SendMessage(s.ChatID,
			"К сожалению, пока нет доступных тем курсов.", MainMenuKeyboard())
	}

	keyboard := TopicsKeyboard(topics, page)
	photoPath := filepath.Join(n.mediaDir, "topics.png")
	if fileExists(photoPath) {
		return n.transport.SendPhoto(s.ChatID, photoPath, topicsListText, keyboard)
	}
	return n.transport.SendMessage(s.ChatID, topicsListText, keyboard)
}

// showTopicsPage перелистывает список тем на месте
func (n *Navigator) showTopicsPage(s screen, page int) error {
	topics, err := n.repos.Topics.List()
	if err != nil {
		return fmt.Errorf("failed to load topics: %w", err)
	}

	if len(topics) == 0 {
		return n.safeEditText(s, "К сожалению, пока нет доступных тем курсов.", nil)
	}

	keyboard := TopicsKeyboard(topics, page)
	return n.safeEditText(s, topicsListText, &keyboard)
}

// showTopicDetails показывает карточку темы с изображением и списком ее курсов
func (n *Navigator) showTopicDetails(s screen, topicID *uint) error {
	if topicID == nil {
		return n.safeEditText(s, "К сожалению, информация о теме недоступна.", nil)
	}
	topic, err := n.repos.Topics.GetByID(*topicID)
	if err != nil {
		return n.safeEditText(s, "К сожалению, информация о теме недоступна.", nil)
	}

	courses, err := n.repos.Courses.ListByTopic(topic.ID)
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}

	text := fmt.Sprintf("📚 <b>%s</b>\n\nВыберите курс в этой теме:", topic.Name)
	id := topic.ID
	keyboard := CoursesKeyboard(courses, &id, 0)

	if local, ok := n.localImage(topic.ImagePath); ok {
		if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
			log.Printf("failed to delete message: %v", err)
		}
		return n.transport.SendPhoto(s.ChatID, local, text, keyboard)
	}
	return n.safeEditText(s, text, &keyboard)
}

// showCourses показывает страницу списка курсов темы.
// editCaption=true используется при листании поверх экрана с фото.
func (n *Navigator) showCourses(s screen, topicID *uint, page int, editCaption bool) error {
	if topicID == nil {
		return n.safeEditText(s, "Не указана тема для отображения курсов.", nil)
	}

	courses, err := n.repos.Courses.ListByTopic(*topicID)
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}
	if len(courses) == 0 {
		return n.safeEditText(s, "К сожалению, в этой теме пока нет курсов.", nil)
	}

	topicName := "Неизвестная тема"
	if topic, err := n.repos.Topics.GetByID(*topicID); err == nil {
		if name := strings.TrimSpace(topic.Name); name != "" {
			topicName = name
		}
	}

	text := fmt.Sprintf("Товары в теме '%s':", topicName)
	keyboard := CoursesKeyboard(courses, topicID, page)

	if editCaption && s.HasPhoto {
		return n.safeEditCaption(s, text, &keyboard)
	}
	return n.safeEditText(s, text, &keyboard)
}

// showCourse показывает карточку курса
func (n *Navigator) showCourse(s screen, courseID *uint) error {
	if courseID == nil {
		return n.safeEditText(s, "К сожалению, информация о курсе недоступна.", nil)
	}
	course, err := n.repos.Courses.GetByID(*courseID)
	if err != nil {
		return n.safeEditText(s, "К сожалению, информация о курсе недоступна.", nil)
	}

	text := fmt.Sprintf("📚 <b>%s</b>\n\n%s\n\n<b>Цена:</b> %s руб.",
		course.Name, course.Description, formatPrice(course.Price))

	var keyboard tgbotapi.InlineKeyboardMarkup
	if course.PaymentLink != "" {
		keyboard = PaymentKeyboard(course.PaymentLink)
	} else {
		var parentID *uint
		if topic, err := n.repos.Topics.GetByID(course.TopicID); err == nil {
			parentID = topic.ParentID
		}
		keyboard = CourseKeyboard(course.ID, parentID)
	}

	if local, ok := n.localImage(course.ImagePath); ok {
		if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
			log.Printf("failed to delete message: %v", err)
		}
		return n.transport.SendPhoto(s.ChatID, local, text, keyboard)
	}
	return n.safeEditText(s, text, &keyboard)
}

// handlePayment обрабатывает кнопку "Оплатить". Уже купленный курс
// открывается сразу, без повторной проверки ссылки на оплату.
func (n *Navigator) handlePayment(s screen, telegramID int64, courseID *uint) error {
	if courseID == nil {
		return n.safeEditText(s, "К сожалению, информация о курсе недоступна.", nil)
	}
	course, err := n.repos.Courses.GetByID(*courseID)
	if err != nil {
		return n.safeEditText(s, "К сожалению, информация о курсе недоступна.", nil)
	}

	if user, err := n.repos.Users.GetByTelegramID(telegramID); err == nil {
		purchase, err := n.repos.Purchases.GetByUserAndCourse(user.ID, course.ID)
		if err != nil {
			return fmt.Errorf("failed to check purchase: %w", err)
		}
		if purchase != nil {
			text := fmt.Sprintf("Спасибо за покупку курса '%s'!\n\nДоступ к курсу открыт.", course.Name)
			keyboard := BackToMainMenuKeyboard()
			return n.safeEditText(s, text, &keyboard)
		}
	}

	if !strings.HasPrefix(course.PaymentLink, "http") {
		keyboard := BackToMainMenuKeyboard()
		return n.safeEditText(s,
			"К сожалению, ссылка на оплату сейчас недоступна. Пожалуйста, свяжитесь с администратором.",
			&keyboard)
	}

	text := fmt.Sprintf("Курс '%s' доступен для покупки за %s руб.", course.Name, formatPrice(course.Price))
	keyboard := PaymentKeyboard(course.PaymentLink)

	if local, ok := n.localImage(course.ImagePath); ok {
		if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
			log.Printf("failed to delete message: %v", err)
		}
		return n.transport.SendPhoto(s.ChatID, local, text, keyboard)
	}
	return n.safeEditText(s, text, &keyboard)
}

// safeEditText редактирует текст сообщения. Пустой текст приводит к
// пересозданию сообщения с фиксированным текстом ошибки. Если текст
// отредактировать не удалось, редактируется подпись (для экрана с фото),
// в крайнем случае сообщение пересоздается.
func (n *Navigator) safeEditText(s screen, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
			log.Printf("failed to delete message: %v", err)
		}
		return n.transport.SendMessage(s.ChatID, errEmptyEditText, markupValue(markup))
	}

	if err := n.transport.EditText(s.ChatID, s.MessageID, stripped, markup); err != nil {
		if s.HasPhoto {
			if err := n.transport.EditCaption(s.ChatID, s.MessageID, stripped, markup); err == nil {
				return nil
			}
		}
		if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
			log.Printf("failed to delete message: %v", err)
		}
		return n.transport.SendMessage(s.ChatID, stripped, markupValue(markup))
	}
	return nil
}

// safeEditCaption редактирует подпись сообщения с теми же гарантиями,
// что и safeEditText
func (n *Navigator) safeEditCaption(s screen, caption string, markup *tgbotapi.InlineKeyboardMarkup) error {
	stripped := strings.TrimSpace(caption)
	if stripped == "" {
		if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
			log.Printf("failed to delete message: %v", err)
		}
		return n.transport.SendMessage(s.ChatID, errEmptyEditCaption, markupValue(markup))
	}

	if err := n.transport.EditCaption(s.ChatID, s.MessageID, stripped, markup); err != nil {
		if err := n.transport.DeleteMessage(s.ChatID, s.MessageID); err != nil {
			log.Printf("failed to delete message: %v", err)
		}
		return n.transport.SendMessage(s.ChatID, stripped, markupValue(markup))
	}
	return nil
}

// localImage переводит сохраненный в базе путь изображения в путь на диске.
// Возвращает false, если изображение не задано или файла нет.
func (n *Navigator) localImage(imagePath string) (string, bool) {
	if imagePath == "" {
		return "", false
	}
	local, ok := n.images.LocalPath(imagePath)
	if !ok {
		// Путь может быть уже локальным
		local = imagePath
	}
	if !fileExists(local) {
		return "", false
	}
	return local, true
}

func markupValue(markup *tgbotapi.InlineKeyboardMarkup) interface{} {
	if markup == nil {
		return nil
	}
	return *markup
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// formatPrice печатает цену без незначащих нулей
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// formatDate переводит дату из формата хранения в отображаемый
func formatDate(value string) string {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "Дата не указана"
	}
	return t.Format("02.01.2006")
}
