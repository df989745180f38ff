package bot

import (
	"errors"
	"testing"

	"github.com/TheNotus/coursebot/internal/models"
	"github.com/TheNotus/coursebot/pkg/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transportCall struct {
	method    string
	chatID    int64
	messageID int
	text      string
	markup    interface{}
}

// fakeTransport записывает вызовы вместо отправки в Telegram
type fakeTransport struct {
	calls          []transportCall
	editTextErr    error
	editCaptionErr error
}

func (t *fakeTransport) SendMessage(chatID int64, text string, markup interface{}) error {
	t.calls = append(t.calls, transportCall{method: "SendMessage", chatID: chatID, text: text, markup: markup})
	return nil
}

func (t *fakeTransport) SendPhoto(chatID int64, filePath, caption string, markup interface{}) error {
	t.calls = append(t.calls, transportCall{method: "SendPhoto", chatID: chatID, text: caption, markup: markup})
	return nil
}

func (t *fakeTransport) EditText(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	t.calls = append(t.calls, transportCall{method: "EditText", chatID: chatID, messageID: messageID, text: text, markup: markup})
	return t.editTextErr
}

func (t *fakeTransport) EditCaption(chatID int64, messageID int, caption string, markup *tgbotapi.InlineKeyboardMarkup) error {
	t.calls = append(t.calls, transportCall{method: "EditCaption", chatID: chatID, messageID: messageID, text: caption, markup: markup})
	return t.editCaptionErr
}

func (t *fakeTransport) DeleteMessage(chatID int64, messageID int) error {
	t.calls = append(t.calls, transportCall{method: "DeleteMessage", chatID: chatID, messageID: messageID})
	return nil
}

func (t *fakeTransport) AnswerCallback(callbackID string) error {
	t.calls = append(t.calls, transportCall{method: "AnswerCallback"})
	return nil
}

func (t *fakeTransport) methods() []string {
	names := make([]string, len(t.calls))
	for i, call := range t.calls {
		names[i] = call.method
	}
	return names
}

func (t *fakeTransport) lastOf(method string) (transportCall, bool) {
	for i := len(t.calls) - 1; i >= 0; i-- {
		if t.calls[i].method == method {
			return t.calls[i], true
		}
	}
	return transportCall{}, false
}

var errNotFound = errors.New("record not found")

type fakeUserRepo struct {
	users map[int64]*models.User
}

func (r *fakeUserRepo) Upsert(telegramID int64, username string) (*models.User, error) {
	if user, ok := r.users[telegramID]; ok {
		user.Username = username
		return user, nil
	}
	user := &models.User{ID: uint(len(r.users) + 1), TelegramID: telegramID, Username: username}
	if r.users == nil {
		r.users = map[int64]*models.User{}
	}
	r.users[telegramID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByTelegramID(telegramID int64) (*models.User, error) {
	if user, ok := r.users[telegramID]; ok {
		return user, nil
	}
	return nil, errNotFound
}

func (r *fakeUserRepo) List() ([]models.User, error) { return nil, nil }

type fakeTopicRepo struct {
	topics []models.Topic
}

func (r *fakeTopicRepo) Create(topic *models.Topic) error { return nil }

func (r *fakeTopicRepo) GetByID(id uint) (*models.Topic, error) {
	for i := range r.topics {
		if r.topics[i].ID == id {
			return &r.topics[i], nil
		}
	}
	return nil, errNotFound
}

func (r *fakeTopicRepo) Update(topic *models.Topic) error { return nil }
func (r *fakeTopicRepo) Delete(id uint) error             { return nil }

func (r *fakeTopicRepo) List() ([]models.Topic, error) { return r.topics, nil }

func (r *fakeTopicRepo) ListByParent(parentID *uint) ([]models.Topic, error) { return nil, nil }

type fakeCourseRepo struct {
	courses []models.Course
}

func (r *fakeCourseRepo) Create(course *models.Course) error { return nil }

func (r *fakeCourseRepo) GetByID(id uint) (*models.Course, error) {
	for i := range r.courses {
		if r.courses[i].ID == id {
			return &r.courses[i], nil
		}
	}
	return nil, errNotFound
}

func (r *fakeCourseRepo) Update(course *models.Course) error { return nil }
func (r *fakeCourseRepo) Delete(id uint) error               { return nil }

func (r *fakeCourseRepo) List() ([]models.Course, error) { return r.courses, nil }

func (r *fakeCourseRepo) ListByTopic(topicID uint) ([]models.Course, error) {
	var result []models.Course
	for _, course := range r.courses {
		if course.TopicID == topicID {
			result = append(result, course)
		}
	}
	return result, nil
}

type fakePurchaseRepo struct {
	purchases []models.Purchase
}

func (r *fakePurchaseRepo) Create(userID, courseID uint, amount float64) (*models.Purchase, error) {
	purchase := models.Purchase{ID: uint(len(r.purchases) + 1), UserID: userID, CourseID: courseID, Amount: amount}
	r.purchases = append(r.purchases, purchase)
	return &purchase, nil
}

func (r *fakePurchaseRepo) GetByUserAndCourse(userID, courseID uint) (*models.Purchase, error) {
	for i := range r.purchases {
		if r.purchases[i].UserID == userID && r.purchases[i].CourseID == courseID {
			return &r.purchases[i], nil
		}
	}
	return nil, nil
}

func (r *fakePurchaseRepo) ListByUser(userID uint) ([]models.Purchase, error) { return nil, nil }

type fakeMenuItemRepo struct {
	items map[string]*models.MenuItem
}

func (r *fakeMenuItemRepo) Create(item *models.MenuItem) error { return nil }

func (r *fakeMenuItemRepo) GetByID(id uint) (*models.MenuItem, error) { return nil, errNotFound }

func (r *fakeMenuItemRepo) GetByKey(key string) (*models.MenuItem, error) {
	if item, ok := r.items[key]; ok {
		return item, nil
	}
	return nil, errNotFound
}

func (r *fakeMenuItemRepo) Update(item *models.MenuItem) error { return nil }
func (r *fakeMenuItemRepo) Delete(id uint) error               { return nil }

func (r *fakeMenuItemRepo) List() ([]models.MenuItem, error) { return nil, nil }

type fakePromotionRepo struct {
	promotions []models.Promotion
}

func (r *fakePromotionRepo) Create(promotion *models.Promotion) error { return nil }

func (r *fakePromotionRepo) GetByID(id uint) (*models.Promotion, error) {
	for i := range r.promotions {
		if r.promotions[i].ID == id {
			return &r.promotions[i], nil
		}
	}
	return nil, errNotFound
}

func (r *fakePromotionRepo) Update(promotion *models.Promotion) error { return nil }
func (r *fakePromotionRepo) Delete(id uint) error                     { return nil }

func (r *fakePromotionRepo) List() ([]models.Promotion, error) { return r.promotions, nil }

func (r *fakePromotionRepo) ListActive() ([]models.Promotion, error) { return r.promotions, nil }

type fixtures struct {
	transport  *fakeTransport
	users      *fakeUserRepo
	topics     *fakeTopicRepo
	courses    *fakeCourseRepo
	purchases  *fakePurchaseRepo
	menuItems  *fakeMenuItemRepo
	promotions *fakePromotionRepo
}

func newTestNavigator(t *testing.T) (*Navigator, *fixtures) {
	t.Helper()

	images, err := storage.NewStorage(t.TempDir(), 10<<20)
	require.NoError(t, err)

	f := &fixtures{
		transport:  &fakeTransport{},
		users:      &fakeUserRepo{users: map[int64]*models.User{}},
		topics:     &fakeTopicRepo{},
		courses:    &fakeCourseRepo{},
		purchases:  &fakePurchaseRepo{},
		menuItems:  &fakeMenuItemRepo{items: map[string]*models.MenuItem{}},
		promotions: &fakePromotionRepo{},
	}

	navigator := NewNavigator(f.transport, images, t.TempDir(), Repositories{
		Users:      f.users,
		Topics:     f.topics,
		Courses:    f.courses,
		Purchases:  f.purchases,
		MenuItems:  f.menuItems,
		Promotions: f.promotions,
	})
	return navigator, f
}

func callbackUpdate(data string, fromID int64) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			From: &tgbotapi.User{ID: fromID, UserName: "tester"},
			Message: &tgbotapi.Message{
				MessageID: 10,
				Chat:      &tgbotapi.Chat{ID: 100},
			},
			Data: data,
		},
	}
}

func TestHandleStartRegistersUserAndShowsMenu(t *testing.T) {
	navigator, f := newTestNavigator(t)

	update := tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: 555, UserName: "newbie"},
			Chat:      &tgbotapi.Chat{ID: 100},
			Text:      "/start",
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: 6},
			},
		},
	}
	navigator.HandleUpdate(update)

	user, err := f.users.GetByTelegramID(555)
	require.NoError(t, err)
	assert.Equal(t, "newbie", user.Username)

	require.Len(t, f.transport.calls, 2)
	assert.Equal(t, "Добро пожаловать! 👋", f.transport.calls[0].text)
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, f.transport.calls[0].markup)
	assert.Equal(t, "📚 Главное меню\n\nВыберите действие:", f.transport.calls[1].text)
}

func TestHandlePaymentPurchasedCourseOpensAccess(t *testing.T) {
	navigator, f := newTestNavigator(t)

	f.courses.courses = []models.Course{
		{ID: 7, TopicID: 1, Name: "Разработка на Go", Price: 5990, PaymentLink: "not-a-link"},
	}
	user, err := f.users.Upsert(555, "buyer")
	require.NoError(t, err)
	_, err = f.purchases.Create(user.ID, 7, 5990)
	require.NoError(t, err)

	courseID := uint(7)
	navigator.HandleUpdate(callbackUpdate(Action{Name: ActionPayment, CourseID: &courseID}.Pack(), 555))

	// Покупка найдена, битая ссылка на оплату не проверяется
	call, ok := f.transport.lastOf("EditText")
	require.True(t, ok)
	assert.Equal(t, "Спасибо за покупку курса 'Разработка на Go'!\n\nДоступ к курсу открыт.", call.text)
}

func TestHandlePaymentInvalidLink(t *testing.T) {
	navigator, f := newTestNavigator(t)

	f.courses.courses = []models.Course{
		{ID: 7, TopicID: 1, Name: "Разработка на Go", Price: 5990, PaymentLink: "tg://resolve"},
	}

	courseID := uint(7)
	navigator.HandleUpdate(callbackUpdate(Action{Name: ActionPayment, CourseID: &courseID}.Pack(), 555))

	call, ok := f.transport.lastOf("EditText")
	require.True(t, ok)
	assert.Equal(t,
		"К сожалению, ссылка на оплату сейчас недоступна. Пожалуйста, свяжитесь с администратором.",
		call.text)
}

func TestHandlePaymentValidLink(t *testing.T) {
	navigator, f := newTestNavigator(t)

	f.courses.courses = []models.Course{
		{ID: 7, TopicID: 1, Name: "Python для начинающих", Price: 2990, PaymentLink: "https://pay.example.com/7"},
	}

	courseID := uint(7)
	navigator.HandleUpdate(callbackUpdate(Action{Name: ActionPayment, CourseID: &courseID}.Pack(), 555))

	call, ok := f.transport.lastOf("EditText")
	require.True(t, ok)
	assert.Equal(t, "Курс 'Python для начинающих' доступен для покупки за 2990 руб.", call.text)

	markup, ok := call.markup.(*tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 1)
	button := markup.InlineKeyboard[0][0]
	assert.Equal(t, "💳 Оплатить", button.Text)
	require.NotNil(t, button.URL)
	assert.Equal(t, "https://pay.example.com/7", *button.URL)
}

func TestShowCourseWithoutPaymentLink(t *testing.T) {
	navigator, f := newTestNavigator(t)

	f.topics.topics = []models.Topic{{ID: 1, Name: "Программирование"}}
	f.courses.courses = []models.Course{
		{ID: 7, TopicID: 1, Name: "Основы SQL", Description: "Запросы и не только", Price: 1990},
	}

	courseID := uint(7)
	navigator.HandleUpdate(callbackUpdate(Action{Name: ActionCourse, CourseID: &courseID}.Pack(), 555))

	call, ok := f.transport.lastOf("EditText")
	require.True(t, ok)
	assert.Equal(t, "📚 <b>Основы SQL</b>\n\nЗапросы и не только\n\n<b>Цена:</b> 1990 руб.", call.text)

	markup, ok := call.markup.(*tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	pay, err := ParseAction(*markup.InlineKeyboard[0][0].CallbackData)
	require.NoError(t, err)
	assert.Equal(t, ActionPayment, pay.Name)
	require.NotNil(t, pay.CourseID)
	assert.Equal(t, uint(7), *pay.CourseID)
}

func TestShowTopicsEmptyList(t *testing.T) {
	navigator, f := newTestNavigator(t)

	navigator.HandleUpdate(callbackUpdate(Action{Name: ActionTopics}.Pack(), 555))

	call, ok := f.transport.lastOf("SendMessage")
	require.True(t, ok)
	assert.Equal(t, "К сожалению, пока нет доступных тем курсов.", call.text)
}

func TestShowCoursesEmptyTopic(t *testing.T) {
	navigator, f := newTestNavigator(t)

	f.topics.topics = []models.Topic{{ID: 3, Name: "Дизайн"}}

	topicID := uint(3)
	navigator.HandleUpdate(callbackUpdate(Action{Name: ActionCourses, TopicID: &topicID}.Pack(), 555))

	call, ok := f.transport.lastOf("EditText")
	require.True(t, ok)
	assert.Equal(t, "К сожалению, в этой теме пока нет курсов.", call.text)
}

func TestShowPromotionsEmptyList(t *testing.T) {
	navigator, f := newTestNavigator(t)

	navigator.HandleUpdate(callbackUpdate(Action{Name: ActionPromotions}.Pack(), 555))

	call, ok := f.transport.lastOf("SendMessage")
	require.True(t, ok)
	assert.Equal(t, "К сожалению, в данный момент активных акций нет.", call.text)
}

func TestShowPromotionDetailsFormatting(t *testing.T) {
	navigator, f := newTestNavigator(t)

	price := 1490.0
	start := "2026-09-01"
	end := "2026-09-30"
	f.promotions.promotions = []models.Promotion{{
		ID:              4,
		Name:            "Осенняя распродажа",
		Description:     "Скидки на все курсы",
		CourseLink:      "https://example.com/sale",
		DiscountedPrice: &price,
		StartDate:       &start,
		EndDate:         &end,
		IsPriceEnabled:  true,
		IsPeriodEnabled: true,
	}}

	navigator.HandleUpdate(callbackUpdate(Action{Name: ActionShowPromotionDetails, PromotionID: 4}.Pack(), 555))

	call, ok := f.transport.lastOf("SendMessage")
	require.True(t, ok)
	assert.Equal(t,
		"✨ <b>Осенняя распродажа</b>\n\nСкидки на все курсы\n\n"+
			"💰 Цена по акции: 1490 руб.\n"+
			"🗓️ Период действия: с 01.09.2026 по 30.09.2026",
		call.text)
}

func TestShowPromotionDetailsFlagsIndependent(t *testing.T) {
	price := 990.0
	start := "2026-09-01"
	end := "2026-09-30"

	tests := []struct {
		name      string
		promotion models.Promotion
		want      string
	}{
		{
			name: "только цена",
			promotion: models.Promotion{
				ID: 1, Name: "Акция", Description: "Описание",
				DiscountedPrice: &price, IsPriceEnabled: true,
			},
			want: "✨ <b>Акция</b>\n\nОписание\n\n💰 Цена по акции: 990 руб.",
		},
		{
			name: "только период",
			promotion: models.Promotion{
				ID: 1, Name: "Акция", Description: "Описание",
				StartDate: &start, EndDate: &end, IsPeriodEnabled: true,
			},
			want: "✨ <b>Акция</b>\n\nОписание\n\n🗓️ Период действия: с 01.09.2026 по 30.09.2026",
		},
		{
			name: "флаги выключены",
			promotion: models.Promotion{
				ID: 1, Name: "Акция", Description: "Описание",
				DiscountedPrice: &price, StartDate: &start, EndDate: &end,
			},
			want: "✨ <b>Акция</b>\n\nОписание",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			navigator, f := newTestNavigator(t)
			f.promotions.promotions = []models.Promotion{tt.promotion}

			navigator.HandleUpdate(callbackUpdate(Action{Name: ActionShowPromotionDetails, PromotionID: 1}.Pack(), 555))

			call, ok := f.transport.lastOf("SendMessage")
			require.True(t, ok)
			assert.Equal(t, tt.want, call.text)
		})
	}
}

func TestShowPromotionDetailsNotFound(t *testing.T) {
	navigator, f := newTestNavigator(t)

	navigator.HandleUpdate(callbackUpdate(Action{Name: ActionShowPromotionDetails, PromotionID: 99}.Pack(), 555))

	call, ok := f.transport.lastOf("SendMessage")
	require.True(t, ok)
	assert.Equal(t, "К сожалению, акция не найдена или неактивна.", call.text)
}

func TestSafeEditTextEmptyBodyRecreatesMessage(t *testing.T) {
	navigator, f := newTestNavigator(t)

	err := navigator.safeEditText(screen{ChatID: 100, MessageID: 10}, "   \n ", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"DeleteMessage", "SendMessage"}, f.transport.methods())
	call, _ := f.transport.lastOf("SendMessage")
	assert.Equal(t, "Произошла ошибка: невозможно отредактировать сообщение с пустым текстом.", call.text)
}

func TestSafeEditCaptionEmptyBodyRecreatesMessage(t *testing.T) {
	navigator, f := newTestNavigator(t)

	err := navigator.safeEditCaption(screen{ChatID: 100, MessageID: 10, HasPhoto: true}, "", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"DeleteMessage", "SendMessage"}, f.transport.methods())
	call, _ := f.transport.lastOf("SendMessage")
	assert.Equal(t, "Произошла ошибка: невозможно отредактировать сообщение с пустой подписью.", call.text)
}

func TestSafeEditTextFallsBackToCaption(t *testing.T) {
	navigator, f := newTestNavigator(t)
	f.transport.editTextErr = errors.New("there is no text in the message to edit")

	keyboard := BackToMainMenuKeyboard()
	err := navigator.safeEditText(screen{ChatID: 100, MessageID: 10, HasPhoto: true}, "Новый текст", &keyboard)
	require.NoError(t, err)

	assert.Equal(t, []string{"EditText", "EditCaption"}, f.transport.methods())
}

func TestSafeEditTextRecreatesWhenEditsFail(t *testing.T) {
	navigator, f := newTestNavigator(t)
	f.transport.editTextErr = errors.New("message can't be edited")
	f.transport.editCaptionErr = errors.New("message can't be edited")

	keyboard := BackToMainMenuKeyboard()
	err := navigator.safeEditText(screen{ChatID: 100, MessageID: 10, HasPhoto: true}, "Новый текст", &keyboard)
	require.NoError(t, err)

	assert.Equal(t, []string{"EditText", "EditCaption", "DeleteMessage", "SendMessage"}, f.transport.methods())
	call, _ := f.transport.lastOf("SendMessage")
	assert.Equal(t, "Новый текст", call.text)
}

func TestMalformedCallbackShowsInvalidRequestScreen(t *testing.T) {
	navigator, f := newTestNavigator(t)

	navigator.HandleUpdate(callbackUpdate("nav:courses:abc::0:0", 555))

	call, ok := f.transport.lastOf("EditText")
	require.True(t, ok, "пользователь должен увидеть экран ошибки")
	assert.Equal(t, "Некорректный запрос. Вернитесь в главное меню.", call.text)

	markup, ok := call.markup.(*tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	back, err := ParseAction(*markup.InlineKeyboard[0][0].CallbackData)
	require.NoError(t, err)
	assert.Equal(t, ActionShowMainMenu, back.Name)

	last := f.transport.calls[len(f.transport.calls)-1]
	assert.Equal(t, "AnswerCallback", last.method)
}

func TestMainMenuTextButtonSendsFreshMenu(t *testing.T) {
	navigator, f := newTestNavigator(t)

	update := tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 2,
			From:      &tgbotapi.User{ID: 555},
			Chat:      &tgbotapi.Chat{ID: 100},
			Text:      "📚 Главное меню",
		},
	}
	navigator.HandleUpdate(update)

	require.Len(t, f.transport.calls, 1)
	assert.Equal(t, "SendMessage", f.transport.calls[0].method)
	assert.Equal(t, "📚 Главное меню\n\nВыберите действие:", f.transport.calls[0].text)
}
