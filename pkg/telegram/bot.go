package telegram

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot представляет Telegram-бота
type Bot struct {
	api *tgbotapi.BotAPI
}

// NewBot создает нового Telegram-бота
func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	return &Bot{api: api}, nil
}

// Username возвращает имя бота
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Updates возвращает канал обновлений long polling.
// Активный webhook предварительно снимается.
func (b *Bot) Updates() tgbotapi.UpdatesChannel {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: false}); err != nil {
		log.Printf("Failed to delete webhook: %v", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return b.api.GetUpdatesChan(u)
}

// Stop останавливает получение обновлений
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// SetCommands публикует список команд бота
func (b *Bot) SetCommands() error {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Запустить бота"},
	)
	_, err := b.api.Request(commands)
	return err
}

// SendMessage отправляет текстовое сообщение
func (b *Bot) SendMessage(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

// SendPhoto отправляет фото с подписью из локального файла
func (b *Bot) SendPhoto(chatID int64, filePath, caption string, markup interface{}) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(filePath))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	photo.ReplyMarkup = markup
	_, err := b.api.Send(photo)
	return err
}

// EditText редактирует текст сообщения
func (b *Bot) EditText(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = markup
	_, err := b.api.Send(edit)
	return err
}

// EditCaption редактирует подпись сообщения
func (b *Bot) EditCaption(chatID int64, messageID int, caption string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageCaption(chatID, messageID, caption)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = markup
	_, err := b.api.Send(edit)
	return err
}

// DeleteMessage удаляет сообщение
func (b *Bot) DeleteMessage(chatID int64, messageID int) error {
	_, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

// AnswerCallback подтверждает обработку callback-запроса
func (b *Bot) AnswerCallback(callbackID string) error {
	_, err := b.api.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}
