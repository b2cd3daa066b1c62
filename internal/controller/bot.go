package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/parkflow_bot/internal/flow"
	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const textInternalError = "❌ Сталася помилка. Спробуйте ще раз або введіть /start."

// Engine обрабатывает входящее сообщение и возвращает ответы
type Engine interface {
	Handle(ctx context.Context, in flow.Input) ([]flow.Reply, error)
}

type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type BotController struct {
	bot    *bot.Bot
	engine Engine
	logger *zap.Logger
}

// NewBotController создаёт бота; все сообщения уходят в engine
func NewBotController(token string, engine Engine, logger *zap.Logger, opts ...bot.Option) (*BotController, error) {
	c := &BotController{
		engine: engine,
		logger: logger,
	}

	opts = append([]bot.Option{
		bot.WithDefaultHandler(c.HandleUpdate),
		bot.WithMiddlewares(c.recoverer),
		bot.WithErrorsHandler(func(err error) {
			logger.Error("Telegram API error", zap.Error(err))
		}),
	}, opts...)

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	c.bot = b

	return c, nil
}

// RegisterHandlers регистрирует обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.HandleUpdate)

	// Остальной текст и контакты приходят в обработчик по умолчанию
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: []models.BotCommand{
			{Command: "start", Description: "🚀 Почати роботу з ботом"},
		},
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает long polling и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

// HandleUpdate передаёт сообщение в диалог и отправляет ответы
func (c *BotController) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.process(ctx, b, update)
}

func (c *BotController) process(ctx context.Context, s sender, update *models.Update) {
	in, ok := toInput(update)
	if !ok {
		return
	}

	replies, err := c.engine.Handle(ctx, in)
	if err != nil {
		c.logger.Error("Failed to handle message", zap.Int64("chat_id", in.ChatID), zap.Error(err))
		c.send(ctx, s, in.ChatID, flow.Reply{Text: textInternalError})
		return
	}

	for _, r := range replies {
		c.send(ctx, s, in.ChatID, r)
	}
}

// send отправляет сообщение и логирует если не удалось
func (c *BotController) send(ctx context.Context, s sender, chatID int64, r flow.Reply) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   r.Text,
	}
	if markup := replyMarkup(r); markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := s.SendMessage(ctx, params); err != nil {
		c.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.String("text", r.Text),
			zap.Error(err),
		)
	}
}

// recoverer не даёт панике в обработчике уронить бота
func (c *BotController) recoverer(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("Panic while handling update",
					zap.Int64("update_id", update.ID),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
			}
		}()
		next(ctx, b, update)
	}
}

// toInput достаёт из апдейта текст или контакт; остальные апдейты пропускаются
func toInput(update *models.Update) (flow.Input, bool) {
	msg := update.Message
	if msg == nil {
		return flow.Input{}, false
	}

	in := flow.Input{
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
	}
	if msg.From != nil {
		in.UserID = msg.From.ID
	}
	if msg.Contact != nil {
		in.Contact = msg.Contact.PhoneNumber
	}

	if in.Text == "" && in.Contact == "" {
		return flow.Input{}, false
	}
	return in, true
}

func replyMarkup(r flow.Reply) models.ReplyMarkup {
	switch {
	case r.RemoveKeyboard:
		return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
	case r.Keyboard != nil:
		return toReplyKeyboard(*r.Keyboard)
	default:
		return nil
	}
}

func toReplyKeyboard(kb keyboard.Keyboard) *models.ReplyKeyboardMarkup {
	rows := make([][]models.KeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]models.KeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, models.KeyboardButton{
				Text:           btn.Text,
				RequestContact: btn.RequestContact,
			})
		}
		rows = append(rows, buttons)
	}

	return &models.ReplyKeyboardMarkup{
		Keyboard:        rows,
		ResizeKeyboard:  true,
		OneTimeKeyboard: kb.OneTime,
	}
}
