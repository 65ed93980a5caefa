package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// TelegramNotifier шлёт сообщение о новой брони в служебный чат.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier создаёт нотификатор поверх Telegram-бота
func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    b,
		chatID: chatID,
		logger: logger,
	}, nil
}

// SessionBooked отправляет уведомление о забронированном занятии
func (n *TelegramNotifier) SessionBooked(ctx context.Context, teacher *model.Teacher, session *model.BookedSession) error {
	text := fmt.Sprintf(
		"📅 New session booked\nTeacher: %s (id %d)\nStudent: %d\nStarts: %s\nEnds: %s",
		teacher.DisplayName,
		teacher.ID,
		session.StudentID,
		session.StartDatetime.UTC().Format(time.RFC3339),
		session.EndDatetime().UTC().Format(time.RFC3339),
	)

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send booking notification: %w", err)
	}

	n.logger.Debug("Booking notification sent",
		zap.Int64("teacher_id", teacher.ID),
		zap.Int64("student_id", session.StudentID),
	)

	return nil
}
