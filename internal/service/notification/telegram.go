package notification

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gdistrict/gschool-connect/internal/config"
	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
)

// telegramSender 텔레그램 봇 API로 운영자 채팅방에 메시지를 전송합니다.
type telegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// newTelegramSender 봇 토큰을 검증하며 텔레그램 발송기를 생성합니다.
func newTelegramSender(cfg *config.TelegramConfig) (*telegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable,
			fmt.Sprintf("텔레그램 봇 초기화에 실패했습니다 (토큰: %s)", applog.MaskSensitiveData(cfg.BotToken)))
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"bot_username": bot.Self.UserName,
	}).Info("텔레그램 봇 연결 완료")

	return &telegramSender{
		bot:    bot,
		chatID: cfg.ChatID,
	}, nil
}

// Send 메시지를 운영자 채팅방으로 전송합니다.
func (t *telegramSender) Send(message string) error {
	msg := tgbotapi.NewMessage(t.chatID, message)

	if _, err := t.bot.Send(msg); err != nil {
		return apperrors.Wrap(err, apperrors.ExecutionFailed, "텔레그램 메시지 전송에 실패했습니다")
	}

	return nil
}
