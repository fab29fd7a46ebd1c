package telegram

import (
	"strings"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/logger"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/services"

	"go.uber.org/zap"
)

// Outbound abstracts message delivery so the handler can be tested
// without the live Bot API.
type Outbound interface {
	SendMessage(chatID int64, text string) (int64, error)
}

// UpdateHandler routes inbound updates into the interview state
// machine and sends its replies back. Updates are handled one at a
// time; ordering per user is the transport's promise and the guarded
// writes are the fallback.
type UpdateHandler struct {
	out Outbound
	svc *services.InterviewService
	log *zap.Logger
}

func NewUpdateHandler(out Outbound, svc *services.InterviewService, log *zap.Logger) *UpdateHandler {
	return &UpdateHandler{out: out, svc: svc, log: log}
}

func (h *UpdateHandler) Handle(upd Update) {
	if upd.Message == nil || upd.Message.From == nil {
		return
	}

	msg := upd.Message
	userID := msg.From.ID
	chatID := msg.Chat.ID

	defer func() {
		if r := recover(); r != nil {
			h.log.Error("panic handling update", zap.Int64("user_id", userID), zap.Any("panic", r))
			h.out.SendMessage(chatID, "Sorry, an error occurred. Please try again.")
		}
	}()
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	h.log.Debug("inbound message",
		zap.Int64("user_id", userID),
		zap.String("username", msg.From.Username),
		zap.String("text", logger.Truncate(text, 50)))

	var (
		replies []string
		err     error
	)
	if isCommand(msg, "start") {
		replies, err = h.svc.Start(userID, msg.From.Username)
	} else {
		replies, err = h.svc.HandleMessage(userID, msg.From.Username, text)
	}

	if err != nil {
		// One candidate's failure never takes the dispatcher down.
		h.log.Error("handle update", zap.Int64("user_id", userID), zap.Error(err))
		replies = []string{"Sorry, an error occurred. Please try again."}
	}

	for _, reply := range replies {
		if _, sendErr := h.out.SendMessage(chatID, reply); sendErr != nil {
			h.log.Error("send reply", zap.Int64("chat_id", chatID), zap.Error(sendErr))
			return
		}
	}
}

func isCommand(msg *Message, cmd string) bool {
	for _, e := range msg.Entities {
		if e.Type == "bot_command" && e.Offset == 0 {
			cmdText := msg.Text[e.Offset : e.Offset+e.Length]
			cmdText = strings.Split(cmdText, "@")[0]
			return cmdText == "/"+cmd
		}
	}
	// Clients that strip entities still send the raw command text.
	return strings.Split(strings.Fields(msg.Text)[0], "@")[0] == "/"+cmd
}
