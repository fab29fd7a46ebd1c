package telegram

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Webhook receives pushed updates when WEBHOOK_BASE_URL is configured.
type Webhook struct {
	client  *Client
	handler *UpdateHandler
	secret  string
	log     *zap.Logger
}

func NewWebhook(client *Client, handler *UpdateHandler, secret string, log *zap.Logger) *Webhook {
	return &Webhook{client: client, handler: handler, secret: secret, log: log}
}

// Register points the Bot API at baseURL and returns the path the
// router must serve.
func (w *Webhook) Register(baseURL string) (string, error) {
	const path = "/webhook/bot"
	if err := w.client.SetWebhook(baseURL+path, w.secret); err != nil {
		return "", err
	}
	w.log.Info("webhook registered", zap.String("url", baseURL+path))
	return path, nil
}

func (w *Webhook) Unregister() {
	if err := w.client.DeleteWebhook(); err != nil {
		w.log.Warn("delete webhook", zap.Error(err))
	}
}

func (w *Webhook) HandleUpdate(c *gin.Context) {
	if w.secret != "" {
		if c.GetHeader("X-Telegram-Bot-Api-Secret-Token") != w.secret {
			c.Status(http.StatusUnauthorized)
			return
		}
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var upd Update
	if err := json.Unmarshal(body, &upd); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	// Synchronous on purpose: Telegram retries on non-200, and the
	// idempotency check absorbs any duplicate that slips through.
	w.handler.Handle(upd)

	c.Status(http.StatusOK)
}
