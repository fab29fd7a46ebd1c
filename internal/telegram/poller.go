package telegram

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Poller drives the bot over long polling when no webhook is
// configured. Updates are dispatched synchronously so messages from
// one user are never processed out of order.
type Poller struct {
	client  *Client
	handler *UpdateHandler
	timeout int
	log     *zap.Logger
}

func NewPoller(client *Client, handler *UpdateHandler, timeout int, log *zap.Logger) *Poller {
	return &Poller{client: client, handler: handler, timeout: timeout, log: log}
}

func (p *Poller) Run(ctx context.Context) {
	// A stale webhook blocks getUpdates.
	if err := p.client.DeleteWebhook(); err != nil {
		p.log.Warn("delete webhook before polling", zap.Error(err))
	}

	p.log.Info("long polling started", zap.Int("timeout", p.timeout))

	var offset int64
	for {
		select {
		case <-ctx.Done():
			p.log.Info("long polling stopped")
			return
		default:
		}

		updates, err := p.client.GetUpdates(offset, p.timeout)
		if err != nil {
			p.log.Error("get updates", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			p.handler.Handle(upd)
		}
	}
}
