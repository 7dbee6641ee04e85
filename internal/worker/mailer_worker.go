package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/examdesk/examdesk-backend/internal/config"
	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// MailerWorker consumes the outbound mail queue and delivers messages
// over SMTP. With no SMTP host configured it still drains the queue so
// dev environments never accumulate stale messages.
type MailerWorker struct {
	cfg *config.Config
	rdb *redis.Client
	log zerolog.Logger
}

// NewMailerWorker creates a new MailerWorker.
func NewMailerWorker(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *MailerWorker {
	return &MailerWorker{
		cfg: cfg,
		rdb: rdb,
		log: log.With().Str("component", "mailer_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *MailerWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *MailerWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.OutboundMailQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var payload model.OutboundMail
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.send(&payload); err != nil {
		w.log.Error().Err(err).
			Str("to", payload.To).
			Msg("Send error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.OutboundMailQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *MailerWorker) send(m *model.OutboundMail) error {
	if w.cfg.SMTPHost == "" {
		w.log.Debug().Str("to", m.To).Str("subject", m.Subject).Msg("SMTP not configured, dropping mail")
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(w.cfg.MailFrom); err != nil {
		return err
	}
	if err := msg.To(m.To); err != nil {
		return err
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)

	client, err := mail.NewClient(w.cfg.SMTPHost,
		mail.WithPort(w.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(w.cfg.SMTPUser),
		mail.WithPassword(w.cfg.SMTPPass),
	)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}

// drain processes all remaining items in the queue before shutdown.
func (w *MailerWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.OutboundMailQueue).Result()
		if err != nil {
			break
		}

		var payload model.OutboundMail
		if err := json.Unmarshal([]byte(result), &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.send(&payload); err != nil {
			w.log.Error().Err(err).Msg("Drain send error")
			w.rdb.RPush(ctx, config.WorkerKey.OutboundMailQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
