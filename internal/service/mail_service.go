package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/examdesk/examdesk-backend/internal/config"
	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MailService enqueues outbound messages for the mailer worker. Sending
// happens off the request path; a slow or down SMTP server never blocks
// a signup.
type MailService struct {
	cfg *config.Config
	rdb *redis.Client
	log zerolog.Logger
}

// NewMailService creates a new MailService.
func NewMailService(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *MailService {
	return &MailService{
		cfg: cfg,
		rdb: rdb,
		log: log.With().Str("component", "mail_service").Logger(),
	}
}

// Enqueue pushes a message onto the outbound queue.
func (s *MailService) Enqueue(ctx context.Context, mail model.OutboundMail) error {
	payload, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.OutboundMailQueue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}

// EnqueueCredentials queues the welcome email sent after signup. Failures
// are logged, not returned; mail is best effort and must never fail the
// registration itself.
func (s *MailService) EnqueueCredentials(ctx context.Context, u *model.User, plainPassword string) {
	if u.Email == "" {
		return
	}

	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your exam portal account has been created.\n\n"+
			"Login: %s\nPassword: %s\n\n"+
			"Sign in at %s and change your password after first login.\n",
		u.Name, u.LoginIdentifier(), plainPassword, s.cfg.PortalURL)

	mail := model.OutboundMail{
		To:      u.Email,
		Subject: "Your exam portal credentials",
		Body:    body,
	}
	if err := s.Enqueue(ctx, mail); err != nil {
		s.log.Error().Err(err).Str("email", u.Email).Msg("Failed to enqueue credentials mail")
	}
}
