package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/examdesk/examdesk-backend/internal/config"
	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newTestMailService(t *testing.T) (*MailService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{PortalURL: "http://localhost:5173/login"}
	return NewMailService(cfg, rdb, zerolog.Nop()), mr
}

func TestEnqueuePushesToQueue(t *testing.T) {
	svc, mr := newTestMailService(t)

	mail := model.OutboundMail{
		To:      "student@example.com",
		Subject: "Your exam portal credentials",
		Body:    "hello",
	}
	if err := svc.Enqueue(context.Background(), mail); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	raw, err := mr.Lpop(config.WorkerKey.OutboundMailQueue)
	if err != nil {
		t.Fatalf("queue empty: %v", err)
	}

	var got model.OutboundMail
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("unmarshal queued mail: %v", err)
	}
	if got != mail {
		t.Errorf("queued %+v, want %+v", got, mail)
	}
}

func TestEnqueueCredentialsSkipsAccountsWithoutEmail(t *testing.T) {
	svc, mr := newTestMailService(t)

	user := &model.User{Name: "No Mail", Role: model.RoleStudent, RollNumber: "R0001"}
	svc.EnqueueCredentials(context.Background(), user, "secret")

	if mr.Exists(config.WorkerKey.OutboundMailQueue) {
		t.Error("nothing should be queued for accounts without an email")
	}
}

func TestEnqueueCredentialsIncludesLoginDetails(t *testing.T) {
	svc, mr := newTestMailService(t)

	user := &model.User{
		Name:       "Aarav Sharma",
		Role:       model.RoleStudent,
		RollNumber: "R0001",
		Email:      "aarav@example.com",
	}
	svc.EnqueueCredentials(context.Background(), user, "secret123")

	raw, err := mr.Lpop(config.WorkerKey.OutboundMailQueue)
	if err != nil {
		t.Fatalf("queue empty: %v", err)
	}

	var got model.OutboundMail
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("unmarshal queued mail: %v", err)
	}
	if got.To != user.Email {
		t.Errorf("to = %q, want %q", got.To, user.Email)
	}
	for _, want := range []string{"R0001", "secret123", "http://localhost:5173/login"} {
		if !strings.Contains(got.Body, want) {
			t.Errorf("body missing %q:\n%s", want, got.Body)
		}
	}
}
