package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/examdesk/examdesk-backend/internal/config"
	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func queueMail(t *testing.T, mr *miniredis.Miniredis, m model.OutboundMail) {
	t.Helper()
	payload, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal mail: %v", err)
	}
	if _, err := mr.Push(config.WorkerKey.OutboundMailQueue, string(payload)); err != nil {
		t.Fatalf("push mail: %v", err)
	}
}

// With no SMTP host configured the worker drops messages instead of
// sending, which lets the drain path run without a mail server.
func TestMailerWorkerDrainsQueueOnShutdown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	queueMail(t, mr, model.OutboundMail{To: "a@example.com", Subject: "s1", Body: "b1"})
	queueMail(t, mr, model.OutboundMail{To: "b@example.com", Subject: "s2", Body: "b2"})

	w := NewMailerWorker(&config.Config{}, rdb, zerolog.Nop())

	// An already-cancelled context sends Start straight into the drain.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	if mr.Exists(config.WorkerKey.OutboundMailQueue) {
		t.Error("queue should be empty after drain")
	}
}

func TestMailerWorkerSkipsMalformedMessages(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	if _, err := mr.Push(config.WorkerKey.OutboundMailQueue, "not json"); err != nil {
		t.Fatalf("push: %v", err)
	}
	queueMail(t, mr, model.OutboundMail{To: "a@example.com", Subject: "s", Body: "b"})

	w := NewMailerWorker(&config.Config{}, rdb, zerolog.Nop())
	w.drain(context.Background())

	if mr.Exists(config.WorkerKey.OutboundMailQueue) {
		t.Error("malformed message should be discarded, not requeued")
	}
}
