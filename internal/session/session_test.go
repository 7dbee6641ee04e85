package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type fakeCatalog struct {
	exams map[uuid.UUID]*model.Exam
}

func (c *fakeCatalog) GetExam(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, ok := c.exams[id]
	if !ok {
		return nil, ErrExamNotFound
	}
	return exam, nil
}

type fakeStore struct {
	mu       sync.Mutex
	attempts []*model.Attempt
	calls    int
	failures int

	entered chan struct{}
	gate    chan struct{}
	created chan *model.Attempt
}

func (s *fakeStore) CreateAttempt(_ context.Context, attempt *model.Attempt) error {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return errors.New("store unavailable")
	}
	for _, existing := range s.attempts {
		if existing.StudentID == attempt.StudentID && existing.Exam.ID == attempt.Exam.ID {
			return ErrAlreadyAttempted
		}
	}
	s.attempts = append(s.attempts, attempt)
	if s.created != nil {
		select {
		case s.created <- attempt:
		default:
		}
	}
	return nil
}

func (s *fakeStore) HasAttempt(_ context.Context, studentID, examID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.attempts {
		if existing.StudentID == studentID && existing.Exam.ID == examID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestExam() *model.Exam {
	return &model.Exam{
		ID:              uuid.New(),
		Title:           "Midterm",
		DurationMinutes: 1,
		Questions:       sampleQuestions(),
	}
}

func startTestSession(t *testing.T, exam *model.Exam, store *fakeStore, opts Options) *Session {
	t.Helper()
	catalog := &fakeCatalog{exams: map[uuid.UUID]*model.Exam{exam.ID: exam}}
	sess := New(uuid.New(), exam.ID, catalog, store, zerolog.Nop(), opts)
	if err := sess.Start(context.Background()); err != nil {
		t.Fatalf("start session: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

// slowClock keeps the ticker out of the way for tests that exercise
// answer and submit semantics directly.
var slowClock = Options{TickInterval: time.Hour}

func TestStartMissingExamAborts(t *testing.T) {
	catalog := &fakeCatalog{exams: map[uuid.UUID]*model.Exam{}}
	sess := New(uuid.New(), uuid.New(), catalog, &fakeStore{}, zerolog.Nop(), slowClock)

	err := sess.Start(context.Background())
	if !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("expected ErrExamNotFound, got %v", err)
	}
	if got := sess.State(); got != StateAborted {
		t.Errorf("state = %s, want %s", got, StateAborted)
	}

	select {
	case <-sess.Done():
	default:
		t.Error("aborted session should be done")
	}
}

func TestStartInitializesCountdown(t *testing.T) {
	exam := newTestExam()
	sess := startTestSession(t, exam, &fakeStore{}, slowClock)

	snap := sess.Snapshot()
	if snap.State != StateInProgress {
		t.Errorf("state = %s, want %s", snap.State, StateInProgress)
	}
	if snap.RemainingSeconds != exam.DurationMinutes*60 {
		t.Errorf("remaining = %d, want %d", snap.RemainingSeconds, exam.DurationMinutes*60)
	}
	if snap.TotalQuestions != len(exam.Questions) {
		t.Errorf("total questions = %d, want %d", snap.TotalQuestions, len(exam.Questions))
	}
}

func TestSelectAnswerReplacesAndIgnoresRepeats(t *testing.T) {
	sess := startTestSession(t, newTestExam(), &fakeStore{}, slowClock)

	if err := sess.SelectAnswer("q1", "a"); err != nil {
		t.Fatalf("select: %v", err)
	}
	// Re-selecting the same option must be a no-op.
	if err := sess.SelectAnswer("q1", "a"); err != nil {
		t.Fatalf("re-select: %v", err)
	}
	if got := sess.Snapshot().Answers; len(got) != 1 || got["q1"] != "a" {
		t.Fatalf("answers = %v, want single q1=a", got)
	}

	// Changing the selection replaces, never duplicates.
	if err := sess.SelectAnswer("q1", "b"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := sess.Snapshot().Answers; len(got) != 1 || got["q1"] != "b" {
		t.Fatalf("answers = %v, want single q1=b", got)
	}
}

func TestSelectAnswerUnknownQuestion(t *testing.T) {
	sess := startTestSession(t, newTestExam(), &fakeStore{}, slowClock)

	if err := sess.SelectAnswer("q99", "a"); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("expected ErrUnknownQuestion, got %v", err)
	}
	if got := sess.Snapshot().Answers; len(got) != 0 {
		t.Errorf("rejected answer must not be recorded, got %v", got)
	}
}

func TestNavigateClampsCursor(t *testing.T) {
	sess := startTestSession(t, newTestExam(), &fakeStore{}, slowClock)

	if cursor, _ := sess.Navigate(-5); cursor != 0 {
		t.Errorf("cursor after underflow = %d, want 0", cursor)
	}
	if cursor, _ := sess.Navigate(1); cursor != 1 {
		t.Errorf("cursor = %d, want 1", cursor)
	}
	if cursor, _ := sess.Navigate(10); cursor != 2 {
		t.Errorf("cursor after overflow = %d, want 2", cursor)
	}
}

func TestManualSubmitScoresAndPersists(t *testing.T) {
	store := &fakeStore{}
	sess := startTestSession(t, newTestExam(), store, slowClock)

	_ = sess.SelectAnswer("q1", "b")
	_ = sess.SelectAnswer("q2", "b")
	_ = sess.SelectAnswer("q3", "b")

	score, err := sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if score != 2 {
		t.Errorf("score = %d, want 2", score)
	}
	if sess.State() != StateSubmitted {
		t.Errorf("state = %s, want %s", sess.State(), StateSubmitted)
	}
	if store.attemptCount() != 1 {
		t.Fatalf("attempts stored = %d, want 1", store.attemptCount())
	}

	attempt := store.attempts[0]
	if attempt.Score != 2 {
		t.Errorf("stored score = %d, want 2", attempt.Score)
	}
	if len(attempt.Answers) != 3 {
		t.Errorf("stored answers = %v", attempt.Answers)
	}

	if _, err := sess.Submit(context.Background()); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second submit: expected ErrAlreadySubmitted, got %v", err)
	}
	if err := sess.SelectAnswer("q1", "a"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("answer after submit: expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestConcurrentSubmitWritesOnce(t *testing.T) {
	store := &fakeStore{
		entered: make(chan struct{}, 1),
		gate:    make(chan struct{}),
	}
	sess := startTestSession(t, newTestExam(), store, slowClock)

	firstResult := make(chan error, 1)
	go func() {
		_, err := sess.Submit(context.Background())
		firstResult <- err
	}()

	// Wait until the first submit holds the latch inside the store write.
	<-store.entered

	if _, err := sess.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("racing submit: expected ErrSubmitInFlight, got %v", err)
	}

	close(store.gate)
	if err := <-firstResult; err != nil {
		t.Fatalf("winning submit failed: %v", err)
	}

	if store.attemptCount() != 1 {
		t.Errorf("attempts stored = %d, want exactly 1", store.attemptCount())
	}
	if _, err := sess.Submit(context.Background()); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("late submit: expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestManualSubmitStoreFailureKeepsSessionAlive(t *testing.T) {
	store := &fakeStore{failures: 1}
	sess := startTestSession(t, newTestExam(), store, slowClock)
	_ = sess.SelectAnswer("q1", "b")

	if _, err := sess.Submit(context.Background()); err == nil {
		t.Fatal("expected store failure to surface")
	}
	if sess.State() != StateInProgress {
		t.Fatalf("state after failed submit = %s, want %s", sess.State(), StateInProgress)
	}
	if store.attemptCount() != 0 {
		t.Fatalf("no attempt should be stored, got %d", store.attemptCount())
	}

	// The student can still work and resubmit.
	if err := sess.SelectAnswer("q2", "a"); err != nil {
		t.Fatalf("answer after failed submit: %v", err)
	}
	score, err := sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if score != 2 {
		t.Errorf("score = %d, want 2", score)
	}
	if store.attemptCount() != 1 {
		t.Errorf("attempts stored = %d, want 1", store.attemptCount())
	}
}

func TestTimeoutAutoSubmitsOnce(t *testing.T) {
	store := &fakeStore{created: make(chan *model.Attempt, 1)}
	sess := startTestSession(t, newTestExam(), store, Options{TickInterval: time.Millisecond})
	_ = sess.SelectAnswer("q1", "b")

	events, cancel := sess.Subscribe()
	defer cancel()

	sawAutoSubmit := make(chan Event, 1)
	go func() {
		for ev := range events {
			if ev.Kind == EventSubmitted {
				sawAutoSubmit <- ev
				return
			}
		}
	}()

	select {
	case attempt := <-store.created:
		if attempt.Score != 1 {
			t.Errorf("timeout attempt score = %d, want 1", attempt.Score)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout submission never reached the store")
	}

	select {
	case ev := <-sawAutoSubmit:
		if !ev.Auto {
			t.Error("submitted event should be flagged auto")
		}
	case <-time.After(time.Second):
		t.Fatal("no submitted event published")
	}

	// Give any stray second submission a chance to land, then verify
	// exactly one attempt exists.
	time.Sleep(50 * time.Millisecond)
	if store.attemptCount() != 1 {
		t.Errorf("attempts stored = %d, want exactly 1", store.attemptCount())
	}
	if sess.State() != StateSubmitted {
		t.Errorf("state = %s, want %s", sess.State(), StateSubmitted)
	}
}

func TestTimeoutSubmitRetriesUntilStored(t *testing.T) {
	store := &fakeStore{
		failures: 2,
		created:  make(chan *model.Attempt, 1),
	}
	sess := startTestSession(t, newTestExam(), store, Options{
		TickInterval:  time.Millisecond,
		RetryInterval: 5 * time.Millisecond,
	})

	select {
	case <-store.created:
	case <-time.After(5 * time.Second):
		t.Fatal("retrying timeout submission never succeeded")
	}

	if got := store.callCount(); got != 3 {
		t.Errorf("store calls = %d, want 3 (two failures then success)", got)
	}
	if store.attemptCount() != 1 {
		t.Errorf("attempts stored = %d, want 1", store.attemptCount())
	}

	// The session leaves Submitting once the write finally lands.
	deadline := time.Now().Add(time.Second)
	for sess.State() != StateSubmitted && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := sess.State(); got != StateSubmitted {
		t.Errorf("state = %s, want %s", got, StateSubmitted)
	}
}

func TestManagerEnforcesSingleAttempt(t *testing.T) {
	exam := newTestExam()
	catalog := &fakeCatalog{exams: map[uuid.UUID]*model.Exam{exam.ID: exam}}
	store := &fakeStore{}
	mgr := NewManager(catalog, store, zerolog.Nop(), slowClock)
	defer mgr.Close()

	studentID := uuid.New()
	ctx := context.Background()

	sess, err := mgr.Start(ctx, studentID, exam.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// A reloaded client rejoins the same live session.
	again, err := mgr.Start(ctx, studentID, exam.ID)
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if again != sess {
		t.Error("rejoin should return the existing session")
	}

	if _, err := sess.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := mgr.Start(ctx, studentID, exam.ID); !errors.Is(err, ErrAlreadyAttempted) {
		t.Errorf("restart after submit: expected ErrAlreadyAttempted, got %v", err)
	}

	// A different student is unaffected.
	other, err := mgr.Start(ctx, uuid.New(), exam.ID)
	if err != nil {
		t.Fatalf("other student start: %v", err)
	}
	if other.State() != StateInProgress {
		t.Errorf("other student state = %s", other.State())
	}
}

func TestManagerStartUnknownExam(t *testing.T) {
	catalog := &fakeCatalog{exams: map[uuid.UUID]*model.Exam{}}
	mgr := NewManager(catalog, &fakeStore{}, zerolog.Nop(), slowClock)
	defer mgr.Close()

	if _, err := mgr.Start(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrExamNotFound) {
		t.Errorf("expected ErrExamNotFound, got %v", err)
	}
	if _, ok := mgr.Get(uuid.New(), uuid.New()); ok {
		t.Error("no session should be registered")
	}
}
