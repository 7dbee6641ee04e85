package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is the life-cycle state of an exam session.
type State string

const (
	StateLoading    State = "LOADING"
	StateInProgress State = "IN_PROGRESS"
	StateSubmitting State = "SUBMITTING"
	StateSubmitted  State = "SUBMITTED"
	StateAborted    State = "ABORTED"
)

// EventKind identifies a session event published to subscribers.
type EventKind string

const (
	EventTick        EventKind = "tick"
	EventSubmitted   EventKind = "submitted"
	EventSubmitError EventKind = "submit_error"
)

// Event is pushed to subscribers (the WebSocket stream) on every tick and
// on submission outcomes.
type Event struct {
	Kind             EventKind `json:"event"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Score            int       `json:"score,omitempty"`
	Total            int       `json:"total,omitempty"`
	Auto             bool      `json:"auto,omitempty"`
	Error            string    `json:"error,omitempty"`
}

// Snapshot is the externally visible state of a session, served on
// GET /state so a reloaded client can resume where it left off.
type Snapshot struct {
	ExamID           uuid.UUID         `json:"exam_id"`
	State            State             `json:"state"`
	RemainingSeconds int               `json:"remaining_seconds"`
	Cursor           int               `json:"cursor"`
	TotalQuestions   int               `json:"total_questions"`
	Answers          map[string]string `json:"answers"`
	Score            *int              `json:"score,omitempty"`
}

// Options tunes session timing. Zero values select the defaults
// (1-second ticks, 5-second persist retries).
type Options struct {
	TickInterval  time.Duration
	RetryInterval time.Duration
}

// Session is the server-authoritative state machine for one student
// taking one exam: Loading → InProgress → (Submitting) → Submitted, or
// Aborted when the exam cannot be resolved. It owns the countdown (a
// single goroutine ticking once per interval off a time.Ticker that is
// stopped on every exit path) and the in-memory answer mapping. The
// InProgress → Submitting transition is the one-shot latch that keeps a
// manual submit and the timeout submit from both reaching the store.
type Session struct {
	studentID uuid.UUID
	examID    uuid.UUID
	catalog   Catalog
	store     AttemptStore
	tickEvery time.Duration
	retryWait time.Duration
	log       zerolog.Logger

	mu          sync.Mutex
	state       State
	exam        *model.Exam
	questionIDs map[string]struct{}
	answers     map[string]string
	cursor      int
	remaining   int
	result      *model.Attempt
	retryTimer  *time.Timer
	subs        map[chan Event]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a session in the Loading state. Call Start to resolve the
// exam and begin the countdown.
func New(studentID, examID uuid.UUID, catalog Catalog, store AttemptStore, log zerolog.Logger, opts Options) *Session {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 5 * time.Second
	}
	return &Session{
		studentID: studentID,
		examID:    examID,
		catalog:   catalog,
		store:     store,
		tickEvery: opts.TickInterval,
		retryWait: opts.RetryInterval,
		log: log.With().
			Str("component", "exam_session").
			Str("exam_id", examID.String()).
			Str("student_id", studentID.String()).
			Logger(),
		state:   StateLoading,
		answers: make(map[string]string),
		subs:    make(map[chan Event]struct{}),
		done:    make(chan struct{}),
	}
}

// Start resolves the exam from the catalog and transitions to InProgress,
// initializing the countdown to duration_minutes * 60 seconds. A missing
// exam aborts the session and returns ErrExamNotFound.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateLoading {
		s.mu.Unlock()
		return fmt.Errorf("start: session is %s", s.state)
	}
	s.mu.Unlock()

	exam, err := s.catalog.GetExam(ctx, s.examID)
	if err != nil {
		s.mu.Lock()
		s.state = StateAborted
		s.mu.Unlock()
		s.Close()
		if errors.Is(err, ErrExamNotFound) {
			return ErrExamNotFound
		}
		return fmt.Errorf("load exam: %w", err)
	}

	ids := make(map[string]struct{}, len(exam.Questions))
	for _, q := range exam.Questions {
		ids[q.ID] = struct{}{}
	}

	s.mu.Lock()
	s.exam = exam
	s.questionIDs = ids
	s.remaining = exam.DurationMinutes * 60
	s.state = StateInProgress
	s.mu.Unlock()

	go s.run()

	s.log.Info().Int("questions", len(exam.Questions)).Msg("Session started")
	return nil
}

// run is the countdown loop. It exits when the session is closed, which
// happens on submission, abort, or server shutdown.
func (s *Session) run() {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick decrements the countdown by one second and fires the automatic
// submit when it reaches zero. While a submission is in flight the clock
// stays at zero but no second auto-submit is triggered; the state guard
// in submit makes the timeout path fire exactly once.
func (s *Session) tick() {
	s.mu.Lock()
	if s.state != StateInProgress && s.state != StateSubmitting {
		s.mu.Unlock()
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	remaining := s.remaining
	expired := remaining == 0 && s.state == StateInProgress
	s.mu.Unlock()

	s.publish(Event{Kind: EventTick, RemainingSeconds: remaining})

	if expired {
		if _, err := s.submit(context.Background(), true); err != nil &&
			!errors.Is(err, ErrSubmitInFlight) && !errors.Is(err, ErrAlreadySubmitted) {
			s.log.Warn().Err(err).Msg("Timeout submission failed")
		}
	}
}

// SelectAnswer records or overwrites the selected option for a question.
// Re-selecting the same option is observably a no-op; selecting a
// different option replaces the previous entry. Only questions belonging
// to the exam are accepted.
func (s *Session) SelectAnswer(questionID, optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateInProgress:
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateSubmitted:
		return ErrAlreadySubmitted
	default:
		return ErrNotInProgress
	}

	if _, ok := s.questionIDs[questionID]; !ok {
		return ErrUnknownQuestion
	}

	s.answers[questionID] = optionID
	return nil
}

// Navigate moves the question cursor by delta, clamped to
// [0, questionCount-1]. It affects neither answers nor the countdown.
func (s *Session) Navigate(delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return s.cursor, ErrNotInProgress
	}

	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if max := len(s.exam.Questions) - 1; s.cursor > max {
		s.cursor = max
	}
	return s.cursor, nil
}

// Submit performs a manual submission. On a store failure the session
// returns to InProgress and the student may submit again.
func (s *Session) Submit(ctx context.Context) (int, error) {
	return s.submit(ctx, false)
}

// submit is the single entry point for both the manual and the timeout
// path. The InProgress → Submitting transition below is the one-shot
// latch: whichever caller wins it performs the store write, every other
// concurrent caller gets ErrSubmitInFlight or ErrAlreadySubmitted.
func (s *Session) submit(ctx context.Context, auto bool) (int, error) {
	s.mu.Lock()
	switch s.state {
	case StateInProgress:
	case StateSubmitting:
		s.mu.Unlock()
		return 0, ErrSubmitInFlight
	case StateSubmitted:
		s.mu.Unlock()
		return 0, ErrAlreadySubmitted
	default:
		s.mu.Unlock()
		return 0, ErrNotInProgress
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	return s.persist(ctx, auto)
}

// persist freezes the answer mapping, scores it, and writes the attempt.
// Called once from submit and again from the retry timer for a failed
// timeout submission.
func (s *Session) persist(ctx context.Context, auto bool) (int, error) {
	s.mu.Lock()
	exam := s.exam
	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	s.mu.Unlock()

	score := Score(exam.Questions, answers)
	attempt := &model.Attempt{
		ID:          uuid.New(),
		Exam:        model.ExamRef{ID: exam.ID, Title: exam.Title},
		StudentID:   s.studentID,
		Score:       score,
		Answers:     answers,
		AttemptedAt: time.Now(),
	}

	err := s.store.CreateAttempt(ctx, attempt)
	switch {
	case err == nil:
		s.finish(attempt, auto)
		return score, nil
	case errors.Is(err, ErrAlreadyAttempted):
		// A previous write already made it through. Terminal either way;
		// the caller surfaces this as a notice, not a failure.
		s.finish(attempt, auto)
		return score, ErrAlreadyAttempted
	default:
		return 0, s.persistFailed(err, auto)
	}
}

// persistFailed handles a store rejection. A failed manual submit drops
// the session back to InProgress so the student can retry; a failed
// timeout submit stays in Submitting and retries on a timer so the
// attempt is never silently discarded.
func (s *Session) persistFailed(err error, auto bool) error {
	if auto {
		s.log.Error().Err(err).Msg("Timeout submission rejected by store, scheduling retry")
		s.publish(Event{Kind: EventSubmitError, Auto: true, Error: "attempt could not be saved, retrying"})

		s.mu.Lock()
		if s.state == StateSubmitting {
			s.retryTimer = time.AfterFunc(s.retryWait, s.retryAuto)
		}
		s.mu.Unlock()
		return fmt.Errorf("store attempt: %w", err)
	}

	s.mu.Lock()
	if s.state == StateSubmitting {
		s.state = StateInProgress
	}
	s.mu.Unlock()

	s.publish(Event{Kind: EventSubmitError, Error: "attempt could not be saved"})
	return fmt.Errorf("store attempt: %w", err)
}

// retryAuto re-runs the timeout persistence while the session is still
// stuck in Submitting. Each failure schedules the next retry.
func (s *Session) retryAuto() {
	s.mu.Lock()
	if s.state != StateSubmitting {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	_, _ = s.persist(context.Background(), true)
}

// finish moves the session to its terminal state and stops the clock.
func (s *Session) finish(attempt *model.Attempt, auto bool) {
	s.mu.Lock()
	s.state = StateSubmitted
	s.result = attempt
	total := len(s.exam.Questions)
	s.mu.Unlock()

	s.publish(Event{
		Kind:  EventSubmitted,
		Score: attempt.Score,
		Total: total,
		Auto:  auto,
	})

	s.log.Info().
		Int("score", attempt.Score).
		Int("total", total).
		Bool("auto", auto).
		Msg("Attempt submitted")

	s.Close()
}

// Snapshot returns the current externally visible session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}

	snap := Snapshot{
		ExamID:           s.examID,
		State:            s.state,
		RemainingSeconds: s.remaining,
		Cursor:           s.cursor,
		Answers:          answers,
	}
	if s.exam != nil {
		snap.TotalQuestions = len(s.exam.Questions)
	}
	if s.result != nil {
		score := s.result.Score
		snap.Score = &score
	}
	return snap
}

// State returns the current life-cycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the persisted attempt once the session is Submitted.
func (s *Session) Result() (*model.Attempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.result != nil
}

// Subscribe registers an event channel. The returned cancel function
// must be called when the subscriber goes away.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}

// publish delivers an event to all subscribers without blocking; slow
// subscribers miss events rather than stalling the clock.
func (s *Session) publish(ev Event) {
	s.mu.Lock()
	targets := make([]chan Event, 0, len(s.subs))
	for ch := range s.subs {
		targets = append(targets, ch)
	}
	s.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Done is closed when the session's clock has been stopped for good
// (submitted, aborted, or closed on shutdown).
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close cancels the countdown and any pending persist retry. Safe to
// call multiple times and from any exit path.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.retryTimer != nil {
			s.retryTimer.Stop()
		}
		s.mu.Unlock()
		close(s.done)
	})
}
