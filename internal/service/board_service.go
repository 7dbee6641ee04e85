package service

import (
	"context"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/examdesk/examdesk-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BoardService handles the public notice board and exam timetable.
type BoardService struct {
	notices   *repository.NoticeRepository
	timetable *repository.TimetableRepository
	log       zerolog.Logger
}

// NewBoardService creates a new BoardService.
func NewBoardService(notices *repository.NoticeRepository, timetable *repository.TimetableRepository, log zerolog.Logger) *BoardService {
	return &BoardService{
		notices:   notices,
		timetable: timetable,
		log:       log.With().Str("component", "board_service").Logger(),
	}
}

// CreateNotice posts a new notice.
func (s *BoardService) CreateNotice(ctx context.Context, req *model.CreateNoticeRequest) (*model.Notice, error) {
	notice := &model.Notice{Title: req.Title, Content: req.Content}
	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, err
	}
	s.log.Info().Str("notice_id", notice.ID.String()).Msg("Notice posted")
	return notice, nil
}

// ListNotices returns all notices, newest first.
func (s *BoardService) ListNotices(ctx context.Context) ([]model.Notice, error) {
	return s.notices.List(ctx)
}

// DeleteNotice removes a notice.
func (s *BoardService) DeleteNotice(ctx context.Context, id uuid.UUID) error {
	return s.notices.Delete(ctx, id)
}

// CreateTimetableEntry adds a timetable slot.
func (s *BoardService) CreateTimetableEntry(ctx context.Context, req *model.CreateTimetableEntryRequest) (*model.TimetableEntry, error) {
	entry := &model.TimetableEntry{
		Subject:   req.Subject,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Venue:     req.Venue,
	}
	if err := s.timetable.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListTimetable returns all timetable entries in chronological order.
func (s *BoardService) ListTimetable(ctx context.Context) ([]model.TimetableEntry, error) {
	return s.timetable.List(ctx)
}

// DeleteTimetableEntry removes a timetable slot.
func (s *BoardService) DeleteTimetableEntry(ctx context.Context, id uuid.UUID) error {
	return s.timetable.Delete(ctx, id)
}
