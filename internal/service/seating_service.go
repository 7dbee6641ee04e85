package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/examdesk/examdesk-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNoStudents means a seating plan was requested with zero registered
// students.
var ErrNoStudents = errors.New("no students registered")

// CapacityError means the room cannot hold the student body.
type CapacityError struct {
	Students int
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("room holds %d students but %d are registered", e.Capacity, e.Students)
}

// SeatingService generates and serves the exam-room seating plan.
type SeatingService struct {
	users *repository.UserRepository
	seats *repository.SeatingRepository
	log   zerolog.Logger
}

// NewSeatingService creates a new SeatingService.
func NewSeatingService(users *repository.UserRepository, seats *repository.SeatingRepository, log zerolog.Logger) *SeatingService {
	return &SeatingService{
		users: users,
		seats: seats,
		log:   log.With().Str("component", "seating_service").Logger(),
	}
}

// Generate assigns every student to a bench in roll-number order,
// filling each bench before moving to the next, and stores the result
// as the current plan.
func (s *SeatingService) Generate(ctx context.Context, adminID uuid.UUID, req *model.GenerateSeatingRequest) (*model.SeatingPlan, error) {
	students, err := s.users.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if len(students) == 0 {
		return nil, ErrNoStudents
	}

	capacity := req.TotalBenches * req.StudentsPerBench
	if len(students) > capacity {
		return nil, &CapacityError{Students: len(students), Capacity: capacity}
	}

	arrangement := buildArrangement(students, req.TotalBenches, req.StudentsPerBench)

	plan := &model.SeatingPlan{
		RoomNumber:       req.RoomNumber,
		TotalBenches:     req.TotalBenches,
		StudentsPerBench: req.StudentsPerBench,
		Arrangement:      arrangement,
		UpdatedBy:        adminID,
	}
	if err := s.seats.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("save seating plan: %w", err)
	}

	s.log.Info().
		Str("room", plan.RoomNumber).
		Int("students", len(students)).
		Int("benches", len(arrangement)).
		Msg("Seating plan generated")
	return plan, nil
}

// buildArrangement fills benches sequentially: bench 1 takes the first
// studentsPerBench students, bench 2 the next, and so on. Benches left
// empty are omitted from the result.
func buildArrangement(students []model.User, totalBenches, studentsPerBench int) []model.Bench {
	arrangement := make([]model.Bench, 0, totalBenches)
	for b := 0; b < totalBenches && b*studentsPerBench < len(students); b++ {
		end := (b + 1) * studentsPerBench
		if end > len(students) {
			end = len(students)
		}
		bench := model.Bench{ID: b + 1}
		for _, u := range students[b*studentsPerBench : end] {
			bench.Students = append(bench.Students, model.SeatOccupant{
				ID:         u.ID,
				Name:       u.Name,
				RollNumber: u.RollNumber,
			})
		}
		arrangement = append(arrangement, bench)
	}
	return arrangement
}

// Get returns the current seating plan.
func (s *SeatingService) Get(ctx context.Context) (*model.SeatingPlan, error) {
	return s.seats.Get(ctx)
}
