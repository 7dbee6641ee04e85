package model

import (
	"time"

	"github.com/google/uuid"
)

// SeatOccupant is a student assigned to a bench seat.
type SeatOccupant struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	RollNumber string    `json:"roll_number"`
}

// Bench is one bench in the room with its assigned occupants.
type Bench struct {
	ID       int            `json:"id"`
	Students []SeatOccupant `json:"students"`
}

// SeatingPlan is the room layout with students assigned sequentially to
// benches. One plan exists at a time; saving replaces the previous one.
type SeatingPlan struct {
	ID               uuid.UUID `json:"id"`
	RoomNumber       string    `json:"room_number"`
	TotalBenches     int       `json:"total_benches"`
	StudentsPerBench int       `json:"students_per_bench"`
	Arrangement      []Bench   `json:"arrangement"`
	UpdatedBy        uuid.UUID `json:"updated_by"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// GenerateSeatingRequest is the payload for generating a seating plan.
type GenerateSeatingRequest struct {
	RoomNumber       string `json:"room_number" binding:"required,min=1,max=50"`
	TotalBenches     int    `json:"total_benches" binding:"required,min=1,max=500"`
	StudentsPerBench int    `json:"students_per_bench" binding:"required,min=1,max=10"`
}
