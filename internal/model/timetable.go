package model

import (
	"time"

	"github.com/google/uuid"
)

// TimetableEntry is a scheduled exam slot. Start and end times are kept
// as "HH:MM" strings, matching what the scheduling UI submits.
type TimetableEntry struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Venue     string    `json:"venue,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTimetableEntryRequest is the payload for adding a timetable slot.
type CreateTimetableEntryRequest struct {
	Subject   string    `json:"subject" binding:"required,min=1,max=255"`
	Date      time.Time `json:"date" binding:"required"`
	StartTime string    `json:"start_time" binding:"required,len=5"`
	EndTime   string    `json:"end_time" binding:"required,len=5"`
	Venue     string    `json:"venue" binding:"omitempty,max=255"`
}
