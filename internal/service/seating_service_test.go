package service

import (
	"fmt"
	"testing"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/google/uuid"
)

func seedStudents(n int) []model.User {
	students := make([]model.User, n)
	for i := range students {
		students[i] = model.User{
			ID:         uuid.New(),
			Name:       fmt.Sprintf("Student %d", i+1),
			Role:       model.RoleStudent,
			RollNumber: fmt.Sprintf("R%04d", i+1),
		}
	}
	return students
}

func TestBuildArrangementFillsSequentially(t *testing.T) {
	students := seedStudents(5)

	arrangement := buildArrangement(students, 3, 2)

	if len(arrangement) != 3 {
		t.Fatalf("benches = %d, want 3", len(arrangement))
	}
	if got := len(arrangement[0].Students); got != 2 {
		t.Errorf("bench 1 occupancy = %d, want 2", got)
	}
	if got := len(arrangement[2].Students); got != 1 {
		t.Errorf("last bench occupancy = %d, want 1", got)
	}

	// Sequential fill: the first two roll numbers share bench 1.
	if arrangement[0].Students[0].RollNumber != "R0001" ||
		arrangement[0].Students[1].RollNumber != "R0002" {
		t.Errorf("bench 1 got %+v", arrangement[0].Students)
	}
	if arrangement[1].Students[0].RollNumber != "R0003" {
		t.Errorf("bench 2 got %+v", arrangement[1].Students)
	}
}

func TestBuildArrangementOmitsEmptyBenches(t *testing.T) {
	arrangement := buildArrangement(seedStudents(2), 10, 2)

	if len(arrangement) != 1 {
		t.Fatalf("benches = %d, want 1 (empty benches omitted)", len(arrangement))
	}
	if arrangement[0].ID != 1 {
		t.Errorf("bench ID = %d, want 1", arrangement[0].ID)
	}
}

func TestBuildArrangementExactCapacity(t *testing.T) {
	arrangement := buildArrangement(seedStudents(6), 3, 2)

	if len(arrangement) != 3 {
		t.Fatalf("benches = %d, want 3", len(arrangement))
	}
	total := 0
	for _, bench := range arrangement {
		total += len(bench.Students)
	}
	if total != 6 {
		t.Errorf("seated %d students, want 6", total)
	}
}
