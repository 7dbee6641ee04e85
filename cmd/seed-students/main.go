package main

import (
	"context"
	"fmt"
	"time"

	"github.com/examdesk/examdesk-backend/internal/config"
	"github.com/examdesk/examdesk-backend/internal/database"
	"github.com/examdesk/examdesk-backend/internal/logger"
	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/examdesk/examdesk-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Seeds 50 student accounts for development. Every account gets the
// password "changeme".
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	fmt.Println("=== Seeding 50 Students ===")

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash seed password")
	}

	names := []string{
		"Aarav Sharma", "Diya Patel", "Vivaan Gupta", "Ananya Singh", "Aditya Kumar",
		"Ishita Verma", "Arjun Reddy", "Saanvi Mehta", "Kabir Joshi", "Myra Nair",
		"Rohan Malhotra", "Aisha Khan", "Dev Choudhury", "Kiara Kapoor", "Ishaan Bose",
		"Navya Iyer", "Aryan Desai", "Tara Menon", "Veer Rathore", "Zara Sheikh",
		"Advait Kulkarni", "Riya Banerjee", "Shaurya Mishra", "Anvi Agarwal", "Yuvraj Singh",
		"Pari Bhatt", "Arnav Saxena", "Mishka Rao", "Reyansh Pillai", "Avni Chopra",
		"Vihaan Shetty", "Inaaya Das", "Atharv Pandey", "Siya Thakur", "Krish Bhatia",
		"Amaira Sinha", "Dhruv Jain", "Larisa D'Souza", "Shivansh Tiwari", "Nitya Krishnan",
		"Ayaan Mirza", "Prisha Dutta", "Ranbir Gill", "Aadhya Menon", "Samar Chawla",
		"Ira Bajaj", "Nivaan Ahuja", "Ruhi Wadhwa", "Parth Gokhale", "Mahika Sen",
	}

	successCount := 0
	for i, name := range names {
		student := &model.User{
			Name:         name,
			Role:         model.RoleStudent,
			RollNumber:   fmt.Sprintf("R%04d", i+1),
			Email:        fmt.Sprintf("student%d@examdesk.local", i+1),
			PasswordHash: string(hash),
		}

		if err := userRepo.Create(ctx, student); err != nil {
			fmt.Printf("Error creating student %s (%s): %v\n", student.Name, student.RollNumber, err)
			continue
		}
		successCount++
		if (i+1)%10 == 0 {
			fmt.Printf("Created %d students...\n", i+1)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, len(names))
}
