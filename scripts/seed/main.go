package main

import (
	"fmt"
	"log"

	"github.com/runcoach/training-planner/internal/config"
	"github.com/runcoach/training-planner/internal/domain"
	"github.com/runcoach/training-planner/internal/seed"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	var users []domain.User
	if err := db.Order("created_at").Find(&users).Error; err != nil && err != gorm.ErrRecordNotFound {
		log.Fatalf("Failed to list users: %v", err)
	}

	fmt.Println("\nSample user IDs for testing:")
	for _, user := range users {
		fmt.Printf("  %s (%s, runs %v)\n", user.ID, user.Timezone, user.RunningDays)
	}
}
