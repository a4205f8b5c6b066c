// Training Planner API
//
// REST API for deterministic weekly training plans built from workout history.
//
//	@title			Training Planner API
//	@version		1.0
//	@description	Aggregate workout history into training signals, apply deterministic adjustment rules, and synthesize a 7-day plan. Same history in, same plan out.
//
//	@BasePath	/v1
//
//	@tag.name			users
//	@tag.description	User and profile management endpoints
//
//	@tag.name			workouts
//	@tag.description	Workout recording endpoints
//
//	@tag.name			training
//	@tag.description	Signals, context, plan and explanation endpoints
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/runcoach/training-planner/internal/api"
	"github.com/runcoach/training-planner/internal/api/handler"
	"github.com/runcoach/training-planner/internal/config"
	"github.com/runcoach/training-planner/internal/domain"
	"github.com/runcoach/training-planner/internal/llm"
	"github.com/runcoach/training-planner/internal/repository"
	"github.com/runcoach/training-planner/internal/seed"
	"github.com/runcoach/training-planner/internal/service"
	"github.com/runcoach/training-planner/internal/telemetry"
	"github.com/runcoach/training-planner/pkg/daycache"
	"github.com/runcoach/training-planner/pkg/quota"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize tracing (no-op when OTLP is not configured)
	shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg, "training-planner-api")
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Failed to shut down tracer: %v", err)
		}
	}()

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(&domain.User{}, &domain.WorkoutLog{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if cfg.Seed {
		log.Println("Seeding database with sample data (SEED=true)...")
		if err := seed.Run(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	workoutRepo := repository.NewWorkoutLogRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo)
	workoutService := service.NewWorkoutLogService(workoutRepo, userRepo)
	signalsService := service.NewSignalsService(workoutRepo, userRepo)
	adjustmentService := service.NewAdjustmentService()
	planService := service.NewPlanService()

	// Initialize OpenAI client (may be nil if not configured)
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIPlanExplainerModel)
	if openaiClient == nil {
		log.Println("Warning: OpenAI API key not configured, explanation endpoint will be unavailable")
	}

	explainService := service.NewExplainService(
		signalsService,
		adjustmentService,
		planService,
		openaiClient,
		daycache.New(daycache.SystemClock()),
		quota.New(quota.SystemClock()),
		cfg.ExplanationDailyLimit,
	)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	workoutHandler := handler.NewWorkoutLogHandler(workoutService)
	trainingHandler := handler.NewTrainingHandler(signalsService, adjustmentService, planService, explainService)

	// Setup router
	router := api.NewRouter(userHandler, workoutHandler, trainingHandler)
	routerHandler := router.Setup()

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, routerHandler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
