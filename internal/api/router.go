package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/runcoach/training-planner/docs"
	"github.com/runcoach/training-planner/internal/api/handler"
	"github.com/runcoach/training-planner/internal/api/middleware"
)

type Router struct {
	userHandler     *handler.UserHandler
	workoutHandler  *handler.WorkoutLogHandler
	trainingHandler *handler.TrainingHandler
}

func NewRouter(
	userHandler *handler.UserHandler,
	workoutHandler *handler.WorkoutLogHandler,
	trainingHandler *handler.TrainingHandler,
) *Router {
	return &Router{
		userHandler:     userHandler,
		workoutHandler:  workoutHandler,
		trainingHandler: trainingHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Users
		r.Route("/users", func(r chi.Router) {
			r.Post("/", rt.userHandler.Create)
			r.Get("/{userId}", rt.userHandler.GetByID)
			r.Put("/{userId}/profile", rt.userHandler.UpdateProfile)

			// Workouts (nested under users)
			r.Route("/{userId}/workouts", func(r chi.Router) {
				r.Post("/", rt.workoutHandler.Create)
				r.Get("/", rt.workoutHandler.List)
			})

			// Planning pipeline (nested under users)
			r.Route("/{userId}/training", func(r chi.Router) {
				r.Get("/signals", rt.trainingHandler.GetSignals)
				r.Get("/context", rt.trainingHandler.GetContext)
				r.Post("/plan", rt.trainingHandler.GeneratePlan)
				r.Post("/plan/explanation", rt.trainingHandler.Explain)
			})
		})
	})

	return r
}
