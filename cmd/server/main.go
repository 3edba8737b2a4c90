package main

import (
	"log"
	"net/http"
	"os"

	"github.com/estudai/backend/internal/auth"
	"github.com/estudai/backend/internal/catalog"
	"github.com/estudai/backend/internal/database"
	"github.com/estudai/backend/internal/gamification"
	"github.com/estudai/backend/internal/generator"
	"github.com/estudai/backend/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Local development convenience; ignored when the file is absent.
	godotenv.Load()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize handlers
	authHandler := auth.NewHandler(db)
	catalogStore := catalog.NewStore(db)
	catalogHandler := catalog.NewHandler(catalogStore)
	gamStore := gamification.NewStore(db)
	gamService := gamification.NewService(gamStore, catalogStore, generator.NewGenerator())
	gamHandler := gamification.NewHandler(gamService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/catalog/subjects", catalogHandler.ListSubjects).Methods("GET")
	protected.HandleFunc("/catalog/subjects/{id}", catalogHandler.GetSubject).Methods("GET")
	protected.HandleFunc("/catalog/subjects/{id}", catalogHandler.UpsertSubject).Methods("PUT")

	protected.HandleFunc("/progress", gamHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/progress/badges", gamHandler.GetBadges).Methods("GET")
	protected.HandleFunc("/progress/leaderboard", gamHandler.Leaderboard).Methods("GET")
	protected.HandleFunc("/progress/xp-events", gamHandler.XPHistory).Methods("GET")

	protected.HandleFunc("/activities/quiz", gamHandler.CompleteQuiz).Methods("POST")
	protected.HandleFunc("/activities/review", gamHandler.CompleteReview).Methods("POST")
	protected.HandleFunc("/activities/game", gamHandler.CompleteGame).Methods("POST")
	protected.HandleFunc("/activities/custom-quiz", gamHandler.CompleteCustomQuiz).Methods("POST")
	protected.HandleFunc("/activities/simulado", gamHandler.CompleteSimulado).Methods("POST")
	protected.HandleFunc("/activities/challenge", gamHandler.CompleteChallenge).Methods("POST")
	protected.HandleFunc("/activities/flashcard", gamHandler.RateFlashcard).Methods("POST")

	protected.HandleFunc("/reviews", gamHandler.CreateReviewSession).Methods("POST")
	protected.HandleFunc("/custom-quizzes", gamHandler.CreateCustomQuiz).Methods("POST")
	protected.HandleFunc("/custom-quizzes/generate", gamHandler.GenerateCustomQuiz).Methods("POST")
	protected.HandleFunc("/simulados", gamHandler.CreateSimulado).Methods("POST")
	protected.HandleFunc("/challenges/{type}", gamHandler.GetChallenge).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
