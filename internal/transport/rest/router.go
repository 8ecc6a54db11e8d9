package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/cache"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/repository"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/service"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/transport/rest/handler"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService *service.AuthService
	Questions   repository.QuestionRepo
	Leaderboard cache.LeaderboardCache
}

// NewRouter creates the management API router
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	questionHandler := handler.NewQuestionHandler(c.Questions)
	leaderboardHandler := handler.NewLeaderboardHandler(c.Leaderboard)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	v1.HandleFunc("/leaderboard", leaderboardHandler.GetTop).Methods("GET")

	// Admin routes (require admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/questions", questionHandler.Create).Methods("POST")
	adminRoutes.HandleFunc("/questions", questionHandler.List).Methods("GET")
	adminRoutes.HandleFunc("/questions/{id}", questionHandler.Get).Methods("GET")
	adminRoutes.HandleFunc("/questions/{id}", questionHandler.Delete).Methods("DELETE")

	return r
}
