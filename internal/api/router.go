package api

import (
	"fmt"
	"net/http"

	_ "github.com/SteffanA/devconnector/docs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/SteffanA/devconnector/internal/api/handlers"
	"github.com/SteffanA/devconnector/internal/api/middleware"
	"github.com/SteffanA/devconnector/internal/config"
	"github.com/rs/cors"
)

func SetupRouter(log *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	auth := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h)
	}

	// ---------- OPERATIONAL ----------
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	// ---------- USERS & AUTH ----------
	mux.HandleFunc("POST /api/users", handlers.RegisterUser)
	mux.HandleFunc("POST /api/auth", handlers.LoginUser)
	mux.Handle("GET /api/auth", auth(handlers.GetCurrentUser))

	// ---------- PROFILE ----------
	mux.HandleFunc("GET /api/profile", handlers.ListProfiles)
	mux.HandleFunc("GET /api/profile/user/{id}", handlers.GetProfileByUserID)
	mux.HandleFunc("GET /api/profile/github/{username}", handlers.GithubRepos)
	mux.Handle("GET /api/profile/me", auth(handlers.GetMyProfile))
	mux.Handle("POST /api/profile", auth(handlers.UpsertProfile))
	mux.Handle("DELETE /api/profile", auth(handlers.DeleteAccount))
	mux.Handle("PUT /api/profile/experience", auth(handlers.AddExperience))
	mux.Handle("DELETE /api/profile/experience/{id}", auth(handlers.DeleteExperience))
	mux.Handle("PUT /api/profile/education", auth(handlers.AddEducation))
	mux.Handle("DELETE /api/profile/education/{id}", auth(handlers.DeleteEducation))

	// ---------- POSTS ----------
	mux.Handle("POST /api/posts", auth(handlers.CreatePost))
	mux.Handle("GET /api/posts", auth(handlers.ListPosts))
	mux.Handle("GET /api/posts/{id}", auth(handlers.GetPost))
	mux.Handle("DELETE /api/posts/{id}", auth(handlers.DeletePost))
	mux.Handle("PUT /api/posts/like/{id}", auth(handlers.LikePost))
	mux.Handle("PUT /api/posts/unlike/{id}", auth(handlers.UnlikePost))
	mux.Handle("POST /api/posts/comment/{id}", auth(handlers.CommentOnPost))
	mux.Handle("DELETE /api/posts/comment/{id}/{comment_id}", auth(handlers.DeleteComment))

	log.Info("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Metrics(handler)
	handler = middleware.Logger(log)(handler)
	return handler
}
