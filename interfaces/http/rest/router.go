package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"exercisely-backend/application/services"
	"exercisely-backend/interfaces/http/rest/handlers"
	"exercisely-backend/interfaces/http/rest/middleware"
	"exercisely-backend/pkg/auth"
	"exercisely-backend/pkg/observability"
)

// Deps collects everything the router needs. IPLimiter, UserLimiter
// and Tracer are optional.
type Deps struct {
	Users     *services.UserService
	Exercises *services.ExerciseService
	Likes     *services.LikeService
	Comments  *services.CommentService
	Lists     *services.ListService
	Followers *services.FollowerService

	Validator   *auth.JWTValidator
	IPLimiter   auth.RateLimiter
	UserLimiter auth.RateLimiter
	Tracer      *observability.Tracer

	EnableCORS bool
	Logger     *zap.Logger
}

// Router creates and configures the HTTP router
type Router struct {
	deps Deps
}

// NewRouter creates a new router instance
func NewRouter(deps Deps) *Router {
	return &Router{deps: deps}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.deps.Logger))

	if rt.deps.Tracer != nil {
		router.Use(middleware.Tracing(rt.deps.Tracer))
	}

	if rt.deps.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.exercisely.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	authHandler := handlers.NewAuthHandler(rt.deps.Users, rt.deps.Logger)
	userHandler := handlers.NewUserHandler(rt.deps.Users, rt.deps.Logger)
	exerciseHandler := handlers.NewExerciseHandler(rt.deps.Exercises, rt.deps.Logger)
	likeHandler := handlers.NewLikeHandler(rt.deps.Likes, rt.deps.Logger)
	commentHandler := handlers.NewCommentHandler(rt.deps.Comments, rt.deps.Logger)
	listHandler := handlers.NewListHandler(rt.deps.Lists, rt.deps.Logger)
	followerHandler := handlers.NewFollowerHandler(rt.deps.Followers, rt.deps.Logger)

	router.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/refresh", authHandler.Refresh)
			r.Post("/auth/forgot-password", authHandler.ForgotPassword)
			r.Post("/auth/confirm-forgot-password", authHandler.ConfirmForgotPassword)
			r.Post("/auth/resend-code", authHandler.ResendCode)
		})

		// Catalog reads work without a token; identity, when present,
		// only personalizes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthenticate(rt.deps.Validator))
			r.Get("/exercises", exerciseHandler.Query)
			r.Get("/exercises/{exerciseID}", exerciseHandler.Get)
			r.Get("/comments", commentHandler.Get)
		})

		// Everything else requires authentication
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.deps.Validator, rt.deps.IPLimiter, rt.deps.UserLimiter, rt.deps.Logger))

			r.Post("/exercises", exerciseHandler.Create)
			r.Post("/exercises/search", exerciseHandler.Search)
			r.Post("/exercises/{exerciseID}/like", likeHandler.Like)
			r.Delete("/exercises/{exerciseID}/like", likeHandler.Unlike)
			r.Post("/exercises/{exerciseID}/comments", commentHandler.Add)

			r.Put("/comments/{commentID}", commentHandler.Update)
			r.Delete("/comments/{commentID}", commentHandler.Delete)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.GetAll)
				r.Get("/me", userHandler.GetMe)
				r.Put("/me", userHandler.UpdateMe)
				r.Delete("/me", userHandler.DeleteMe)
				r.Post("/me/password", userHandler.ChangePassword)
				r.Post("/me/email", userHandler.ChangeEmail)
				r.Post("/me/email/confirm", userHandler.ConfirmChangeEmail)
				r.Post("/me/photo-upload", userHandler.PresignPhotoUpload)
				r.Delete("/me/photo", userHandler.DeletePhoto)
				r.Get("/me/likes", likeHandler.GetLiked)
				r.Get("/me/following", followerHandler.GetFollowing)
				r.Get("/me/followed-lists", followerHandler.GetFollowedLists)
				r.Get("/{userID}", userHandler.GetUser)
				r.Get("/{userID}/followers", followerHandler.GetFollowers)
				r.Get("/{userID}/lists", listHandler.GetByUser)
			})

			r.Route("/lists", func(r chi.Router) {
				r.Post("/", listHandler.Create)
				r.Get("/", listHandler.GetRelevant)
				r.Get("/{listID}", listHandler.Get)
				r.Put("/{listID}", listHandler.Update)
				r.Delete("/{listID}", listHandler.Delete)
				r.Post("/{listID}/exercises", listHandler.AddExercise)
				r.Delete("/{listID}/exercises/{exerciseID}", listHandler.RemoveExercise)
				r.Post("/{listID}/share", listHandler.Share)
			})

			r.Post("/follow", followerHandler.Follow)
			r.Post("/unfollow", followerHandler.Unfollow)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
