package router

import (
	"net/http"

	"bridgegen/internal/cache"
	"bridgegen/internal/config"
	"bridgegen/internal/database"
	"bridgegen/internal/events"
	v1 "bridgegen/internal/handlers/api/v1"
	"bridgegen/internal/handlers/ws"
	"bridgegen/internal/middleware"
	"bridgegen/internal/response"
	"bridgegen/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Dependencies carries everything the router needs to wire handlers
type Dependencies struct {
	Services *services.ServiceCollection
	DB       *database.Manager
	Cache    cache.Cache
	EventBus events.EventBus
	Config   *config.Config
	Logger   *zap.Logger
}

// New builds the HTTP handler tree: public routes, authenticated
// routes, admin routes and the websocket endpoint.
func New(deps *Dependencies) http.Handler {
	builder := response.NewBuilder(deps.Logger, deps.Config.IsProduction())
	auth := middleware.NewAuthMiddleware(deps.Services.Auth)

	authController := v1.NewAuthController(deps.Services.Auth, builder)
	storyController := v1.NewStoryController(deps.Services.Story, builder)
	commentController := v1.NewCommentController(deps.Services.Comment, deps.Services.Auth, builder)
	gamificationController := v1.NewGamificationController(deps.Services.Gamification, builder)
	eventController := v1.NewEventController(deps.Services.Event, builder)
	mediaController := v1.NewMediaController(deps.Services.Media, deps.Config.Media.MaxFileSize, builder)
	healthController := v1.NewHealthController(deps.DB, deps.Cache, deps.EventBus, builder)
	hub := ws.NewHub(deps.EventBus, deps.Logger)

	r := mux.NewRouter()
	r.HandleFunc("/health", healthController.Health).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(middleware.SwaggerHandler())

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes; identity attached when a token is present
	public := api.NewRoute().Subrouter()
	public.Use(auth.Optional)
	public.HandleFunc("/auth/register", authController.Register).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", authController.Login).Methods(http.MethodPost)
	public.HandleFunc("/stories", storyController.List).Methods(http.MethodGet)
	public.HandleFunc("/stories/{id:[0-9]+}", storyController.Get).Methods(http.MethodGet)
	public.HandleFunc("/stories/{id:[0-9]+}/comments", commentController.List).Methods(http.MethodGet)
	public.HandleFunc("/badges", gamificationController.Catalog).Methods(http.MethodGet)
	public.HandleFunc("/achievements", gamificationController.Achievements).Methods(http.MethodGet)
	public.HandleFunc("/users/{id:[0-9]+}/badges", gamificationController.UserBadges).Methods(http.MethodGet)
	public.HandleFunc("/events", eventController.List).Methods(http.MethodGet)
	public.HandleFunc("/events/{id:[0-9]+}", eventController.Get).Methods(http.MethodGet)

	// Authenticated routes
	private := api.NewRoute().Subrouter()
	private.Use(auth.Required)
	private.HandleFunc("/auth/me", authController.Me).Methods(http.MethodGet)

	private.HandleFunc("/stories", storyController.Create).Methods(http.MethodPost)
	private.HandleFunc("/stories/deleted", storyController.ListDeleted).Methods(http.MethodGet)
	private.HandleFunc("/stories/{id:[0-9]+}", storyController.Update).Methods(http.MethodPatch)
	private.HandleFunc("/stories/{id:[0-9]+}", storyController.Delete).Methods(http.MethodDelete)
	private.HandleFunc("/stories/{id:[0-9]+}/restore", storyController.Restore).Methods(http.MethodPost)
	private.HandleFunc("/stories/{id:[0-9]+}/like", storyController.Like).Methods(http.MethodPost)
	private.HandleFunc("/stories/{id:[0-9]+}/like", storyController.Unlike).Methods(http.MethodDelete)
	private.HandleFunc("/stories/{id:[0-9]+}/share", storyController.Share).Methods(http.MethodPost)
	private.HandleFunc("/stories/{id:[0-9]+}/flag", storyController.Flag).Methods(http.MethodPost)
	private.HandleFunc("/stories/{id:[0-9]+}/comments", commentController.Create).Methods(http.MethodPost)
	private.HandleFunc("/comments/{id:[0-9]+}", commentController.Delete).Methods(http.MethodDelete)

	private.HandleFunc("/me/badges", gamificationController.MyBadges).Methods(http.MethodGet)
	private.HandleFunc("/me/achievements", gamificationController.MyAchievements).Methods(http.MethodGet)
	private.HandleFunc("/me/stats", gamificationController.MyStats).Methods(http.MethodGet)
	private.HandleFunc("/me/calendar", eventController.Calendar).Methods(http.MethodGet)

	private.HandleFunc("/events/{id:[0-9]+}/register", eventController.Register).Methods(http.MethodPost)
	private.HandleFunc("/events/{id:[0-9]+}/register", eventController.Unregister).Methods(http.MethodDelete)

	private.HandleFunc("/media", mediaController.Upload).Methods(http.MethodPost)
	private.Handle("/notifications/ws", hub).Methods(http.MethodGet)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.RequireAdmin)
	admin.HandleFunc("/stories/flagged", storyController.ListFlagged).Methods(http.MethodGet)
	admin.HandleFunc("/stories/{id:[0-9]+}/flag", storyController.Unflag).Methods(http.MethodDelete)

	admin.HandleFunc("/badges", gamificationController.CreateBadge).Methods(http.MethodPost)
	admin.HandleFunc("/badges/{id:[0-9]+}", gamificationController.UpdateBadge).Methods(http.MethodPut)
	admin.HandleFunc("/badges/{id:[0-9]+}", gamificationController.DeleteBadge).Methods(http.MethodDelete)
	admin.HandleFunc("/achievements", gamificationController.ListAchievements).Methods(http.MethodGet)
	admin.HandleFunc("/achievements", gamificationController.CreateAchievement).Methods(http.MethodPost)
	admin.HandleFunc("/achievements/{id:[0-9]+}", gamificationController.UpdateAchievement).Methods(http.MethodPut)
	admin.HandleFunc("/achievements/{id:[0-9]+}", gamificationController.DeleteAchievement).Methods(http.MethodDelete)

	admin.HandleFunc("/events", eventController.Create).Methods(http.MethodPost)
	admin.HandleFunc("/events.csv", eventController.ExportEvents).Methods(http.MethodGet)
	admin.HandleFunc("/events/dashboard", eventController.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/events/{id:[0-9]+}", eventController.Update).Methods(http.MethodPatch)
	admin.HandleFunc("/events/{id:[0-9]+}", eventController.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/events/{id:[0-9]+}/image", eventController.SetImage).Methods(http.MethodPut)
	admin.HandleFunc("/events/{id:[0-9]+}/registrations", eventController.Registrations).Methods(http.MethodGet)
	admin.HandleFunc("/events/{id:[0-9]+}/registrations.csv", eventController.ExportRegistrations).Methods(http.MethodGet)

	return middleware.Chain(r, middleware.Standard(deps.Logger)...)
}
