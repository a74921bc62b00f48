package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jubahomez/jubahomez-backend/api/controllers"
	"github.com/jubahomez/jubahomez-backend/api/middleware"
	"github.com/jubahomez/jubahomez-backend/api/responses"
	adminsvc "github.com/jubahomez/jubahomez-backend/internal/admin"
	"github.com/jubahomez/jubahomez-backend/internal/analytics"
	"github.com/jubahomez/jubahomez-backend/internal/audit"
	authsvc "github.com/jubahomez/jubahomez-backend/internal/auth"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/internal/media"
	"github.com/jubahomez/jubahomez-backend/internal/notifications"
	"github.com/jubahomez/jubahomez-backend/internal/photojobs"
	"github.com/jubahomez/jubahomez-backend/internal/properties"
	"github.com/jubahomez/jubahomez-backend/internal/users"
	"github.com/jubahomez/jubahomez-backend/internal/viewings"
	"github.com/jubahomez/jubahomez-backend/pkg/config"
	"github.com/jubahomez/jubahomez-backend/pkg/db"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
	"github.com/jubahomez/jubahomez-backend/pkg/metrics"
	"github.com/jubahomez/jubahomez-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth          authsvc.Service
	Users         users.Service
	Properties    properties.Service
	Media         media.Service
	Viewings      viewings.Service
	PhotoJobs     photojobs.Service
	Notifications notifications.Service
	Analytics     analytics.Service
	Admin         adminsvc.Service
	Audit         audit.Service
	Dispatcher    *events.Dispatcher
}

// NewRouter assembles the HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	cache *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
	r.NotFound(responses.WriteNotFoundRoute)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(logg, database, cache))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Uploaded media is served straight off the local store.
	uploadsFS := http.StripPrefix(cfg.Upload.BaseURL+"/", http.FileServer(http.Dir(cfg.Upload.Dir)))
	r.Get(cfg.Upload.BaseURL+"/*", uploadsFS.ServeHTTP)

	rateLimit := middleware.RateLimit(cfg.RateLimit, cache, logg)
	optionalAuth := middleware.OptionalAuth(cfg.JWT, logg)
	requireAuth := middleware.Auth(cfg.JWT, svcs.Users, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
			r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
			r.With(requireAuth).Get("/me", controllers.AuthMe(svcs.Users, logg))
		})

		// Public catalogue. Optional auth lets parties see their own
		// unapproved listings and stamps inquiries with the requester.
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/properties", controllers.PropertyList(svcs.Properties, logg))
			r.Get("/properties/{propertyId}", controllers.PropertyGet(svcs.Properties, logg))
			r.Get("/properties/{propertyId}/media", controllers.MediaListPublic(svcs.Media, logg))
			r.Post("/properties/{propertyId}/inquiries", controllers.PropertyInquiryCreate(svcs.Properties, svcs.Dispatcher, logg))
			r.Post("/properties/{propertyId}/viewing-requests", controllers.PropertyViewingRequestCreate(svcs.Viewings, svcs.Dispatcher, logg))
			r.Post("/analytics/events", controllers.AnalyticsTrack(svcs.Analytics, svcs.Dispatcher, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/properties", controllers.PropertyCreate(svcs.Properties, svcs.Dispatcher, logg))
			r.Get("/properties/mine", controllers.PropertyListMine(svcs.Properties, logg))
			r.Post("/properties/{propertyId}/media", controllers.MediaUpload(svcs.Media, cfg.Upload, svcs.Dispatcher, logg))
			r.Delete("/media/{mediaId}", controllers.MediaDelete(svcs.Media, svcs.Dispatcher, logg))

			r.Get("/viewing-requests", controllers.ViewingRequestList(svcs.Viewings, logg))
			r.Route("/viewings", func(r chi.Router) {
				r.Post("/", controllers.ViewingCreate(svcs.Viewings, svcs.Dispatcher, logg))
				r.Get("/", controllers.ViewingList(svcs.Viewings, logg))
				r.Post("/{viewingId}/reschedule", controllers.ViewingReschedule(svcs.Viewings, svcs.Dispatcher, logg))
				r.Post("/{viewingId}/cancel", controllers.ViewingCancel(svcs.Viewings, svcs.Dispatcher, logg))
			})

			r.Route("/photo-jobs", func(r chi.Router) {
				r.Post("/", controllers.PhotoJobCreate(svcs.PhotoJobs, svcs.Dispatcher, logg))
				r.Get("/open", controllers.PhotoJobListOpen(svcs.PhotoJobs, logg))
				r.Get("/mine", controllers.PhotoJobListMine(svcs.PhotoJobs, logg))
				r.Post("/{jobId}/accept", controllers.PhotoJobAccept(svcs.PhotoJobs, svcs.Dispatcher, logg))
				r.Post("/{jobId}/reject", controllers.PhotoJobReject(svcs.PhotoJobs, svcs.Dispatcher, logg))
				r.Post("/{jobId}/schedule", controllers.PhotoJobSchedule(svcs.PhotoJobs, svcs.Dispatcher, logg))
				r.Post("/{jobId}/complete", controllers.PhotoJobComplete(svcs.PhotoJobs, svcs.Dispatcher, logg))
				r.Get("/{jobId}/messages", controllers.PhotoJobMessageList(svcs.PhotoJobs, logg))
				r.Post("/{jobId}/messages", controllers.PhotoJobMessageCreate(svcs.PhotoJobs, svcs.Dispatcher, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.NotificationList(svcs.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.NotificationMarkRead(svcs.Notifications, logg))
				r.Post("/read-all", controllers.NotificationMarkAllRead(svcs.Notifications, logg))
			})

			r.Get("/announcements", controllers.AnnouncementList(svcs.Admin, logg))

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/properties/{propertyId}", controllers.AnalyticsPropertyStats(svcs.Analytics, logg))
				r.Get("/my-properties", controllers.AnalyticsMyStats(svcs.Analytics, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminUserList(svcs.Admin, logg))
				r.Post("/{userId}/approve", controllers.AdminUserApprove(svcs.Admin, svcs.Dispatcher, logg))
				r.Post("/{userId}/reject", controllers.AdminUserReject(svcs.Admin, svcs.Dispatcher, logg))
			})

			r.Route("/properties", func(r chi.Router) {
				r.Get("/", controllers.AdminPropertyList(svcs.Admin, logg))
				r.Post("/{propertyId}/approve", controllers.AdminPropertyApprove(svcs.Admin, svcs.Dispatcher, logg))
				r.Post("/{propertyId}/reject", controllers.AdminPropertyReject(svcs.Admin, svcs.Dispatcher, logg))
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", controllers.MediaModerationList(svcs.Media, logg))
				r.Post("/{mediaId}/approve", controllers.MediaApprove(svcs.Media, svcs.Dispatcher, logg))
				r.Post("/{mediaId}/reject", controllers.MediaReject(svcs.Media, svcs.Dispatcher, logg))
			})

			r.Get("/audit-logs", controllers.AdminAuditLogList(svcs.Audit, logg))
			r.Post("/announcements", controllers.AdminAnnouncementCreate(svcs.Admin, svcs.Dispatcher, logg))
		})
	})

	return r
}
