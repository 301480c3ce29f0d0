package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/handharbeni/notaryflow-backend/api/controllers"
	"github.com/handharbeni/notaryflow-backend/api/middleware"
	"github.com/handharbeni/notaryflow-backend/internal/custody"
	"github.com/handharbeni/notaryflow-backend/internal/documents"
	"github.com/handharbeni/notaryflow-backend/internal/notifications"
	"github.com/handharbeni/notaryflow-backend/pkg/config"
	"github.com/handharbeni/notaryflow-backend/pkg/logger"
	pkgredis "github.com/handharbeni/notaryflow-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	cacheP controllers.Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	documentsService documents.Service,
	custodyService custody.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/documents", func(r chi.Router) {
			r.With(middleware.RequirePrivileged(logg)).Post("/", controllers.RegisterDocument(documentsService, logg))
			r.Route("/{documentId}", func(r chi.Router) {
				r.Get("/", controllers.GetDocument(documentsService, logg))
				r.Get("/custody", controllers.GetDocumentCustody(custodyService, logg))
				r.Get("/location-history", controllers.GetLocationHistory(custodyService, logg))
				r.Post("/custody-requests", controllers.RequestCustody(custodyService, logg))
			})
		})

		r.Route("/v1/custody-requests", func(r chi.Router) {
			r.Get("/", controllers.ListCustodyRequests(custodyService, logg))
			r.Post("/{requestId}/status", controllers.TransitionRequest(custodyService, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})
	})

	return r
}
