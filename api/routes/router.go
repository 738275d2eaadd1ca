package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/supplynet-dashboard/api/controllers"
	"github.com/angelmondragon/supplynet-dashboard/api/middleware"
	"github.com/angelmondragon/supplynet-dashboard/internal/fleet"
	"github.com/angelmondragon/supplynet-dashboard/internal/views"
	"github.com/angelmondragon/supplynet-dashboard/pkg/config"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
)

// Deps are the services the router hands to its controllers. Redis and
// Gatherer may be nil.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Directory controllers.Directory
	Refresher controllers.Refresher
	Orders    controllers.OrderLister
	Fleet     *fleet.Fleet
	Views     *views.Registry
	Redis     controllers.Pinger
	Gatherer  prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Redis))
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.StoresList(d.Directory))
			r.Post("/refresh", controllers.StoresRefresh(d.Directory, d.Refresher, logg))
			r.Get("/{storeID}", controllers.StoreGet(d.Directory, logg))
			r.Patch("/{storeID}", controllers.StoreUpdate(d.Directory, logg))
		})

		r.Get("/map", controllers.MapProjection(d.Directory, d.Fleet))
		r.Get("/summary", controllers.Summary(d.Directory, d.Fleet, d.Orders, d.Views, logg))

		r.Route("/views", func(r chi.Router) {
			r.Post("/", controllers.ViewCreate(d.Views, logg))
			r.Route("/{viewID}", func(r chi.Router) {
				r.Get("/", controllers.ViewGet(d.Views, logg))
				r.Delete("/", controllers.ViewDelete(d.Views, logg))
				r.Post("/reload", controllers.ViewReload(d.Views, logg))
				r.Patch("/conditions", controllers.ViewConditionsEdit(d.Views, logg))
				r.Put("/conditions", controllers.ViewConditionsSubmit(d.Views, logg))
				r.Put("/items/{itemName}", controllers.ViewItemDraft(d.Views, logg))
				r.Put("/notes", controllers.ViewNotes(d.Views, logg))
				r.Post("/orders", controllers.ViewOrderSubmit(d.Views, logg))

				r.Route("/assistant", func(r chi.Router) {
					r.Get("/", controllers.AssistantSnapshot(d.Views, logg))
					r.Post("/", controllers.AssistantOpen(d.Views, logg))
					r.Delete("/", controllers.AssistantClose(d.Views, logg))
					r.Post("/analysis", controllers.AssistantStart(d.Views, logg))
					r.Post("/stop", controllers.AssistantStop(d.Views, logg))
					r.Get("/stream", controllers.AssistantStream(d.Views, cfg.App.CORSOrigins, logg))
				})
			})
		})
	})

	return r
}
