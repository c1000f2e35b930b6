package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Teffi0/server/api/controllers"
	"github.com/Teffi0/server/api/middleware"
	"github.com/Teffi0/server/pkg/config"
	"github.com/Teffi0/server/pkg/db"
	"github.com/Teffi0/server/pkg/logger"
	"github.com/Teffi0/server/pkg/metrics"
	pkgredis "github.com/Teffi0/server/pkg/redis"
)

// NewRouter wires every endpoint. Services arrive as the interfaces the
// controllers consume, so the router needs nothing from the internal packages.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	taskService controllers.TaskService,
	inventoryService controllers.InventoryService,
	clientService controllers.ClientService,
	employeeService controllers.EmployeeService,
	catalogService controllers.CatalogService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.Actor(logg),
	)

	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger(redisClient)))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/tasks", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/", controllers.TaskList(taskService, logg))
		r.Post("/", controllers.TaskCreate(taskService, logg))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.TaskDetail(taskService, logg))
			r.Put("/", controllers.TaskUpdate(taskService, logg))
			r.Delete("/", controllers.TaskDelete(taskService, logg))
			r.Put("/status", controllers.TaskUpdateStatus(taskService, logg))
			r.Put("/complete", controllers.TaskComplete(taskService, logg))
			r.Put("/inventory", controllers.TaskReplaceInventory(taskService, logg))
			r.Get("/inventory", controllers.TaskInventory(taskService, logg))
			r.Post("/employees", controllers.TaskAttachEmployees(taskService, logg))
			r.Get("/employees", controllers.TaskParticipants(taskService, logg))
			r.Post("/services", controllers.TaskAttachServices(taskService, logg))
			r.Get("/services", controllers.TaskServices(taskService, logg))
		})
	})

	r.Get("/task-dates", controllers.TaskDates(taskService, logg))
	r.Get("/task-participants/{id}", controllers.TaskParticipants(taskService, logg))

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", controllers.InventoryList(inventoryService, logg))
		r.Post("/", controllers.InventoryCreate(inventoryService, logg))
		r.Put("/{id}", controllers.InventoryUpdate(inventoryService, logg))
		r.Delete("/{id}", controllers.InventoryDelete(inventoryService, logg))
	})

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", controllers.ClientList(clientService, logg))
		r.Post("/", controllers.ClientCreate(clientService, logg))
		r.Put("/{id}", controllers.ClientUpdate(clientService, logg))
		r.Delete("/{id}", controllers.ClientDelete(clientService, logg))
		r.Get("/{id}/changes", controllers.ClientChanges(clientService, logg))
	})

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", controllers.EmployeeList(employeeService, logg))
		r.Post("/", controllers.EmployeeCreate(employeeService, logg))
		r.Put("/{id}", controllers.EmployeeUpdate(employeeService, logg))
		r.Delete("/{id}", controllers.EmployeeDelete(employeeService, logg))
	})
	r.Get("/responsibles", controllers.ResponsibleList(employeeService, logg))

	r.Get("/services", controllers.ServiceList(catalogService, logg))
	r.Get("/paymentmethods", controllers.PaymentMethodList(catalogService, logg))

	return r
}

// redisPinger hides the typed-nil pitfall: a nil *Client must become a nil
// interface so readiness skips the check.
func redisPinger(client *pkgredis.Client) db.Pinger {
	if client == nil {
		return nil
	}
	return client
}
