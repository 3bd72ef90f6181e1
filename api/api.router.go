package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/breev/aqhub/api/middleware"
	"github.com/breev/aqhub/api/resources"
	"github.com/breev/aqhub/internal/hubservice"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.SharedSecretMiddleware
	resources *resources.Resources
}

func NewRouter(svc *hubservice.HubService, authConfig middleware.AuthConfig) *Router {
	auth := middleware.NewSharedSecretMiddleware(authConfig)
	r := &Router{
		router:    mux.NewRouter(),
		auth:      auth,
		resources: resources.NewResources(svc, auth),
	}

	r.setupRoutes()
	return r
}

// Resources exposes the handler set for health-check wiring.
func (r *Router) Resources() *resources.Resources {
	return r.resources
}

func (r *Router) setupRoutes() {
	// Public routes
	r.router.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if r.resources.HealthCheck != nil {
			r.resources.HealthCheck(w, req)
		}
	}).Methods(http.MethodGet)

	r.router.HandleFunc("/auth/login", r.resources.Auth.Login).Methods(http.MethodPost)

	r.router.HandleFunc("/devices", r.resources.Devices.ListDevices).Methods(http.MethodGet)
	r.router.HandleFunc("/sensors/{id}", r.resources.Sensors.GetSensor).Methods(http.MethodGet)
	r.router.HandleFunc("/predictions/{id}", r.resources.Predictions.GetPrediction).Methods(http.MethodGet)
	r.router.HandleFunc("/analytics", r.resources.Analytics.GetAnalytics).Methods(http.MethodGet)
	r.router.HandleFunc("/settings", r.resources.Settings.GetSettings).Methods(http.MethodGet)

	// Admin writes gated behind the shared-secret token
	protected := r.router.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	protected.HandleFunc("/devices", r.resources.Devices.CreateDevice).Methods(http.MethodPost)
	protected.HandleFunc("/devices", r.resources.Devices.UpdateDevice).Methods(http.MethodPut)
	protected.HandleFunc("/devices", r.resources.Devices.DeleteDevice).Methods(http.MethodDelete)
	protected.HandleFunc("/predictions/{id}", r.resources.Predictions.RegeneratePrediction).Methods(http.MethodPost)
	protected.HandleFunc("/settings", r.resources.Settings.SaveSettings).Methods(http.MethodPost)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
