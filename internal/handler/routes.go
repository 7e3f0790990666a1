package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"ireporter/internal/middleware"
	"ireporter/internal/models"
	"ireporter/internal/service"
)

// NewRouter wires every route. Record, resolution and upload routes need a
// valid token; resolution writes additionally need the admin role.
func NewRouter(h *Handlers, observer middleware.RequestObserver) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "resource not found", http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	authenticate := middleware.Authenticate(h.AuthService)
	authed := func(fn http.HandlerFunc) http.Handler {
		return authenticate(fn)
	}
	adminOnly := func(fn http.HandlerFunc) http.Handler {
		return middleware.Chain(fn, authenticate, middleware.RequireRole(models.RoleAdmin))
	}

	// ops
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	if h.Metrics != nil {
		router.Handle("/metrics", h.Metrics).Methods(http.MethodGet)
	}

	// identity
	router.HandleFunc("/user/register", h.RegisterUser).Methods(http.MethodPost)
	router.HandleFunc("/admin/register", h.RegisterAdmin).Methods(http.MethodPost)
	router.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/forgot_password", h.ForgotPassword).Methods(http.MethodPost)
	router.HandleFunc("/reset_password", h.ResetPassword).Methods(http.MethodPost)
	router.Handle("/logout", authed(h.Logout)).Methods(http.MethodPost)
	router.Handle("/me", authed(h.Me)).Methods(http.MethodGet)

	recordRoutes := func(path string, svc service.RecordService) {
		router.Handle(path, authed(h.ListRecords(svc))).Methods(http.MethodGet)
		router.Handle(path, authed(h.CreateRecord(svc))).Methods(http.MethodPost)
		router.Handle(path+"/{id:[0-9]+}", authed(h.GetRecord(svc))).Methods(http.MethodGet)
		router.Handle(path+"/{id:[0-9]+}", authed(h.UpdateRecord(svc))).Methods(http.MethodPatch)
		router.Handle(path+"/{id:[0-9]+}", authed(h.DeleteRecord(svc))).Methods(http.MethodDelete)
	}
	recordRoutes("/corruption_reports", h.Reports)
	recordRoutes("/public_petitions", h.Petitions)

	resolutionRoutes := func(path string, svc service.ResolutionService) {
		router.Handle(path, authed(h.ListResolutions(svc))).Methods(http.MethodGet)
		router.Handle(path, adminOnly(h.CreateResolution(svc))).Methods(http.MethodPost)
		router.Handle(path+"/{id:[0-9]+}", authed(h.GetResolution(svc))).Methods(http.MethodGet)
		router.Handle(path+"/{id:[0-9]+}", adminOnly(h.UpdateResolution(svc))).Methods(http.MethodPatch)
		router.Handle(path+"/{id:[0-9]+}", adminOnly(h.DeleteResolution(svc))).Methods(http.MethodDelete)
	}
	resolutionRoutes("/corruption_resolutions", h.ReportResolutions)
	resolutionRoutes("/petition_resolutions", h.PetitionResolutions)

	// media
	router.Handle("/upload_report", authed(h.Upload(models.CorruptionReport))).Methods(http.MethodPost)
	router.Handle("/upload_petition", authed(h.Upload(models.PublicPetition))).Methods(http.MethodPost)

	return middleware.Chain(router,
		middleware.RecoverMiddleware(h.Log),
		middleware.LoggingMiddleware(h.Log),
		middleware.MetricsMiddleware(observer, router),
		middleware.CORSMiddleware,
	)
}
