package routes

import (
	"nexboard/internal/handlers"
	"nexboard/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	pages *handlers.PageHandler,
	api *handlers.APIHandler,
	session middleware.Session,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	// --- Публичные маршруты ---
	router.HandleFunc("/login", pages.LoginPage).Methods("GET")
	router.HandleFunc("/login", pages.LoginSubmit).Methods("POST")

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/session", api.GetSession).Methods("GET")
	apiRouter.HandleFunc("/session", api.CreateSession).Methods("POST")
	apiRouter.HandleFunc("/session", api.DeleteSession).Methods("DELETE")

	// --- Защищённые страницы ---
	protected := router.PathPrefix("").Subrouter()
	protected.Use(middleware.SessionGate(session))

	protected.HandleFunc("/", pages.Dashboard).Methods("GET")
	protected.HandleFunc("/logout", pages.Logout).Methods("POST")

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.OnlyRole("admin"))
	admin.HandleFunc("/users", pages.UsersPage).Methods("GET")
	admin.HandleFunc("/users/{id}/role", pages.ChangeRole).Methods("POST")
	admin.HandleFunc("/users/{id}/deactivate", pages.DeactivatePage).Methods("GET")
	admin.HandleFunc("/users/{id}/deactivate", pages.DeactivateSubmit).Methods("POST")
	admin.HandleFunc("/organizations", pages.OrganizationsPage).Methods("GET")
	admin.HandleFunc("/system", pages.SystemPage).Methods("GET")
	admin.HandleFunc("/system/maintenance", pages.MaintenanceSubmit).Methods("POST")
	admin.HandleFunc("/audit", pages.AuditPage).Methods("GET")

	// --- Защищённый JSON API ---
	apiProtected := apiRouter.PathPrefix("").Subrouter()
	apiProtected.Use(middleware.SessionGateAPI(session))

	apiProtected.HandleFunc("/dashboard/stats", api.GetStats).Methods("GET")
	apiProtected.HandleFunc("/dashboard/campaigns", api.GetCampaigns).Methods("GET")

	apiAdmin := apiProtected.PathPrefix("/admin").Subrouter()
	apiAdmin.Use(middleware.OnlyRole("admin"))
	apiAdmin.HandleFunc("/users", api.GetUsers).Methods("GET")
	apiAdmin.HandleFunc("/users/{id}", api.ChangeUserRole).Methods("PATCH")
	apiAdmin.HandleFunc("/users/{id}", api.DeactivateUser).Methods("DELETE")
	apiAdmin.HandleFunc("/organizations", api.GetOrganizations).Methods("GET")
	apiAdmin.HandleFunc("/system/health", api.GetSystemHealth).Methods("GET")
	apiAdmin.HandleFunc("/system/maintenance", api.RunMaintenance).Methods("POST")
	apiAdmin.HandleFunc("/audit", api.GetAudit).Methods("GET")
}
