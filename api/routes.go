package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes sets up all routes with authentication
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		// User profile endpoints
		r.Post("/users", handlers.userHandler.createUser())
		r.Get("/users/{identity}", handlers.userHandler.getUser())
		r.Put("/users/me", handlers.userHandler.updateUser())
		r.Delete("/users/me", handlers.userHandler.deleteUser())
		r.Post("/users/me/migrate", handlers.userHandler.migrateUser())
		r.Post("/users/{identity}/verified", handlers.userHandler.setVerified())

		// Project endpoints
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Get("/projects/{creator}/{name}", handlers.projectHandler.getProject())
		r.Put("/projects/{name}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{name}", handlers.projectHandler.deleteProject())
		r.Post("/projects/{name}/close", handlers.projectHandler.closeProject())
		r.Post("/projects/{name}/reopen", handlers.projectHandler.reopenProject())
		r.Put("/projects/{name}/roles", handlers.projectHandler.updateRoles())

		// Collaboration request endpoints
		r.Post("/collab-requests", handlers.requestHandler.sendRequest())
		r.Get("/collab-requests/{address}", handlers.requestHandler.getRequest())
		r.Put("/collab-requests/{address}", handlers.requestHandler.updateRequest())
		r.Delete("/collab-requests/{address}", handlers.requestHandler.deleteRequest())
		r.Post("/collab-requests/{address}/review", handlers.requestHandler.markUnderReview())
		r.Post("/collab-requests/{address}/accept", handlers.requestHandler.acceptRequest())
		r.Post("/collab-requests/{address}/reject", handlers.requestHandler.rejectRequest())
		r.Post("/collab-requests/{address}/withdraw", handlers.requestHandler.withdrawRequest())
		r.Delete("/collab-requests/{address}/rejected", handlers.requestHandler.deleteRejected())

		// Account endpoints
		r.Post("/account/topup", handlers.accountHandler.topUp())
		r.Get("/account/balance", handlers.accountHandler.balance())
	})
}
