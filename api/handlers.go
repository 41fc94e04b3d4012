package api

import (
	"github.com/devcol-labs/devcol-backend/directory"
)

type routeHandlers struct {
	userHandler    userHandler
	projectHandler projectHandler
	requestHandler requestHandler
	accountHandler accountHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(dir *directory.Directory) *routeHandlers {
	return &routeHandlers{
		userHandler:    newUserHandler(dir),
		projectHandler: newProjectHandler(dir),
		requestHandler: newRequestHandler(dir),
		accountHandler: newAccountHandler(dir),
	}
}
