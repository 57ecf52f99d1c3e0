package controllers

import "github.com/skillhands/skillhands-backend/src/services"

var svc *services.Services

// Setup wires the domain services into the route handlers. Must be called
// once at startup before routes are registered.
func Setup(s *services.Services) {
	svc = s
}
