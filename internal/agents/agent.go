package agents

import "github.com/gofiber/fiber/v2"

// Agent is the interface every conversational agent implements. Agents are
// constructed with their dependencies and mount their own routes, mirroring
// how the HTTP surface groups per-agent endpoints.
type Agent interface {
	// ID returns the unique agent identifier used as its route prefix.
	ID() string

	// Models returns the GORM model pointers the agent needs migrated.
	Models() []interface{}

	// RegisterRoutes mounts the agent's routes on the given group. The
	// group is already prefixed with /api.
	RegisterRoutes(router fiber.Router)
}
