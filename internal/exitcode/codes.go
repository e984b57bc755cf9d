package exitcode

// Exit codes for the demo and scaffold services.
// The orchestrator only distinguishes zero from non-zero, the rest helps when reading pod events.
const (
	// Success - server drained and closed cleanly
	Success = 0

	// ShutdownTimeout - in-flight requests did not finish within the grace window
	ShutdownTimeout = 1

	// ConfigError - missing or invalid configuration
	// Don't restart blindly: fix the config first
	ConfigError = 2

	// ServerError - the listener could not be bound or the server stopped unexpectedly
	ServerError = 3
)
