// Package loader registers HTTP features on the server.
//
// Each feature implements the Feature interface and is loaded in registration order:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// Manager collects features via Register and mounts every enabled one via LoadAll,
// logging which features were loaded or skipped. The first failing feature aborts
// startup.
//
// Features that depend on optional backends (storage, database) are only registered
// when the backend is configured, so a server without them still serves sessions.
package loader
