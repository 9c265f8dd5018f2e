package storage

import "stampcard/internal/logger"

// Capability describes what the platform can offer the storage layer.
// It is built once at process start; backend selection happens exactly
// once, in Open.
type Capability struct {
	// DurableFS is true on platforms with file-system access suitable for
	// an embedded relational database.
	DurableFS bool
	// Path is the database or store file location.
	Path string
	// InMemory forces a volatile store that persists nothing.
	InMemory bool
}

// Open selects and initializes the backend for the given capability.
// If the chosen backend cannot initialize, Open falls back to degraded
// mode instead of failing: reads return empty collections and writes
// surface ErrStorageUnavailable.
func Open(cap Capability) Provider {
	var p Provider
	switch {
	case cap.InMemory:
		p = NewJSONStore("")
	case cap.DurableFS:
		p = NewSQLiteStore(cap.Path)
	default:
		p = NewJSONStore(cap.Path)
	}

	if err := p.Init(); err != nil {
		logger.Warn("storage backend failed to initialize, running degraded",
			"kind", p.Kind(), "path", cap.Path, "error", err)
		return NewNullStore()
	}

	logger.Debug("storage backend ready", "kind", p.Kind(), "path", cap.Path)
	return p
}
