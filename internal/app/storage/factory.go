package storage

import (
	"fitqa/internal/app/errors"
	"fitqa/internal/app/storage/segment"
	"fitqa/internal/app/storage/segment/indexed"
	"fitqa/internal/app/storage/segment/pg"
	"fitqa/internal/app/storage/segment/sqlite"
)

// Backend names accepted in configuration.
const (
	BackendFlat     = "flat"
	BackendIndexed  = "indexed"
	BackendPostgres = "postgres"
)

// Initialize creates a fresh store of the requested backend. For flat and
// indexed backends path is a filesystem location; for postgres it is a DSN.
func Initialize(backend, path string, meta segment.Meta, reset bool) (segment.Store, error) {
	switch backend {
	case BackendFlat, "":
		return sqlite.Initialize(path, meta, reset)
	case BackendIndexed:
		return indexed.Initialize(path, meta, reset)
	case BackendPostgres:
		return pg.Initialize(path, meta, reset)
	default:
		return nil, errors.WrapSentinel(errors.ErrUnknownBackend, errors.Newf("backend %q", backend))
	}
}

// Open reopens an existing store. Metric, dimension, and provider come from
// the store's own persisted metadata.
func Open(backend, path string) (segment.Store, error) {
	switch backend {
	case BackendFlat, "":
		return sqlite.Open(path)
	case BackendIndexed:
		return indexed.Open(path)
	case BackendPostgres:
		return pg.Open(path)
	default:
		return nil, errors.WrapSentinel(errors.ErrUnknownBackend, errors.Newf("backend %q", backend))
	}
}
