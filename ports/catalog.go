package ports

import (
	"photoeccentric/domain/target"
)

// CatalogPort supplies per-target planet and stellar point values with
// asymmetric errors, keyed by target identifier. Records are validated
// once at load time.
type CatalogPort interface {
	Target(id target.ID) (*target.Record, error)
	Targets() ([]target.Record, error)
}
