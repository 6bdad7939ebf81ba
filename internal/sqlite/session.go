package sqlite

import (
	"github.com/mesh-intelligence/thingstore/internal/query"
	"github.com/mesh-intelligence/thingstore/pkg/types"
)

// Session scopes operations to one namespace and database.
type Session struct {
	Namespace string
	Database  string
}

// NewSession returns the session named by cfg, with defaults applied.
func NewSession(cfg types.Config) Session {
	cfg = cfg.WithDefaults()
	return Session{Namespace: cfg.Namespace, Database: cfg.Database}
}

// From returns the query target for table within the session.
func (s Session) From(table string) query.From {
	return query.From{Namespace: s.Namespace, Database: s.Database, Table: table}
}
