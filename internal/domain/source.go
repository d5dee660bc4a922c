package domain

import "context"

// Credentials is a login pair for one source. Presence in the orchestrator's
// credential map is what decides whether Authenticate is invoked.
type Credentials struct {
	Username string
	Password string
}

// Source is the capability contract a retrieval collaborator must satisfy.
//
// Search must return an empty slice (not an error) when nothing matched;
// errors are reserved for genuine operational failure. Release is called
// exactly once per source per comparison, regardless of outcome, and a
// source must be usable again after Release.
type Source interface {
	ID() string
	Authenticate(ctx context.Context, creds Credentials) (bool, error)
	Search(ctx context.Context, product RequestedProduct) ([]ObservedRecord, error)
	Release()
}
