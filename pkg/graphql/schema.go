// Package graphql wraps schema construction for the admin data API.
package graphql

import (
	"github.com/graphql-go/graphql"
)

// NewSchema builds a schema from root query and mutation objects.
// mutation may be nil for read-only schemas.
func NewSchema(query, mutation *graphql.Object) (graphql.Schema, error) {
	cfg := graphql.SchemaConfig{Query: query}
	if mutation != nil {
		cfg.Mutation = mutation
	}
	return graphql.NewSchema(cfg)
}
