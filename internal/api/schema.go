// Package api exposes the navigator services as a GraphQL endpoint.
package api

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/leapstack-labs/leapnav/internal/datatransfer"
)

// NewSchema builds the query schema. Service packages add their fields to
// the query type through their RegisterFields functions.
func NewSchema(resolver *datatransfer.Resolver, version string) (graphql.Schema, error) {
	fields := graphql.Fields{
		"serverVersion": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(graphql.ResolveParams) (interface{}, error) {
				return version, nil
			},
		},
	}
	datatransfer.RegisterFields(fields, resolver, ObjectScalar)

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: fields,
		}),
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to build schema: %w", err)
	}
	return schema, nil
}
