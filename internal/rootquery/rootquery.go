// Package rootquery assembles the Query type from the root fields and named
// types contributed through hooks.
package rootquery

import (
	"context"
	"fmt"
	"time"

	"github.com/hanpama/postgraph/internal/events"
	"github.com/hanpama/postgraph/internal/hooks"
	"github.com/hanpama/postgraph/internal/schema"
)

// TypeName is the name of the root query type.
const TypeName = "Query"

// RootField is one root-level entry point together with the named types its
// return type needs.
type RootField struct {
	Field *schema.Field
	Types []*schema.Type
}

// Build runs one schema construction pass. Every call starts from an empty
// field set; nothing is cached between passes. Named types from the types
// filter are added first. A root field whose types would replace a different
// type of the same name is dropped whole and reported in
// SchemaBuildFinish.Conflicts. Root fields of the same name replace earlier
// ones.
func Build(ctx context.Context, bus *hooks.Bus) (*schema.Schema, error) {
	start := time.Now()
	hooks.DoAction(ctx, bus, events.SchemaBuildStartHook, events.SchemaBuildStart{})

	s := schema.NewSchema("").SetQueryType(TypeName)
	for _, t := range hooks.ApplyFilters(ctx, bus, events.SchemaTypesHook, []*schema.Type{}) {
		s.AddType(t)
	}

	query := schema.NewType(TypeName, schema.TypeKindObject, "The root entry point into the graph")
	var conflicts []string
	roots := hooks.ApplyFilters(ctx, bus, events.RootQueriesHook, []*RootField{})
	for _, rf := range roots {
		if rf == nil || rf.Field == nil {
			continue
		}
		if clashes(s, rf) {
			conflicts = append(conflicts, rf.Field.Name)
			continue
		}
		for _, t := range rf.Types {
			s.AddType(t)
		}
		query.AddField(rf.Field)
	}
	if len(query.Fields) == 0 {
		return nil, fmt.Errorf("no root query fields registered")
	}
	s.AddType(query)

	hooks.DoAction(ctx, bus, events.SchemaBuildFinishHook, events.SchemaBuildFinish{
		RootFields: len(query.Fields),
		Types:      len(s.Types),
		Conflicts:  conflicts,
		Duration:   time.Since(start),
	})
	return s, nil
}

func clashes(s *schema.Schema, rf *RootField) bool {
	for _, t := range rf.Types {
		if t == nil {
			continue
		}
		if t.Name == TypeName {
			return true
		}
		if existing, ok := s.Types[t.Name]; ok && existing != t {
			return true
		}
	}
	return false
}
