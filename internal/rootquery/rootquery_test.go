package rootquery

import (
	"context"
	"testing"

	"github.com/hanpama/postgraph/internal/events"
	"github.com/hanpama/postgraph/internal/hooks"
	"github.com/hanpama/postgraph/internal/schema"
	"github.com/stretchr/testify/require"
)

func rootField(name, typeName string) *RootField {
	typ := schema.NewType(typeName, schema.TypeKindObject, "").
		AddField(schema.NewField("id", "", schema.IntRef()))
	return &RootField{
		Field: schema.NewField(name, "", schema.ListType(schema.NamedType(typeName))),
		Types: []*schema.Type{typ},
	}
}

func TestBuildCollectsContributions(t *testing.T) {
	bus := hooks.New()
	hooks.AddFilter(bus, events.RootQueriesHook, func(_ context.Context, fields []*RootField) []*RootField {
		return append(fields, rootField("post", "Post"), nil)
	})
	hooks.AddFilter(bus, events.RootQueriesHook, func(_ context.Context, fields []*RootField) []*RootField {
		return append(fields, rootField("page", "Page"))
	})
	hooks.AddFilter(bus, events.SchemaTypesHook, func(_ context.Context, types []*schema.Type) []*schema.Type {
		return append(types, schema.NewType("Extra", schema.TypeKindObject, "").
			AddField(schema.NewField("x", "", schema.StringRef())))
	})
	var finished events.SchemaBuildFinish
	hooks.AddAction(bus, events.SchemaBuildFinishHook, func(_ context.Context, e events.SchemaBuildFinish) {
		finished = e
	})

	s, err := Build(context.Background(), bus)
	require.NoError(t, err)

	require.Equal(t, []string{"post", "page"}, s.GetQueryType().FieldNames())
	require.Contains(t, s.Types, "Post")
	require.Contains(t, s.Types, "Page")
	require.Contains(t, s.Types, "Extra")
	require.Equal(t, 2, finished.RootFields)
	require.NoError(t, schema.Validate(s))
}

func TestBuildIsFreshEachPass(t *testing.T) {
	bus := hooks.New()
	hooks.AddFilter(bus, events.RootQueriesHook, func(_ context.Context, fields []*RootField) []*RootField {
		return append(fields, rootField("post", "Post"))
	})

	first, err := Build(context.Background(), bus)
	require.NoError(t, err)
	second, err := Build(context.Background(), bus)
	require.NoError(t, err)

	require.Equal(t, []string{"post"}, second.GetQueryType().FieldNames())
	require.NotSame(t, first.GetQueryType(), second.GetQueryType())
}

func TestBuildWithoutRootFields(t *testing.T) {
	_, err := Build(context.Background(), hooks.New())
	require.Error(t, err)
}

func TestBuildDropsClashingRootFields(t *testing.T) {
	bus := hooks.New()
	details := schema.NewType("MediaDetails", schema.TypeKindObject, "").
		AddField(schema.NewField("width", "", schema.IntRef()))
	hooks.AddFilter(bus, events.SchemaTypesHook, func(_ context.Context, types []*schema.Type) []*schema.Type {
		return append(types, details)
	})
	shared := rootField("post", "Post")
	hooks.AddFilter(bus, events.RootQueriesHook, func(_ context.Context, fields []*RootField) []*RootField {
		return append(fields,
			shared,
			rootField("mediaDetails", "MediaDetails"),
			rootField("string", "String"),
			rootField("query", "Query"),
			&RootField{Field: schema.NewField("latestPost", "", schema.NamedType("Post")), Types: shared.Types},
		)
	})
	var finished events.SchemaBuildFinish
	hooks.AddAction(bus, events.SchemaBuildFinishHook, func(_ context.Context, e events.SchemaBuildFinish) {
		finished = e
	})

	s, err := Build(context.Background(), bus)
	require.NoError(t, err)

	require.Equal(t, []string{"post", "latestPost"}, s.GetQueryType().FieldNames())
	require.Same(t, details, s.Types["MediaDetails"])
	require.Equal(t, schema.TypeKindScalar, s.Types["String"].Kind)
	require.Equal(t, []string{"mediaDetails", "string", "query"}, finished.Conflicts)
	require.NoError(t, schema.Validate(s))
}
