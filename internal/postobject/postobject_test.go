package postobject

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/postgraph/internal/content"
	"github.com/hanpama/postgraph/internal/events"
	"github.com/hanpama/postgraph/internal/hooks"
	"github.com/hanpama/postgraph/internal/posttype"
	"github.com/hanpama/postgraph/internal/schema"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	tests := []struct{ key, typeName, fieldName string }{
		{"post", "Post", "post"},
		{"attachment", "Attachment", "attachment"},
		{"nav_menu_item", "NavMenuItem", "navMenuItem"},
		{"book-review", "BookReview", "bookReview"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.typeName, TypeName(tt.key), tt.key)
		require.Equal(t, tt.fieldName, FieldName(tt.key), tt.key)
	}
}

func TestBuildQueryField(t *testing.T) {
	bus := hooks.New()
	hooks.AddFilter(bus, events.TypeFieldsHook("book"), func(_ context.Context, fields []*schema.Field) []*schema.Field {
		return append(fields, schema.NewField("isbn", "", schema.StringRef()))
	})
	q := New(content.NewMemStore(""), bus)

	rf, err := q.BuildQueryField(context.Background(), &posttype.PostType{Name: "book", Label: "Books"})
	require.NoError(t, err)
	require.Equal(t, "book", rf.Field.Name)
	require.Equal(t, "[Book]", rf.Field.Type.String())
	require.Len(t, rf.Types, 1)

	obj := rf.Types[0]
	require.Equal(t, "Book", obj.Name)
	require.Equal(t, "The Books object type", obj.Description)
	names := obj.FieldNames()
	require.Equal(t, "id", names[0])
	require.Equal(t, "isbn", names[len(names)-1])

	var args []string
	for _, a := range rf.Field.Arguments {
		args = append(args, a.Name)
	}
	require.Equal(t, []string{"id", "status", "parent", "search", "per_page", "page", "orderby", "order"}, args)
}

func TestBuildQueryFieldRejectsUnusableNames(t *testing.T) {
	q := New(content.NewMemStore(""), hooks.New())
	for _, key := range []string{"", "query", "2024_event", "string", "int", "order_enum", "café"} {
		_, err := q.BuildQueryField(context.Background(), &posttype.PostType{Name: key})
		require.Error(t, err, key)
	}
	_, err := q.BuildQueryField(context.Background(), nil)
	require.Error(t, err)

	rf, err := q.BuildQueryField(context.Background(), &posttype.PostType{Name: "event_2024"})
	require.NoError(t, err)
	require.Equal(t, "Event2024", rf.Types[0].Name)
}

func TestArgTypes(t *testing.T) {
	types := ArgTypes()
	require.Len(t, types, 2)
	require.Equal(t, OrderbyEnum, types[0].Name)
	require.Equal(t, schema.TypeKindEnum, types[0].Kind)
	require.Equal(t, OrderEnum, types[1].Name)

	rf, err := New(content.NewMemStore(""), hooks.New()).BuildQueryField(context.Background(), &posttype.PostType{Name: "book"})
	require.NoError(t, err)
	var refs []string
	for _, a := range rf.Field.Arguments {
		refs = append(refs, a.Type.String())
	}
	require.Equal(t, []string{"Int", "String", "Int", "String", "Int", "Int", OrderbyEnum, OrderEnum}, refs)
}

func TestRootResolver(t *testing.T) {
	store := content.NewMemStore("")
	store.Put(&content.Record{ID: 1, PostType: "book", Title: "A", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	store.Put(&content.Record{ID: 2, PostType: "book", Title: "B", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	store.Put(&content.Record{ID: 3, PostType: "book", Title: "C", Status: "draft"})
	store.Put(&content.Record{ID: 4, PostType: "post", Title: "D"})

	bus := hooks.New()
	var seen map[string]any
	hooks.AddFilter(bus, events.QueryArgDefaultsHook("book"), func(_ context.Context, args map[string]any) map[string]any {
		seen = args
		return args
	})
	rf, err := New(store, bus).BuildQueryField(context.Background(), &posttype.PostType{Name: "book"})
	require.NoError(t, err)

	tests := []struct {
		name string
		args map[string]any
		want []int64
	}{
		{"defaults", map[string]any{}, []int64{2, 1}},
		{"ascending", map[string]any{"order": "ASC"}, []int64{1, 2}},
		{"by title", map[string]any{"orderby": "TITLE", "order": "DESC"}, []int64{2, 1}},
		{"draft", map[string]any{"status": "draft"}, []int64{3}},
		{"single", map[string]any{"id": 1}, []int64{1}},
		{"page size", map[string]any{"per_page": 1, "page": 2}, []int64{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := rf.Field.Resolve(context.Background(), nil, tt.args)
			require.NoError(t, err)
			var got []int64
			for _, r := range v.([]*content.Record) {
				got = append(got, r.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err = rf.Field.Resolve(context.Background(), nil, map[string]any{})
	require.NoError(t, err)
	require.Equal(t, "book", seen[ArgPostType])
	require.Equal(t, "publish", seen[ArgStatus])
	require.Equal(t, 10, seen[ArgPerPage])

	_, err = rf.Field.Resolve(context.Background(), nil, map[string]any{"orderby": "rand"})
	require.Error(t, err)
}

func TestDefaultArgsAppliedAfterCallerArgs(t *testing.T) {
	bus := hooks.New()
	hooks.AddFilter(bus, events.QueryArgDefaultsHook("book"), func(_ context.Context, args map[string]any) map[string]any {
		args[ArgStatus] = "private"
		return args
	})
	store := content.NewMemStore("")
	store.Put(&content.Record{ID: 1, PostType: "book", Status: "private"})
	store.Put(&content.Record{ID: 2, PostType: "book"})
	rf, err := New(store, bus).BuildQueryField(context.Background(), &posttype.PostType{Name: "book"})
	require.NoError(t, err)

	v, err := rf.Field.Resolve(context.Background(), nil, map[string]any{"status": "publish"})
	require.NoError(t, err)
	require.Len(t, v.([]*content.Record), 1)
	require.Equal(t, int64(1), v.([]*content.Record)[0].ID)
}

func TestDispatchersPassThrough(t *testing.T) {
	args := map[string]any{ArgStatus: "publish"}
	require.Equal(t, args, ApplyDefaultArgs(context.Background(), hooks.New(), "page", args))
	require.Equal(t, args, ApplyDefaultArgs(context.Background(), nil, "page", args))

	base := BaseFields()
	out := ExtendFields(context.Background(), hooks.New(), "page", base)
	require.Len(t, out, len(base))
	require.Same(t, base[0], out[0])
}

func TestBaseFieldResolvers(t *testing.T) {
	rec := &content.Record{
		ID: 7, PostType: "post", Title: "Hello", ParentID: 0, AuthorID: 3,
		Date: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	fields := map[string]*schema.Field{}
	for _, f := range BaseFields() {
		fields[f.Name] = f
	}
	resolve := func(name string, source any) any {
		v, err := fields[name].Resolve(context.Background(), source, nil)
		require.NoError(t, err)
		return v
	}

	require.Equal(t, int64(7), resolve("id", rec))
	require.Equal(t, "Hello", resolve("title", rec))
	require.Equal(t, "2024-05-01T12:00:00Z", resolve("date", rec))
	require.Nil(t, resolve("modified", rec))
	require.Nil(t, resolve("parent_id", rec))
	require.Equal(t, int64(3), resolve("author_id", rec))
	require.Nil(t, resolve("title", "not a record"))
}

func TestContentQuery(t *testing.T) {
	got := ContentQuery(map[string]any{
		ArgPostType: "page",
		ArgStatus:   "any",
		ArgParent:   "5",
		ArgPerPage:  int64(-1),
		ArgPage:     2.0,
		ArgSearch:   42,
		ArgOrderBy:  "MENU_ORDER",
		ArgOrder:    "ASC",
	})
	parent := int64(5)
	want := content.Query{PostType: "page", Status: "any", ParentID: &parent, PerPage: -1, Page: 2, OrderBy: "menu_order", Order: "ASC"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
}
