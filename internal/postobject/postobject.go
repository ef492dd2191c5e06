// Package postobject builds the default root query field for a post type:
// an object type with the fields every post shares, and a list field that
// queries the record store.
package postobject

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hanpama/postgraph/internal/content"
	"github.com/hanpama/postgraph/internal/events"
	"github.com/hanpama/postgraph/internal/hooks"
	"github.com/hanpama/postgraph/internal/posttype"
	"github.com/hanpama/postgraph/internal/rootquery"
	"github.com/hanpama/postgraph/internal/schema"
	"github.com/iancoleman/strcase"
)

// Query argument keys understood by the record store.
const (
	ArgPostType = "post_type"
	ArgStatus   = "post_status"
	ArgID       = "p"
	ArgParent   = "post_parent"
	ArgSearch   = "s"
	ArgPerPage  = "posts_per_page"
	ArgPage     = "paged"
	ArgOrderBy  = "orderby"
	ArgOrder    = "order"
)

const defaultPerPage = 10

// Enum types of the ordering arguments.
const (
	OrderEnum   = "OrderEnum"
	OrderbyEnum = "PostObjectsOrderbyEnum"
)

// fieldArgs maps GraphQL argument names of the root field to query argument keys.
var fieldArgs = []struct {
	name, key, description string
	typ                    func() *schema.TypeRef
}{
	{"id", ArgID, "Select a single object by its database ID", schema.IntRef},
	{"status", ArgStatus, "Only return objects with this status", schema.StringRef},
	{"parent", ArgParent, "Only return children of this object ID", schema.IntRef},
	{"search", ArgSearch, "Only return objects matching this search term", schema.StringRef},
	{"per_page", ArgPerPage, "Number of objects per page; -1 returns all", schema.IntRef},
	{"page", ArgPage, "Page number, starting at 1", schema.IntRef},
	{"orderby", ArgOrderBy, "Sort key, publication date by default", enumRef(OrderbyEnum)},
	{"order", ArgOrder, "Sort direction, descending by default", enumRef(OrderEnum)},
}

func enumRef(name string) func() *schema.TypeRef {
	return func() *schema.TypeRef { return schema.NamedType(name) }
}

// ArgTypes returns the enum types referenced by the root field arguments.
// They must be contributed to every schema holding a field built here.
func ArgTypes() []*schema.Type {
	orderby := schema.NewType(OrderbyEnum, schema.TypeKindEnum, "Sort keys of post object queries")
	for _, v := range []struct{ name, desc string }{
		{"DATE", "Publication date"},
		{"MODIFIED", "Last modification date"},
		{"ID", "Database ID"},
		{"TITLE", "Title"},
		{"MENU_ORDER", "Menu order"},
	} {
		orderby.AddEnumValue(schema.NewEnumValue(v.name, v.desc))
	}
	order := schema.NewType(OrderEnum, schema.TypeKindEnum, "Sort direction").
		AddEnumValue(schema.NewEnumValue("ASC", "Ascending")).
		AddEnumValue(schema.NewEnumValue("DESC", "Descending"))
	return []*schema.Type{orderby, order}
}

// TypeName returns the GraphQL object type name for a post type key.
func TypeName(postType string) string { return strcase.ToCamel(postType) }

// FieldName returns the root query field name for a post type key.
func FieldName(postType string) string { return strcase.ToLowerCamel(postType) }

// ApplyDefaultArgs passes args through the query-argument filter of postType.
// Without subscribers args is returned unchanged.
func ApplyDefaultArgs(ctx context.Context, bus *hooks.Bus, postType string, args map[string]any) map[string]any {
	return hooks.ApplyFilters(ctx, bus, events.QueryArgDefaultsHook(postType), args)
}

// ExtendFields passes fields through the type-field filter of postType.
func ExtendFields(ctx context.Context, bus *hooks.Bus, postType string, fields []*schema.Field) []*schema.Field {
	return hooks.ApplyFilters(ctx, bus, events.TypeFieldsHook(postType), fields)
}

// Query is the default query-field builder.
type Query struct {
	store content.Store
	bus   *hooks.Bus
}

// New creates a builder reading records from store and dispatching the
// per-type hooks on bus.
func New(store content.Store, bus *hooks.Bus) *Query {
	return &Query{store: store, bus: bus}
}

// BuildQueryField builds the root field and object type of pt.
func (q *Query) BuildQueryField(ctx context.Context, pt *posttype.PostType) (*rootquery.RootField, error) {
	if pt == nil || pt.Name == "" {
		return nil, fmt.Errorf("post type without a name")
	}
	typeName, fieldName := TypeName(pt.Name), FieldName(pt.Name)
	for _, name := range []string{typeName, fieldName} {
		if err := schema.CheckName(name); err != nil {
			return nil, fmt.Errorf("post type %q: %w", pt.Name, err)
		}
	}
	switch typeName {
	case rootquery.TypeName, OrderEnum, OrderbyEnum:
		return nil, fmt.Errorf("post type %q: type name %q is reserved", pt.Name, typeName)
	}

	desc := pt.Description
	if desc == "" {
		label := pt.Label
		if label == "" {
			label = pt.Name
		}
		desc = fmt.Sprintf("The %s object type", label)
	}
	obj := schema.NewType(typeName, schema.TypeKindObject, desc)
	for _, f := range ExtendFields(ctx, q.bus, pt.Name, BaseFields()) {
		obj.AddField(f)
	}

	field := schema.NewField(fieldName, fmt.Sprintf("Query %s objects", pt.Name),
		schema.ListType(schema.NamedType(typeName))).
		SetResolver(q.resolveRoot(pt.Name))
	for _, a := range fieldArgs {
		field.AddArgument(schema.NewInputValue(a.name, a.description, a.typ()))
	}
	return &rootquery.RootField{Field: field, Types: []*schema.Type{obj}}, nil
}

func (q *Query) resolveRoot(postType string) schema.ResolveFunc {
	return func(ctx context.Context, _ any, args map[string]any) (any, error) {
		qa := map[string]any{
			ArgPostType: postType,
			ArgStatus:   "publish",
			ArgPerPage:  defaultPerPage,
		}
		for _, a := range fieldArgs {
			if v, ok := args[a.name]; ok && v != nil {
				qa[a.key] = v
			}
		}
		qa = ApplyDefaultArgs(ctx, q.bus, postType, qa)

		records, err := q.store.Query(ctx, ContentQuery(qa))
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", postType, err)
		}
		return records, nil
	}
}

// ContentQuery converts query arguments into a store query. Values of the
// wrong type are ignored. Sort keys are matched case-insensitively.
func ContentQuery(args map[string]any) content.Query {
	var q content.Query
	q.PostType, _ = args[ArgPostType].(string)
	q.Status, _ = args[ArgStatus].(string)
	q.Search, _ = args[ArgSearch].(string)
	if v, ok := args[ArgOrderBy].(string); ok {
		q.OrderBy = strings.ToLower(v)
	}
	q.Order, _ = args[ArgOrder].(string)
	if v, ok := toInt64(args[ArgID]); ok {
		q.ID = v
	}
	if v, ok := toInt64(args[ArgParent]); ok {
		q.ParentID = &v
	}
	if v, ok := toInt64(args[ArgPerPage]); ok {
		q.PerPage = int(v)
	}
	if v, ok := toInt64(args[ArgPage]); ok {
		q.Page = int(v)
	}
	return q
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// RecordResolver adapts a getter on *content.Record into a resolver. Any
// other source resolves to nil.
func RecordResolver(get func(ctx context.Context, r *content.Record) any) schema.ResolveFunc {
	return func(ctx context.Context, source any, _ map[string]any) (any, error) {
		r, ok := source.(*content.Record)
		if !ok || r == nil {
			return nil, nil
		}
		return get(ctx, r), nil
	}
}

func formatDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func optionalID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// BaseFields returns the fields shared by every post type, in order.
func BaseFields() []*schema.Field {
	field := func(name, desc string, typ *schema.TypeRef, get func(r *content.Record) any) *schema.Field {
		return schema.NewField(name, desc, typ).SetResolver(RecordResolver(func(_ context.Context, r *content.Record) any {
			return get(r)
		}))
	}
	return []*schema.Field{
		field("id", "The database ID of the object", schema.NonNullType(schema.IntRef()),
			func(r *content.Record) any { return r.ID }),
		field("post_type", "The post type key of the object", schema.StringRef(),
			func(r *content.Record) any { return r.PostType }),
		field("slug", "The URL-friendly name of the object", schema.StringRef(),
			func(r *content.Record) any { return r.Slug }),
		field("title", "The title of the object", schema.StringRef(),
			func(r *content.Record) any { return r.Title }),
		field("content", "The content of the object", schema.StringRef(),
			func(r *content.Record) any { return r.Content }),
		field("excerpt", "The excerpt of the object", schema.StringRef(),
			func(r *content.Record) any { return r.Excerpt }),
		field("status", "The status of the object", schema.StringRef(),
			func(r *content.Record) any { return r.Status }),
		field("date", "Publication date in RFC 3339 format", schema.StringRef(),
			func(r *content.Record) any { return formatDate(r.Date) }),
		field("modified", "Last modification date in RFC 3339 format", schema.StringRef(),
			func(r *content.Record) any { return formatDate(r.Modified) }),
		field("parent_id", "The database ID of the parent object", schema.IntRef(),
			func(r *content.Record) any { return optionalID(r.ParentID) }),
		field("author_id", "The database ID of the author", schema.IntRef(),
			func(r *content.Record) any { return optionalID(r.AuthorID) }),
		field("menu_order", "Sort position among siblings", schema.IntRef(),
			func(r *content.Record) any { return r.MenuOrder }),
		field("guid", "The globally unique identifier of the object", schema.StringRef(),
			func(r *content.Record) any { return r.GUID }),
	}
}
