package engine

import (
	"fmt"
	"sort"

	"github.com/graphql-go/graphql"
	gqlast "github.com/graphql-go/graphql/language/ast"
	"github.com/hanpama/postgraph/internal/schema"
)

var builtinScalars = map[string]*graphql.Scalar{
	"String":  graphql.String,
	"Int":     graphql.Int,
	"Float":   graphql.Float,
	"Boolean": graphql.Boolean,
	"ID":      graphql.ID,
}

// Convert builds an executable graphql-go schema from s. Every type
// referenced by a field or argument must be defined in s or be a builtin
// scalar.
func Convert(s *schema.Schema) (graphql.Schema, error) {
	if s == nil || s.GetQueryType() == nil {
		return graphql.Schema{}, fmt.Errorf("schema has no query type")
	}
	c := &converter{src: s, types: make(map[string]graphql.Type)}
	if err := c.check(); err != nil {
		return graphql.Schema{}, err
	}

	query, ok := c.named(s.QueryType).(*graphql.Object)
	if !ok {
		return graphql.Schema{}, fmt.Errorf("query type %s is not an object", s.QueryType)
	}

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		if name != s.QueryType && !schema.IsBuiltin(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	extra := make([]graphql.Type, 0, len(names))
	for _, name := range names {
		extra = append(extra, c.named(name))
	}

	out, err := graphql.NewSchema(graphql.SchemaConfig{Query: query, Types: extra})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("build executable schema: %w", err)
	}
	return out, nil
}

type converter struct {
	src   *schema.Schema
	types map[string]graphql.Type
}

// check verifies every type reference up front so the field thunks cannot
// fail later.
func (c *converter) check() error {
	known := func(ref *schema.TypeRef) bool {
		name := ref.NamedTypeName()
		if _, ok := builtinScalars[name]; ok {
			return true
		}
		_, ok := c.src.Types[name]
		return ok
	}
	for name, t := range c.src.Types {
		if schema.IsBuiltin(name) && t.Kind != schema.TypeKindScalar {
			return fmt.Errorf("type %s shadows a builtin scalar", name)
		}
		for _, f := range t.Fields {
			if !known(f.Type) {
				return fmt.Errorf("%s.%s: unknown type %q", name, f.Name, f.Type.NamedTypeName())
			}
			for _, a := range f.Arguments {
				if !known(a.Type) {
					return fmt.Errorf("%s.%s(%s): unknown type %q", name, f.Name, a.Name, a.Type.NamedTypeName())
				}
			}
		}
	}
	return nil
}

func (c *converter) named(name string) graphql.Type {
	if t, ok := builtinScalars[name]; ok {
		return t
	}
	if t, ok := c.types[name]; ok {
		return t
	}
	def := c.src.Types[name]
	var t graphql.Type
	switch def.Kind {
	case schema.TypeKindObject:
		t = graphql.NewObject(graphql.ObjectConfig{
			Name:        def.Name,
			Description: def.Description,
			Fields:      graphql.FieldsThunk(func() graphql.Fields { return c.fields(def) }),
		})
	case schema.TypeKindEnum:
		values := graphql.EnumValueConfigMap{}
		for _, v := range def.EnumValues {
			values[v.Name] = &graphql.EnumValueConfig{
				Value:       v.Name,
				Description: v.Description,
			}
		}
		t = graphql.NewEnum(graphql.EnumConfig{Name: def.Name, Description: def.Description, Values: values})
	default:
		t = graphql.NewScalar(graphql.ScalarConfig{
			Name:         def.Name,
			Description:  def.Description,
			Serialize:    func(v any) any { return v },
			ParseValue:   func(v any) any { return v },
			ParseLiteral: func(v gqlast.Value) any { return v.GetValue() },
		})
	}
	c.types[name] = t
	return t
}

func (c *converter) ref(r *schema.TypeRef) graphql.Type {
	switch r.Kind {
	case schema.TypeRefKindList:
		return graphql.NewList(c.ref(r.OfType))
	case schema.TypeRefKindNonNull:
		return graphql.NewNonNull(c.ref(r.OfType))
	}
	return c.named(r.Named)
}

func (c *converter) fields(def *schema.Type) graphql.Fields {
	out := graphql.Fields{}
	for _, f := range def.GetOrderedFields() {
		field := &graphql.Field{
			Name:        f.Name,
			Type:        c.ref(f.Type),
			Description: f.Description,
			Resolve:     adaptResolver(f.Resolve),
		}
		if f.IsDeprecated {
			field.DeprecationReason = f.DeprecationReason
			if field.DeprecationReason == "" {
				field.DeprecationReason = "No longer supported"
			}
		}
		if len(f.Arguments) > 0 {
			field.Args = graphql.FieldConfigArgument{}
			for _, a := range f.Arguments {
				field.Args[a.Name] = &graphql.ArgumentConfig{
					Type:        c.ref(a.Type),
					Description: a.Description,
				}
			}
		}
		out[f.Name] = field
	}
	return out
}

func adaptResolver(fn schema.ResolveFunc) graphql.FieldResolveFn {
	if fn == nil {
		return nil
	}
	return func(p graphql.ResolveParams) (any, error) {
		return fn(p.Context, p.Source, p.Args)
	}
}
