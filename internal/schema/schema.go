// Package schema models the GraphQL schema assembled from hook
// contributions and renders it as SDL.
package schema

import "context"

// Schema is a set of named types with one root query type.
type Schema struct {
	QueryType   string
	Types       map[string]*Type
	Description string
}

// GetQueryType returns the root query type, or nil.
func (s *Schema) GetQueryType() *Type { return s.Types[s.QueryType] }

// ResolveFunc computes the value of a field for one source value.
//
// Resolvers must not fail on well-formed input: missing data resolves to nil
// or the zero value instead of an error. A returned error is reported by the
// execution engine as a located GraphQL error.
type ResolveFunc func(ctx context.Context, source any, args map[string]any) (any, error)

// Type is a named object, enum or scalar type.
type Type struct {
	Name        string
	Kind        TypeKind
	Description string
	Fields      []*Field
	EnumValues  []*EnumValue
}

type Field struct {
	Name              string
	Description       string
	Type              *TypeRef
	Arguments         []*InputValue
	Resolve           ResolveFunc `json:"-"`
	IsDeprecated      bool
	DeprecationReason string
}

type TypeKind string

const (
	TypeKindScalar TypeKind = "SCALAR"
	TypeKindObject TypeKind = "OBJECT"
	TypeKindEnum   TypeKind = "ENUM"
)

// TypeRef points at a named type, possibly wrapped in list and non-null
// modifiers.
type TypeRef struct {
	Kind   TypeRefKind
	OfType *TypeRef
	Named  string
}

type TypeRefKind string

const (
	TypeRefKindNamed   TypeRefKind = "NAMED"
	TypeRefKindList    TypeRefKind = "LIST"
	TypeRefKindNonNull TypeRefKind = "NON_NULL"
)

// String renders t in SDL notation, e.g. "[Post!]!".
func (t *TypeRef) String() string { return renderTypeRef(t) }

// NamedTypeName unwraps t down to the name of the type it points at.
func (t *TypeRef) NamedTypeName() string {
	for cur := t; cur != nil; cur = cur.OfType {
		if cur.Named != "" {
			return cur.Named
		}
	}
	return ""
}

type EnumValue struct {
	Name        string
	Description string
}

// InputValue is a field argument.
type InputValue struct {
	Name        string
	Description string
	Type        *TypeRef
}

func NonNullType(t *TypeRef) *TypeRef { return &TypeRef{Kind: TypeRefKindNonNull, OfType: t} }
func ListType(t *TypeRef) *TypeRef    { return &TypeRef{Kind: TypeRefKindList, OfType: t} }
func NamedType(name string) *TypeRef  { return &TypeRef{Kind: TypeRefKindNamed, Named: name} }

func StringRef() *TypeRef { return NamedType("String") }
func IntRef() *TypeRef    { return NamedType("Int") }
