package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestSchema() *Schema {
	post := NewType("Post", TypeKindObject, "A post object").
		AddField(NewField("id", "", NonNullType(IntRef()))).
		AddField(NewField("title", "The title", StringRef())).
		AddField(NewField("old_title", "", StringRef()).Deprecate("Use title"))
	order := NewType("OrderEnum", TypeKindEnum, "").
		AddEnumValue(NewEnumValue("ASC", "")).
		AddEnumValue(NewEnumValue("DESC", "Newest first"))
	query := NewType("Query", TypeKindObject, "").
		AddField(NewField("post", "", ListType(NamedType("Post"))).
			AddArgument(NewInputValue("per_page", "", IntRef())).
			AddArgument(NewInputValue("order", "", NamedType("OrderEnum"))))
	return NewSchema("").SetQueryType("Query").AddType(query).AddType(post).AddType(order)
}

func TestAddFieldLastDefinitionWins(t *testing.T) {
	typ := NewType("Attachment", TypeKindObject, "").
		AddField(NewField("id", "", IntRef())).
		AddField(NewField("caption", "first", StringRef())).
		AddField(NewField("alt_text", "", StringRef())).
		AddField(NewField("caption", "second", StringRef()))

	require.Equal(t, []string{"id", "caption", "alt_text"}, typ.FieldNames())
	require.Equal(t, "second", typ.GetField("caption").Description)
	require.Nil(t, typ.GetField("missing"))
}

func TestRender(t *testing.T) {
	want := `type Query {
  post(per_page: Int, order: OrderEnum): [Post]
}

enum OrderEnum {
  ASC
  """
  Newest first
  """
  DESC
}

"""
A post object
"""
type Post {
  id: Int!
  """
  The title
  """
  title: String
  old_title: String @deprecated(reason: "Use title")
}
`
	if diff := cmp.Diff(want, Render(newTestSchema())); diff != "" {
		t.Fatalf("rendered SDL mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCustomQueryTypeName(t *testing.T) {
	root := NewType("RootQuery", TypeKindObject, "").AddField(NewField("hello", "", StringRef()))
	s := NewSchema("").SetQueryType("RootQuery").AddType(root)

	require.Equal(t, "schema {\n  query: RootQuery\n}\n\ntype RootQuery {\n  hello: String\n}\n", Render(s))
	require.NoError(t, Validate(s))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(newTestSchema()))

	broken := newTestSchema()
	broken.GetQueryType().AddField(NewField("missing", "", NamedType("Nope")))
	require.Error(t, Validate(broken))

	require.Error(t, Validate(NewSchema("")))
}

func TestNewSchemaHoldsBuiltins(t *testing.T) {
	s := NewSchema("")
	for _, name := range BuiltinScalars {
		require.Contains(t, s.Types, name)
		require.Equal(t, TypeKindScalar, s.Types[name].Kind)
	}
	require.Equal(t, "\n", Render(NewSchema("")))
}

func TestCheckName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"Post", true},
		{"_private", true},
		{"NavMenuItem2", true},
		{"2024Event", false},
		{"Book-Review", false},
		{"", false},
		{"Café", false},
		{"__Schema", false},
		{"String", false},
		{"ID", false},
	}
	for _, tt := range tests {
		err := CheckName(tt.name)
		if tt.ok {
			require.NoError(t, err, tt.name)
		} else {
			require.Error(t, err, tt.name)
		}
	}
}

func TestTypeRefHelpers(t *testing.T) {
	ref := NonNullType(ListType(NonNullType(NamedType("Post"))))
	require.Equal(t, "Post", ref.NamedTypeName())
	require.Equal(t, "[Post!]!", ref.String())
	require.Equal(t, "", (*TypeRef)(nil).NamedTypeName())
}
