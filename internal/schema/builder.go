package schema

// NewSchema returns a schema holding only the builtin scalars.
func NewSchema(description string) *Schema {
	s := &Schema{Types: make(map[string]*Type), Description: description}
	for _, name := range BuiltinScalars {
		s.AddType(NewType(name, TypeKindScalar, ""))
	}
	return s
}

// SetQueryType sets the name of the root query type.
func (s *Schema) SetQueryType(name string) *Schema {
	s.QueryType = name
	return s
}

// AddType adds t, replacing any type with the same name.
func (s *Schema) AddType(t *Type) *Schema {
	if t == nil {
		return s
	}
	s.Types[t.Name] = t
	return s
}

// NewType creates an empty named type.
func NewType(name string, kind TypeKind, description string) *Type {
	return &Type{Name: name, Kind: kind, Description: description}
}

// AddField appends f. A field with the same name is replaced in place, so
// the last definition wins while the first position is kept.
func (t *Type) AddField(f *Field) *Type {
	if f == nil {
		return t
	}
	for i, existing := range t.Fields {
		if existing.Name == f.Name {
			t.Fields[i] = f
			return t
		}
	}
	t.Fields = append(t.Fields, f)
	return t
}

// GetField returns the field called name, or nil.
func (t *Type) GetField(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// GetOrderedFields returns the fields in definition order.
func (t *Type) GetOrderedFields() []*Field {
	return append([]*Field(nil), t.Fields...)
}

// FieldNames lists field names in definition order.
func (t *Type) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

func (t *Type) AddEnumValue(v *EnumValue) *Type {
	t.EnumValues = append(t.EnumValues, v)
	return t
}

// NewField creates a field without arguments or resolver.
func NewField(name, description string, typ *TypeRef) *Field {
	return &Field{Name: name, Description: description, Type: typ}
}

// SetResolver sets the resolver of f.
func (f *Field) SetResolver(fn ResolveFunc) *Field {
	f.Resolve = fn
	return f
}

func (f *Field) AddArgument(arg *InputValue) *Field {
	f.Arguments = append(f.Arguments, arg)
	return f
}

// Deprecate marks f deprecated. An empty reason renders as a bare
// @deprecated.
func (f *Field) Deprecate(reason string) *Field {
	f.IsDeprecated = true
	f.DeprecationReason = reason
	return f
}

func NewInputValue(name, description string, typ *TypeRef) *InputValue {
	return &InputValue{Name: name, Description: description, Type: typ}
}

func NewEnumValue(name, description string) *EnumValue {
	return &EnumValue{Name: name, Description: description}
}
