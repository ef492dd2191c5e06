// Package posttype is the host content registry: the set of record kinds
// ("post types") a site knows about, and the flags that decide which of
// them are exposed.
package posttype

import (
	"sync"

	"github.com/samber/lo"
)

// Flags understood by Registry.TypesWithFlag and Registry.SetFlag.
const (
	FlagShowInGraphQL = "show_in_graphql"
	FlagPublic        = "public"
	FlagHierarchical  = "hierarchical"
)

// Builtin post type keys.
const (
	Post       = "post"
	Page       = "page"
	Attachment = "attachment"
	Revision   = "revision"
	NavMenu    = "nav_menu_item"
)

// PostType describes one kind of record.
type PostType struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`

	Public        bool `yaml:"public"`
	Hierarchical  bool `yaml:"hierarchical"`
	ShowInGraphQL bool `yaml:"show_in_graphql"`

	// GraphQLQueryClass names a query-field builder to use instead of the
	// default one. Unknown names fall back to the default.
	GraphQLQueryClass string `yaml:"graphql_query_class"`
}

// HasFlag reports the value of a named flag. Unknown flags are false.
func (pt *PostType) HasFlag(flag string) bool {
	switch flag {
	case FlagShowInGraphQL:
		return pt.ShowInGraphQL
	case FlagPublic:
		return pt.Public
	case FlagHierarchical:
		return pt.Hierarchical
	}
	return false
}

func (pt *PostType) setFlag(flag string, v bool) bool {
	switch flag {
	case FlagShowInGraphQL:
		pt.ShowInGraphQL = v
	case FlagPublic:
		pt.Public = v
	case FlagHierarchical:
		pt.Hierarchical = v
	default:
		return false
	}
	return true
}

// Registry holds post types in registration order.
type Registry struct {
	mu    sync.RWMutex
	order []string
	types map[string]*PostType
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*PostType)}
}

// Register adds pt. Registering a known name replaces its descriptor and
// keeps its original position.
func (r *Registry) Register(pt PostType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[pt.Name]; !ok {
		r.order = append(r.order, pt.Name)
	}
	r.types[pt.Name] = &pt
}

// Unregister removes name. It reports whether name was registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[name]; !ok {
		return false
	}
	delete(r.types, name)
	r.order = lo.Without(r.order, name)
	return true
}

// Lookup returns a copy of the descriptor registered under name.
func (r *Registry) Lookup(name string) (*PostType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pt, ok := r.types[name]
	if !ok {
		return nil, false
	}
	cp := *pt
	return &cp, true
}

// SetFlag sets flag on name. It reports false for unknown names or flags.
func (r *Registry) SetFlag(name, flag string, v bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	pt, ok := r.types[name]
	if !ok {
		return false
	}
	return pt.setFlag(flag, v)
}

// TypesWithFlag lists, in registration order, the names whose flag is set.
func (r *Registry) TypesWithFlag(flag string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Filter(r.order, func(name string, _ int) bool {
		return r.types[name].HasFlag(flag)
	})
}

// Names lists every registered name in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Reset drops every registration.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.order = nil
	r.types = make(map[string]*PostType)
	r.mu.Unlock()
}

// RegisterBuiltins registers the post types every site starts with. None of
// them is exposed to GraphQL until enabled.
func (r *Registry) RegisterBuiltins() {
	r.Register(PostType{Name: Post, Label: "Posts", Public: true})
	r.Register(PostType{Name: Page, Label: "Pages", Public: true, Hierarchical: true})
	r.Register(PostType{Name: Attachment, Label: "Media", Public: true})
	r.Register(PostType{Name: Revision, Label: "Revisions"})
	r.Register(PostType{Name: NavMenu, Label: "Navigation Menu Items"})
}
