// Package postentity exposes post types as root query fields.
//
// Entities decides which post types are eligible, picks a query-field
// builder for each of them and wires the result into the root query through
// the hook bus. It also carries the attachment-specific policy: the default
// status filter and the extra media fields.
package postentity

import (
	"context"
	"sync"

	"github.com/go-logr/logr"
	"github.com/hanpama/postgraph/internal/content"
	"github.com/hanpama/postgraph/internal/events"
	"github.com/hanpama/postgraph/internal/hooks"
	"github.com/hanpama/postgraph/internal/postobject"
	"github.com/hanpama/postgraph/internal/posttype"
	"github.com/hanpama/postgraph/internal/rootquery"
	"github.com/hanpama/postgraph/internal/schema"
)

// DefaultTypes are enabled on every BuildRootFields pass.
var DefaultTypes = []string{posttype.Attachment, posttype.Page, posttype.Post}

// Registry is the host content registry.
type Registry interface {
	TypesWithFlag(flag string) []string
	Lookup(name string) (*posttype.PostType, bool)
	SetFlag(name, flag string, v bool) bool
}

// QueryFieldBuilder produces the root field of one post type.
type QueryFieldBuilder interface {
	BuildQueryField(ctx context.Context, pt *posttype.PostType) (*rootquery.RootField, error)
}

// Option configures Entities.
type Option func(*Entities)

// WithLogger sets the logger. Skipped types are logged at V(1).
func WithLogger(l logr.Logger) Option {
	return func(e *Entities) { e.log = l }
}

// WithDefaultBuilder replaces the builder used when a post type names no
// registered query class.
func WithDefaultBuilder(b QueryFieldBuilder) Option {
	return func(e *Entities) { e.fallback = b }
}

// Entities is the type registry and field resolver of post types.
type Entities struct {
	registry Registry
	store    content.Store
	bus      *hooks.Bus
	log      logr.Logger
	fallback QueryFieldBuilder

	mu      sync.RWMutex
	classes map[string]QueryFieldBuilder
	unsubs  []func()
}

// New creates Entities over a registry, a record store and a hook bus.
func New(registry Registry, store content.Store, bus *hooks.Bus, opts ...Option) *Entities {
	e := &Entities{
		registry: registry,
		store:    store,
		bus:      bus,
		log:      logr.Discard(),
		classes:  make(map[string]QueryFieldBuilder),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fallback == nil {
		e.fallback = postobject.New(store, bus)
	}
	return e
}

// Init subscribes e to the hook bus. Calling it again has no effect until
// Close.
func (e *Entities) Init() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.unsubs) > 0 {
		return
	}
	e.unsubs = append(e.unsubs,
		hooks.AddFilter(e.bus, events.RootQueriesHook, func(ctx context.Context, fields []*rootquery.RootField) []*rootquery.RootField {
			return append(fields, e.BuildRootFields(ctx)...)
		}),
		hooks.AddFilter(e.bus, events.SchemaTypesHook, func(_ context.Context, types []*schema.Type) []*schema.Type {
			types = append(types, postobject.ArgTypes()...)
			return append(types, MediaTypes(e.store)...)
		}),
		hooks.AddFilter(e.bus, events.QueryArgDefaultsHook(posttype.Attachment), AttachmentDefaultArgs),
		hooks.AddFilter(e.bus, events.TypeFieldsHook(posttype.Attachment), AttachmentFields(e.store)),
	)
}

// Close removes the subscriptions made by Init.
func (e *Entities) Close() {
	e.mu.Lock()
	unsubs := e.unsubs
	e.unsubs = nil
	e.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
}

// RegisterQueryClass makes b available to post types whose
// GraphQLQueryClass is name. A nil builder removes the registration.
func (e *Entities) RegisterQueryClass(name string, b QueryFieldBuilder) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b == nil {
		delete(e.classes, name)
		return
	}
	e.classes[name] = b
}

// EnableEntityType marks key as exposed. Unknown keys are ignored.
func (e *Entities) EnableEntityType(key string) {
	if !e.registry.SetFlag(key, posttype.FlagShowInGraphQL, true) {
		e.log.V(2).Info("enable skipped, post type not registered", "postType", key)
	}
}

// EnableDefaults enables DefaultTypes.
func (e *Entities) EnableDefaults() {
	for _, key := range DefaultTypes {
		e.EnableEntityType(key)
	}
}

// AllowedTypes returns the post types eligible in this pass after the
// allowed_entity_types filter.
func (e *Entities) AllowedTypes(ctx context.Context) []string {
	e.EnableDefaults()
	eligible := e.registry.TypesWithFlag(posttype.FlagShowInGraphQL)
	return hooks.ApplyFilters(ctx, e.bus, events.AllowedEntityTypesHook, eligible)
}

// BuildRootFields builds one root field per allowed post type, in the order
// of AllowedTypes. Types that cannot be resolved or built are skipped.
func (e *Entities) BuildRootFields(ctx context.Context) []*rootquery.RootField {
	allowed := e.AllowedTypes(ctx)
	fields := make([]*rootquery.RootField, 0, len(allowed))
	for _, key := range allowed {
		pt, ok := e.registry.Lookup(key)
		if !ok {
			e.skip(ctx, key, "post type not registered")
			continue
		}
		rf, err := e.builderFor(pt).BuildQueryField(ctx, pt)
		if err != nil {
			e.skip(ctx, key, err.Error())
			continue
		}
		if rf == nil || rf.Field == nil {
			e.skip(ctx, key, "builder produced no field")
			continue
		}
		fields = append(fields, rf)
		hooks.DoAction(ctx, e.bus, events.AfterSetupTypeQueryHook(key), events.TypeQuerySetup{
			PostType: key,
			Allowed:  allowed,
		})
	}
	return fields
}

func (e *Entities) builderFor(pt *posttype.PostType) QueryFieldBuilder {
	if pt.GraphQLQueryClass == "" {
		return e.fallback
	}
	e.mu.RLock()
	b, ok := e.classes[pt.GraphQLQueryClass]
	e.mu.RUnlock()
	if !ok {
		e.log.V(1).Info("query class not registered, using default", "postType", pt.Name, "class", pt.GraphQLQueryClass)
		return e.fallback
	}
	return b
}

func (e *Entities) skip(ctx context.Context, key, reason string) {
	e.log.V(1).Info("post type skipped", "postType", key, "reason", reason)
	hooks.DoAction(ctx, e.bus, events.TypeSkippedHook, events.TypeSkipped{PostType: key, Reason: reason})
}

// ApplyDefaultArgs applies the query argument defaults registered for key.
func (e *Entities) ApplyDefaultArgs(ctx context.Context, key string, args map[string]any) map[string]any {
	return postobject.ApplyDefaultArgs(ctx, e.bus, key, args)
}

// ExtendFields applies the field extenders registered for key.
func (e *Entities) ExtendFields(ctx context.Context, key string, base []*schema.Field) []*schema.Field {
	return postobject.ExtendFields(ctx, e.bus, key, base)
}
