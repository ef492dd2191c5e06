// Package engine executes GraphQL requests against an assembled schema using
// graphql-go, publishing lifecycle actions around every operation.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"github.com/graphql-go/graphql"
	"github.com/hanpama/postgraph/internal/events"
	"github.com/hanpama/postgraph/internal/hooks"
	"github.com/hanpama/postgraph/internal/language"
	"github.com/hanpama/postgraph/internal/reqid"
	"github.com/hanpama/postgraph/internal/schema"
)

// Request is one GraphQL operation request.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Engine runs requests against one executable schema.
type Engine struct {
	schema graphql.Schema
	bus    *hooks.Bus
	log    logr.Logger
}

type Option func(*Engine)

// WithLogger sets the logger. Finished operations are logged at V(1).
func WithLogger(l logr.Logger) Option { return func(e *Engine) { e.log = l } }

// New converts s and returns an Engine publishing on bus.
func New(s *schema.Schema, bus *hooks.Bus, opts ...Option) (*Engine, error) {
	gs, err := Convert(s)
	if err != nil {
		return nil, err
	}
	e := &Engine{schema: gs, bus: bus, log: logr.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Do executes req. Errors are reported in the result, never returned.
func (e *Engine) Do(ctx context.Context, req Request) *graphql.Result {
	ctx, rid := reqid.Ensure(ctx)

	opType := ""
	if doc, err := language.ParseQuery(req.Query); err == nil {
		if op := language.FindOperation(doc, req.OperationName); op != nil {
			opType = string(op.Operation)
		}
	}

	start := time.Now()
	hooks.DoAction(ctx, e.bus, events.GraphQLStartHook, events.GraphQLStart{
		Query:         req.Query,
		OperationName: req.OperationName,
		OperationType: opType,
	})
	result := graphql.Do(graphql.Params{
		Schema:         e.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	errs := make([]error, len(result.Errors))
	for i := range result.Errors {
		errs[i] = errors.New(result.Errors[i].Message)
	}
	elapsed := time.Since(start)
	hooks.DoAction(ctx, e.bus, events.GraphQLFinishHook, events.GraphQLFinish{
		Query:         req.Query,
		OperationName: req.OperationName,
		OperationType: opType,
		Errors:        errs,
		Duration:      elapsed,
	})
	e.log.V(1).Info("graphql operation finished",
		"requestID", rid,
		"operation", req.OperationName,
		"type", opType,
		"errors", len(errs),
		"duration", elapsed)
	return result
}
