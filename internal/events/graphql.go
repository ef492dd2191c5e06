package events

import "time"

const (
	// GraphQLStartHook fires before the engine executes an operation.
	GraphQLStartHook = "graphql_start"
	// GraphQLFinishHook fires after the engine executed an operation.
	GraphQLFinishHook = "graphql_finish"
)

// GraphQLStart is the payload of GraphQLStartHook.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is the payload of GraphQLFinishHook.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}
