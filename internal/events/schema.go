package events

import "time"

// Hook names. Parameterized hooks take the post type key as a suffix.
const (
	// RootQueriesHook filters the root field set of the Query type.
	RootQueriesHook = "root_queries_build"
	// SchemaTypesHook filters the named types added next to the root fields.
	SchemaTypesHook = "schema_types_build"
	// AllowedEntityTypesHook filters the post type keys exposed as root fields.
	AllowedEntityTypesHook = "allowed_entity_types"

	SchemaBuildStartHook  = "schema_build_start"
	SchemaBuildFinishHook = "schema_build_finish"
	TypeSkippedHook       = "type_skipped"
)

// QueryArgDefaultsHook names the filter applied to the query arguments of postType.
func QueryArgDefaultsHook(postType string) string {
	return "query_arg_defaults_for_type_" + postType
}

// TypeFieldsHook names the filter applied to the object fields of postType.
func TypeFieldsHook(postType string) string {
	return "type_fields_for_type_" + postType
}

// AfterSetupTypeQueryHook names the action fired once postType is wired into the root query.
func AfterSetupTypeQueryHook(postType string) string {
	return "after_setup_type_query_" + postType
}

// SchemaBuildStart is the payload of SchemaBuildStartHook.
type SchemaBuildStart struct{}

// SchemaBuildFinish is the payload of SchemaBuildFinishHook.
type SchemaBuildFinish struct {
	RootFields int
	Types      int
	// Conflicts names the root fields dropped because a type they carry
	// clashed with one already in the schema.
	Conflicts []string
	Duration  time.Duration
}

// TypeQuerySetup is the payload of AfterSetupTypeQueryHook.
type TypeQuerySetup struct {
	PostType string
	// Allowed is the full list of post types being wired in this pass.
	Allowed []string
}

// TypeSkipped is the payload of TypeSkippedHook.
type TypeSkipped struct {
	PostType string
	Reason   string
}
