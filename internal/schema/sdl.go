package schema

import (
	"fmt"

	"github.com/hanpama/postgraph/internal/language"
)

// Validate renders s and loads the result through the SDL validator, so a
// schema assembled from hook contributions is checked the same way a
// hand-written one would be.
func Validate(s *Schema) error {
	if s == nil || s.GetQueryType() == nil {
		return fmt.Errorf("schema has no query type")
	}
	if _, err := language.LoadSchema("schema.graphql", Render(s)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	return nil
}
