// Package language wraps gqlparser for the few parsing jobs the schema
// layer needs: reading operations for telemetry and validating SDL.
package language

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindOperation picks the operation called name, or the only operation of
// an unnamed request. It returns nil when neither applies.
func FindOperation(doc *QueryDocument, name string) *OperationDefinition {
	if doc == nil {
		return nil
	}
	if op := doc.Operations.ForName(name); op != nil {
		return op
	}
	if name == "" && len(doc.Operations) == 1 {
		return doc.Operations[0]
	}
	return nil
}

// LoadSchema parses and validates SDL against the GraphQL prelude.
func LoadSchema(name, sdl string) (*Schema, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: sdl})
	if err != nil {
		return nil, err
	}
	return s, nil
}
