package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// BuiltinScalars are predefined by every GraphQL schema.
var BuiltinScalars = []string{"String", "Int", "Float", "Boolean", "ID"}

// IsBuiltin reports whether name is a builtin scalar.
func IsBuiltin(name string) bool {
	for _, s := range BuiltinScalars {
		if s == name {
			return true
		}
	}
	return false
}

var nameRE = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// CheckName reports why name cannot be used for a user-defined type or
// field. Names reserved for introspection and builtin scalar names are
// rejected.
func CheckName(name string) error {
	switch {
	case !nameRE.MatchString(name):
		return fmt.Errorf("%q is not a valid GraphQL name", name)
	case strings.HasPrefix(name, "__"):
		return fmt.Errorf("%q is reserved for introspection", name)
	case IsBuiltin(name):
		return fmt.Errorf("%q is a builtin scalar", name)
	}
	return nil
}
