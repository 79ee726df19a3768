// Package classname derives emitted class/schema names from the IR the
// same way for every emitter (language classes, OpenAPI schemas) so the
// consistency validator can match fieldPaths and type names across
// artifacts without a second, possibly-diverging naming rule.
package classname

import "strings"

// Object derives an object container's class/schema name:
// the IR-provided className verbatim when present, else
// capitalize(camelCaseName).
func Object(camelCaseName string, irClassName *string) string {
	if irClassName != nil && *irClassName != "" {
		return *irClassName
	}
	return Capitalize(camelCaseName)
}

// ArrayElement derives an array container's element class/schema name:
// the IR-provided className verbatim when present (always true for a
// container parsed from a "fieldName:ClassName" row), else
// strip a trailing Arr/Array/List suffix, capitalize, and append "Array".
func ArrayElement(camelCaseName string, irClassName *string) string {
	if irClassName != nil && *irClassName != "" {
		return *irClassName
	}
	name := camelCaseName
	lower := strings.ToLower(name)
	for _, suffix := range []string{"array", "arr", "list"} {
		if strings.HasSuffix(lower, suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}
	return Capitalize(name) + "Array"
}

// Enum derives an enumeration's class/schema name: capitalize(camelCaseName).
// Any Type/Status/Flag/Code suffix already present in camelCaseName is
// preserved because Capitalize only touches the first letter.
func Enum(camelCaseName string) string { return Capitalize(camelCaseName) }

// Request derives the Request message class/schema name.
func Request(operationID string) string { return operationID + "Request" }

// Response derives the Response message class/schema name.
func Response(operationID string) string { return operationID + "Response" }

// Capitalize upper-cases the first rune.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
