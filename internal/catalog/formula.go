package catalog

import (
	"fmt"
	"strings"
)

// Filter-formula builders for the store's query language. Only the small
// subset the ingestion core needs is covered: field equality, blank
// checks, and AND/OR composition.

// Eq matches records whose field equals the given value.
func Eq(field, value string) string {
	return fmt.Sprintf("{%s}='%s'", field, escapeValue(value))
}

// Blank matches records whose field is empty.
func Blank(field string) string {
	return fmt.Sprintf("{%s}=BLANK()", field)
}

// And combines clauses conjunctively.
func And(clauses ...string) string {
	return fmt.Sprintf("AND(%s)", strings.Join(clauses, ","))
}

// Or combines clauses disjunctively.
func Or(clauses ...string) string {
	return fmt.Sprintf("OR(%s)", strings.Join(clauses, ","))
}

func escapeValue(v string) string {
	return strings.ReplaceAll(v, "'", "\\'")
}
