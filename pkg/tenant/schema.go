package tenant

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DefaultSchema is the shared schema used when no company tenant is
// active (public endpoints, background jobs).
const DefaultSchema = "public"

// SchemaPrefix marks company-scoped schemas. Company schemas get no
// fallback to the shared default namespace.
const SchemaPrefix = "company_"

// maxSchemaNameLength matches the PostgreSQL identifier limit.
const maxSchemaNameLength = 63

// schemaNamePattern is the allow-list for schema identifiers. Anything
// outside it must never be interpolated into executable statements.
var schemaNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// SchemaName derives the database schema name for a company:
// company_<uuid> with dashes replaced by underscores so the result is a
// valid PostgreSQL identifier.
func SchemaName(companyID uuid.UUID) string {
	return SchemaPrefix + strings.ReplaceAll(companyID.String(), "-", "_")
}

// ValidSchemaName reports whether the given name is safe to use as a
// schema identifier: non-empty, allow-listed characters only, and within
// the PostgreSQL length limit.
func ValidSchemaName(name string) bool {
	if name == "" || len(name) > maxSchemaNameLength {
		return false
	}
	// Single dashes are legal identifier characters, but the SQL comment
	// sequence is never a legitimate tenant name.
	if strings.Contains(name, "--") {
		return false
	}
	return schemaNamePattern.MatchString(name)
}

// IsCompanySchema reports whether the schema name belongs to a company
// tenant (strict isolation, no public fallback).
func IsCompanySchema(name string) bool {
	return strings.HasPrefix(name, SchemaPrefix)
}
