package tenant

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// PublicSchema is the shared schema holding the company catalogue,
	// partner-scoped rows and super-admin users.
	PublicSchema = "public"

	// SchemaPrefix prefixes every dedicated tenant schema name.
	SchemaPrefix = "ca_"

	// TemplateSchema is cloned to create each new tenant schema.
	TemplateSchema = "template"
)

// subdomain slugs: URL-safe, lowercase, no leading/trailing hyphen
var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// schema names: public, or the slug charset behind the ca_ prefix
var schemaPattern = regexp.MustCompile(`^[a-z0-9_-]{1,63}$`)

// ValidSlug reports whether s is acceptable as a company subdomain.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ValidSchemaName reports whether name is safe to embed as a SQL schema
// identifier: either public or a prefixed tenant schema in the slug charset.
// Schema names must additionally come from the registry, never from request
// input; this check is the last line of defense, not the authorization.
func ValidSchemaName(name string) bool {
	if name == PublicSchema {
		return true
	}
	if !strings.HasPrefix(name, SchemaPrefix) {
		return false
	}
	return schemaPattern.MatchString(name)
}

// SchemaNameFor derives the dedicated schema name for a subdomain.
func SchemaNameFor(subdomain string) string {
	return SchemaPrefix + subdomain
}

// Qualify builds a schema-qualified table reference. It rejects schema names
// outside the registry charset so a crafted value can never reach query text.
func Qualify(schema, table string) (string, error) {
	if !ValidSchemaName(schema) {
		return "", fmt.Errorf("invalid schema name %q", schema)
	}
	return fmt.Sprintf("%q.%q", schema, table), nil
}

// MustQualify is Qualify for schema names already validated by the caller
// (registry listings, claims verified against the registry).
func MustQualify(schema, table string) string {
	q, err := Qualify(schema, table)
	if err != nil {
		panic(err)
	}
	return q
}

// Slugify lowers s into the subdomain charset: non-alphanumerics collapse
// into single hyphens, leading/trailing hyphens are trimmed.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
