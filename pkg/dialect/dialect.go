// Package dialect provides the SQL dialect details the query builders need:
// parameter placeholders, identifier quoting, and calendar date handling.
//
// Concrete dialects are registered from pkg/adapters/*/ packages.
package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/refdash/pkg/core"
)

// IdentifierConfig describes how identifiers are quoted.
type IdentifierConfig struct {
	Quote    string // Opening quote character
	QuoteEnd string // Closing quote character
	Escape   string // Replacement for QuoteEnd inside a name
}

// Dialect is an immutable SQL dialect definition.
type Dialect struct {
	Name          string
	DefaultSchema string                // Default schema name ("main" for DuckDB, "public" for Postgres)
	Placeholder   core.PlaceholderStyle // How to format query parameters
	Identifiers   IdentifierConfig

	dateCast    string // fmt pattern applied to a date-typed parameter
	currentDate string // expression for the server-side current date
}

// Config returns the static configuration exposed through core.Adapter.
func (d *Dialect) Config() *core.DialectConfig {
	return &core.DialectConfig{
		Name:          d.Name,
		DefaultSchema: d.DefaultSchema,
		Placeholder:   d.Placeholder,
	}
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// QuoteIdentifier quotes a single identifier.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ` -> \`)
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteTable quotes a possibly dotted table reference part by part.
// BigQuery quotes the whole path in a single pair of backticks.
func (d *Dialect) QuoteTable(ref string) string {
	if d.Identifiers.Quote == "`" {
		return d.QuoteIdentifier(ref)
	}
	parts := strings.Split(ref, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// CastDate wraps a parameter expression so the database compares it as a DATE.
func (d *Dialect) CastDate(expr string) string {
	if d.dateCast == "" {
		return expr
	}
	return fmt.Sprintf(d.dateCast, expr)
}

// CurrentDate returns the expression for the database's current date.
func (d *Dialect) CurrentDate() string {
	if d.currentDate == "" {
		return "CURRENT_DATE"
	}
	return d.currentDate
}

// Builder constructs a Dialect.
type Builder struct {
	dialect *Dialect
}

// NewDialect starts a builder with ANSI defaults.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name:          name,
			DefaultSchema: "main",
			Placeholder:   core.PlaceholderQuestion,
			Identifiers:   IdentifierConfig{Quote: `"`, QuoteEnd: `"`, Escape: `""`},
			dateCast:      "CAST(%s AS DATE)",
		},
	}
}

// Identifiers configures identifier quoting.
func (b *Builder) Identifiers(quote, quoteEnd, escape string) *Builder {
	b.dialect.Identifiers = IdentifierConfig{Quote: quote, QuoteEnd: quoteEnd, Escape: escape}
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets how query parameters are formatted.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// DateCast sets the fmt pattern used by CastDate; it must contain one %s.
func (b *Builder) DateCast(pattern string) *Builder {
	b.dialect.dateCast = pattern
	return b
}

// CurrentDate overrides the current date expression.
func (b *Builder) CurrentDate(expr string) *Builder {
	b.dialect.currentDate = expr
	return b
}

// Build returns the finished dialect.
func (b *Builder) Build() *Dialect {
	d := *b.dialect
	return &d
}
