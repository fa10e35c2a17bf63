// Package query builds parameterized PostgreSQL statements from a
// projection of logical field names onto table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps logical field names to alias-qualified columns of one
// table. Projection order is the SELECT column order.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	ordered []string
}

// NewProjectionMap creates a ProjectionMap for schema.table under alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps field to column. Fields are case sensitive.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	p.columns[field] = column
	p.ordered = append(p.ordered, column)
	return p
}

// From returns the FROM clause body.
func (p *ProjectionMap) From() string {
	return p.Table()
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns "schema.table alias".
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the qualified column for field, or field itself when it
// is not projected.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.columns[field]; ok {
		return p.qualify(col)
	}
	return field
}

// Columns returns the qualified SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ColumnList(), ", ")
}

// ColumnList returns the qualified columns in projection order.
func (p *ProjectionMap) ColumnList() []string {
	out := make([]string, len(p.ordered))
	for i, col := range p.ordered {
		out[i] = p.qualify(col)
	}
	return out
}

// Returning returns the unqualified column list for INSERT and UPDATE
// RETURNING clauses, which cannot reference the alias.
func (p *ProjectionMap) Returning() string {
	return strings.Join(p.ordered, ", ")
}

func (p *ProjectionMap) qualify(col string) string {
	return p.alias + "." + col
}
