package query

import (
	"fmt"
	"reflect"
	"strings"
)

// placeholder marks an argument position in a condition clause. Positions
// are numbered when the WHERE clause is assembled.
const placeholder = "$?"

type condition struct {
	clause string
	args   []any
}

// SortField orders by one logical field.
type SortField struct {
	Field      string
	Descending bool
}

// Builder accumulates AND-ed conditions and ordering against a projection.
// Nil or empty filter values add no condition.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	orderBy     []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder that orders by defaultSort unless
// OrderByFields overrides it.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses "filename,-uploaded_at". A leading "-" sorts
// descending. Empty input returns nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Build returns the SELECT statement.
func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.projection.Columns(),
		b.projection.From(),
		where,
		b.order(),
	), args
}

// BuildCount returns a COUNT(*) over the same conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.From(), where), args
}

// BuildPage returns the SELECT statement limited to one 1-indexed page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	q, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", q, pageSize, (page-1)*pageSize), args
}

// BuildSingle selects the row whose idField equals id. Accumulated
// conditions are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.From(),
		b.projection.Column(idField),
	), []any{id}
}

// OrderByFields replaces the default sort. An empty slice keeps it.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.orderBy = fields
	return b
}

// WhereEquals adds field = value.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.add(b.projection.Column(field)+" = "+placeholder, value)
}

// WhereContains adds a case-insensitive substring match.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.add(b.projection.Column(field)+" ILIKE "+placeholder, "%"+*value+"%")
}

// WhereAtLeast adds field >= value.
func (b *Builder) WhereAtLeast(field string, value *float64) *Builder {
	if value == nil {
		return b
	}
	return b.add(b.projection.Column(field)+" >= "+placeholder, *value)
}

// WhereNullable adds field = value, or field IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.projection.Column(field)
	if isNil(value) {
		return b.add(col + " IS NULL")
	}
	return b.add(col+" = "+placeholder, value)
}

// WhereNotNull adds field IS NOT NULL.
func (b *Builder) WhereNotNull(field string) *Builder {
	return b.add(b.projection.Column(field) + " IS NOT NULL")
}

// WhereSearch matches search as a substring of any of fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		clauses[i] = b.projection.Column(field) + " ILIKE " + placeholder
		args[i] = pattern
	}
	return b.add("("+strings.Join(clauses, " OR ")+")", args...)
}

func (b *Builder) add(clause string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

func (b *Builder) order() string {
	fields := b.orderBy
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = b.projection.Column(f.Field) + " " + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	clauses := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		clause := c.clause
		for _, arg := range c.args {
			args = append(args, arg)
			clause = strings.Replace(clause, placeholder, fmt.Sprintf("$%d", len(args)), 1)
		}
		clauses[i] = clause
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
