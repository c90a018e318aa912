package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the gateway to the data store.
// Satisfied by *pgxpool.Pool, pgx.Tx, and test fakes.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Op is a write operation on an entity.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Ops lists the write operations in route order.
var Ops = []Op{OpCreate, OpUpdate, OpDelete}

// FieldType represents how a form value is marshaled into a procedure parameter.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldInt
	FieldDecimal
	FieldRef // integer id of a row in another entity, chosen from a lookup
)

// FieldSpec describes one form field. Fields are listed in procedure parameter order.
type FieldSpec struct {
	Name       string // form field and record key: "countryName"
	Label      string // display label: "Country"
	Type       FieldType
	Optional   bool     // empty input becomes SQL NULL
	EnumValues []string // choices for FieldEnum
	Lookup     string   // Lookup.Name providing options for FieldRef
}

// Column is one column of the list view, in SELECT order.
type Column struct {
	Name  string
	Label string
}

// Lookup is a query producing (id, label) pairs for a dropdown.
type Lookup struct {
	Name string
	SQL  string
}

// Option is a single dropdown entry.
type Option struct {
	Value string
	Label string
}

// EntityInfo contains display information about an entity.
type EntityInfo struct {
	Key      string // route segment: "railLines"
	Label    string // plural title: "Rail Lines"
	Singular string // "Rail Line"
	Order    int    // position in navigation
}

// Procedure is a stored procedure with a fixed positional signature.
type Procedure struct {
	Name   string
	Params []string
}

// Arity returns the number of positional parameters.
func (p Procedure) Arity() int {
	return len(p.Params)
}

// CallSQL returns the CALL statement with one bind placeholder per parameter.
func (p Procedure) CallSQL() string {
	placeholders := make([]string, len(p.Params))
	for i := range p.Params {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("CALL %s(%s)", p.Name, strings.Join(placeholders, ", "))
}

// EntityDefinition contains everything needed to list and mutate an entity.
type EntityDefinition struct {
	Info EntityInfo

	// KeyFields names the primary key columns. Join entities have two.
	KeyFields []string

	// LegacyKeyFields names single delimited form fields ("3,12", "1-2")
	// still accepted in place of the per-column key fields.
	LegacyKeyFields map[Op]string

	// Columns describes the ListSQL result. Key columns come first.
	Columns []Column

	// ListSQL returns all rows ordered by primary key.
	ListSQL string

	// EditSQL looks up one row by key ($1[, $2]) and returns the key
	// columns followed by Fields, in order.
	EditSQL string

	Fields     []FieldSpec
	Lookups    []Lookup
	Procedures map[Op]Procedure
}

// Supports reports whether the entity defines a procedure for op.
func (d EntityDefinition) Supports(op Op) bool {
	_, ok := d.Procedures[op]
	return ok
}

// Composite reports whether the entity is keyed by more than one column.
func (d EntityDefinition) Composite() bool {
	return len(d.KeyFields) > 1
}

// Path returns the list route for the entity.
func (d EntityDefinition) Path() string {
	return "/" + d.Info.Key
}

// Field returns the field spec with the given name.
func (d EntityDefinition) Field(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}
