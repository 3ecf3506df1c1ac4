// Package schema describes the projected column layout of a replicated table.
//
// A Column carries the PostgreSQL type OID alongside the name so that row
// conversion can stay type-aware without holding a database connection.
package schema

import (
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// typeMap resolves OIDs to PostgreSQL type names. pgtype.Map registration is
// append-only after construction, so a shared read-only instance is safe for
// concurrent lookups.
var typeMap = pgtype.NewMap()

// Column is one projected column of a source table.
type Column struct {
	Name       string `json:"name"`
	OID        uint32 `json:"oid"`
	Modifier   int32  `json:"modifier"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

// TypeName returns the PostgreSQL name for the column's type OID, or the
// numeric OID when the type is not a known base type.
func (c Column) TypeName() string {
	if t, ok := typeMap.TypeForOID(c.OID); ok {
		return t.Name
	}
	return strconv.FormatUint(uint64(c.OID), 10)
}

// Table is the schema of one replicated table.
type Table struct {
	Namespace string   `json:"namespace"`
	Name      string   `json:"name"`
	Columns   []Column `json:"columns"`
}

// QualifiedName returns the schema-qualified table name.
func (t Table) QualifiedName() string {
	return fmt.Sprintf("%s.%s", t.Namespace, t.Name)
}
