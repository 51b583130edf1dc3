// Package repository implements PostgreSQL persistence for the
// scheduling and reconciliation engine.
package repository

import (
	"database/sql"
	"strings"
)

// requireRow returns notFound when the statement touched no rows.
func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// prefixColumns qualifies every column in a comma-separated column list
// with a table alias, for joined queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
