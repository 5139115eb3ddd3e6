package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/marcboeker/go-duckdb"
)

// ErrNotReadOnly is returned for statements other than a single SELECT.
var ErrNotReadOnly = errors.New("only a single SELECT statement is allowed")

// CheckReadOnly prepares query on conn without running it and rejects
// anything but one SELECT statement.
func CheckReadOnly(conn *sql.Conn, query string) error {
	return conn.Raw(func(driverConn any) error {
		dc, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}

		// Prepare, unlike PrepareContext, refuses multi-statement input
		// instead of executing the leading statements.
		stmt, err := dc.Prepare(query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		ds, ok := stmt.(*duckdb.Stmt)
		if !ok {
			return fmt.Errorf("unexpected driver statement %T", stmt)
		}
		kind, err := ds.StatementType()
		if err != nil {
			return err
		}
		if kind != duckdb.STATEMENT_TYPE_SELECT {
			return ErrNotReadOnly
		}
		return nil
	})
}
