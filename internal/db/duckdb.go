// Package db exposes the model outputs as DuckDB views for ad hoc queries.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// View names registered over the outputs directory.
const (
	NexusView     = "nexus_outputs"
	CatchmentView = "catchment_outputs"
)

// Config holds database configuration.
type Config struct {
	DataDir string
	DBName  string // empty opens an in-memory database
}

// Open opens a DuckDB database.
func Open(cfg Config) (*sql.DB, error) {
	if cfg.DBName == "" {
		return sql.Open("duckdb", "")
	}

	duckdbDir := filepath.Join(cfg.DataDir, "duckdb")
	if err := os.MkdirAll(duckdbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create duckdb directory: %w", err)
	}
	return sql.Open("duckdb", filepath.Join(duckdbDir, cfg.DBName+".duckdb"))
}

// RegisterOutputs (re)creates one view per output kind that has files in
// outputsDir and returns the names of the views it created. Each view adds
// a filename column identifying the source CSV.
func RegisterOutputs(ctx context.Context, conn *sql.DB, outputsDir string) ([]string, error) {
	nexus, catchments, err := splitOutputs(outputsDir)
	if err != nil {
		return nil, err
	}

	var views []string
	for _, v := range []struct {
		name  string
		files []string
	}{
		{NexusView, nexus},
		{CatchmentView, catchments},
	} {
		if len(v.files) == 0 {
			if _, err := conn.ExecContext(ctx, "DROP VIEW IF EXISTS "+v.name); err != nil {
				return nil, fmt.Errorf("dropping view %s: %w", v.name, err)
			}
			continue
		}

		stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM read_csv_auto(%s, filename = true, union_by_name = true)",
			v.name, sqlList(v.files))
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("creating view %s: %w", v.name, err)
		}
		views = append(views, v.name)
	}
	return views, nil
}

// Tables returns the tables and views in the main schema.
func Tables(ctx context.Context, conn *sql.DB) ([]string, error) {
	rows, err := conn.QueryContext(ctx,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = 'main' ORDER BY table_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// splitOutputs lists the CSV files of outputsDir by kind: catch_<id>.csv
// belongs to a nexus, every other CSV to a catchment.
func splitOutputs(outputsDir string) (nexus, catchments []string, err error) {
	entries, err := os.ReadDir(outputsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		path := filepath.Join(outputsDir, name)
		if strings.HasPrefix(name, "catch_") {
			nexus = append(nexus, path)
		} else {
			catchments = append(catchments, path)
		}
	}
	sort.Strings(nexus)
	sort.Strings(catchments)
	return nexus, catchments, nil
}

func sqlList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
