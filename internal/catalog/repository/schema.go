package repository

import _ "embed"

// PostgresSchema is the DDL applied by cmd/migrate.
//
//go:embed schema/postgres.sql
var PostgresSchema string
