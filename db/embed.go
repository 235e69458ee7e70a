// Package db provides the embedded database schema for the backend server.
package db

import _ "embed"

// Schema contains the DDL statements for all backend tables.
//
//go:embed migrations/001_schema.sql
var Schema string
