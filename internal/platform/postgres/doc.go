// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces.
package postgres
