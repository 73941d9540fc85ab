// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain stays free of ORM
// tags; each model converts to and from its entity.
//
// The models stay portable between PostgreSQL and SQLite: UUIDs are stored
// through uuid.UUID's Scanner/Valuer and sets are stored as delimited text.
package models
