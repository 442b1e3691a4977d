// Package storage persists rules in a SQL database through GORM.
//
// GormStore keeps one row per rule, keyed by rule name, and can load the
// stored set into a rule.Engine. Any GORM dialect works; the tests run
// against in-memory SQLite and, when TEST_DATABASE_URL is set, PostgreSQL.
package storage
