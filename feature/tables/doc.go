// Package tables tracks the rows of a database table.
//
// Rows are loaded through gorm as column maps and identified by the value of a key
// column. A row counts as changed when any of its column values differ.
package tables
