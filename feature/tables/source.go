package tables

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"datajoin/core/database"
	"datajoin/core/join"
	"datajoin/core/utils"

	"gorm.io/gorm"
)

// ErrKeyColumn is returned when the key column does not exist in the table.
var ErrKeyColumn = errors.New("key column not found")

// Source loads every row of a table ordered by its key column.
type Source struct {
	db    *gorm.DB
	table string
	key   string
}

// NewSource creates a table source after checking that key is a column of table.
func NewSource(db *gorm.DB, table, key string) (*Source, error) {
	ok, err := database.HasColumn(db, table, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrKeyColumn, table, key)
	}
	return &Source{db: db, table: table, key: key}, nil
}

// Name returns the source name.
func (s *Source) Name() string {
	return "table:" + s.table
}

// Load returns the rows of the table.
func (s *Source) Load(ctx context.Context) ([]map[string]any, error) {
	var rows []map[string]any
	if err := s.db.WithContext(ctx).Table(s.table).Order(s.key).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load table %s: %w", s.table, err)
	}
	return rows, nil
}

// Identity returns the key column value of row as a string.
func (s *Source) Identity(row map[string]any) (string, error) {
	v, ok := row[s.key]
	if !ok {
		for col, val := range row {
			if strings.EqualFold(col, s.key) {
				v, ok = val, true
				break
			}
		}
	}
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %q", join.ErrFieldNotFound, s.key)
	}
	return utils.ToString(v), nil
}
