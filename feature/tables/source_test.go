package tables

import (
	"context"
	"testing"

	"datajoin/core/join"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func expectColumns(mock sqlmock.Sqlmock, table string, fields ...string) {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, f := range fields {
		rows.AddRow(f, "varchar(255)", "NO", "", nil, "")
	}
	mock.ExpectQuery("SHOW COLUMNS FROM `" + table + "`").WillReturnRows(rows)
}

func TestSource_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	expectColumns(mock, "items_base", "id", "item_name")

	src, err := NewSource(db, "items_base", "id")
	require.NoError(t, err)
	assert.Equal(t, "table:items_base", src.Name())

	rows := sqlmock.NewRows([]string{"id", "item_name"}).
		AddRow(1, "chair").
		AddRow(2, "table")
	mock.ExpectQuery("SELECT \\* FROM `items_base` ORDER BY id").WillReturnRows(rows)

	loaded, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	key, err := src.Identity(loaded[1])
	require.NoError(t, err)
	assert.Equal(t, "2", key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_MissingKeyColumn(t *testing.T) {
	db, mock := setupMockDB(t)
	expectColumns(mock, "items_base", "item_name")

	_, err := NewSource(db, "items_base", "id")
	assert.ErrorIs(t, err, ErrKeyColumn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_Identity(t *testing.T) {
	src := &Source{key: "id"}

	tests := []struct {
		name    string
		row     map[string]any
		want    string
		wantErr error
	}{
		{"Integer", map[string]any{"id": int64(7)}, "7", nil},
		{"Bytes", map[string]any{"id": []byte("abc")}, "abc", nil},
		{"Case Insensitive", map[string]any{"ID": "x"}, "x", nil},
		{"Missing", map[string]any{"name": "x"}, "", join.ErrFieldNotFound},
		{"Null", map[string]any{"id": nil}, "", join.ErrFieldNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.Identity(tt.row)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
