package repo

import (
	"errors"
	"testing"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnknownDatabaseError(t *testing.T) {
	assert.True(t, isUnknownDatabaseError(&mysqlDriver.MySQLError{Number: 1049}))
	assert.False(t, isUnknownDatabaseError(&mysqlDriver.MySQLError{Number: 1045}))
	assert.True(t, isUnknownDatabaseError(errors.New("Error 1049: Unknown database 'x'")))
}

func TestQuoteMySQLIdentifier(t *testing.T) {
	assert.Equal(t, "`assets`", quoteMySQLIdentifier("assets"))
	assert.Equal(t, "`a``b`", quoteMySQLIdentifier("a`b"))
}

func TestOpenSqliteMigratesModels(t *testing.T) {
	db, err := OpenSqlite(":memory:")
	require.NoError(t, err)
	for _, table := range []string{"users", "folders", "assets", "shared_access", "blob_cleanup_task"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
