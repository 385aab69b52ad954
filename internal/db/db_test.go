package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	q := "SELECT id FROM t WHERE a = ? AND b LIKE '?%' AND c = ?"
	assert.Equal(t, q, Rebind(DriverSQLite, q))
	assert.Equal(t, "SELECT id FROM t WHERE a = $1 AND b LIKE '?%' AND c = $2", Rebind(DriverPostgres, q))
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lms.sqlite3")
	db, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorContains(t, err, "unsupported db driver")

	_, err = Open(DriverSQLite, " ")
	assert.Error(t, err)

	_, err = Open(DriverPostgres, "")
	assert.Error(t, err)
}
