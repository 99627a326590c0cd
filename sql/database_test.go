package sql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testTables(db Executor) error {
	if _, err := db.Exec(`create table testing1 (
		id varchar primary key,
		field int
	)`, nil, nil); err != nil {
		return err
	}
	return nil
}

func testURI(tb testing.TB) string {
	tb.Helper()
	return "file:" + filepath.Join(tb.TempDir(), "state.sql")
}

func TestWithTxRollback(t *testing.T) {
	db := InMemory(WithMigrations(testTables))
	errAbort := errors.New("abort")

	err := db.WithTx(context.Background(), func(tx *Tx) error {
		_, err := tx.Exec("insert into testing1(id, field) values ('a', 1)", nil, nil)
		require.NoError(t, err)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	rows, err := db.Exec("select 1 from testing1", nil, nil)
	require.NoError(t, err)
	require.Zero(t, rows)

	require.NoError(t, db.WithTx(context.Background(), func(tx *Tx) error {
		_, err := tx.Exec("insert into testing1(id, field) values ('a', 1)", nil, nil)
		return err
	}))
	rows, err = db.Exec("select 1 from testing1", nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, rows)
}

func TestObjectExists(t *testing.T) {
	db := InMemory(WithMigrations(testTables))
	insert := func() error {
		_, err := db.Exec("insert into testing1(id, field) values ('a', 1)", nil, nil)
		return err
	}
	require.NoError(t, insert())
	require.ErrorIs(t, insert(), ErrObjectExists)
}

func TestMigrationsAppliedOnce(t *testing.T) {
	uri := testURI(t)
	db, err := Open(uri, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	version, err := Version(db)
	require.NoError(t, err)
	require.Equal(t, 1, version)
	require.NoError(t, db.Close())

	db, err = Open(uri, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	version, err = Version(db)
	require.NoError(t, err)
	require.Equal(t, 1, version)
}
