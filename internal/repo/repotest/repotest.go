package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/vibe_commerce/internal/repo"
	"github.com/Skotchmaster/vibe_commerce/pkg/db"
)

func NewGormRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}
