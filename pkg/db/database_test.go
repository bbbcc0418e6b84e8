package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdb "github.com/Skotchmaster/fashion_shop/pkg/db"
	"github.com/Skotchmaster/fashion_shop/pkg/db/dbtest"
)

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := pkgdb.Open(context.Background(), "")
	require.Error(t, err)
}

func TestReady(t *testing.T) {
	db := dbtest.Open(t)
	ready := pkgdb.Ready(db)
	require.NoError(t, ready())

	pkgdb.Close(db)
	assert.Error(t, ready(), "a closed pool is not ready")
}
