package metrics

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ratings/internal/store"
	"github.com/wonny/ratings/pkg/logger"
)

// faultyQuerier blows up on every read, standing in for an unexpected
// fault inside per-instrument work.
type faultyQuerier struct{}

func (faultyQuerier) Begin(context.Context) (pgx.Tx, error) {
	panic("storage fault")
}

func (faultyQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (faultyQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("storage fault")
}

func (faultyQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("storage fault")
}

// erroringQuerier fails every read with a plain error.
type erroringQuerier struct{ faultyQuerier }

func (erroringQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("connection reset")
}

func TestDeriveAllFaultIsolation(t *testing.T) {
	log := logger.NewWithWriter(io.Discard)
	ctx := context.Background()

	t.Run("panic stays within its instrument", func(t *testing.T) {
		d := NewDeriver(store.New(faultyQuerier{}), 300, log)

		var derived int
		var err error
		require.NotPanics(t, func() {
			derived, err = d.DeriveAll(ctx, []string{"AAA", "BBB"})
		})
		require.NoError(t, err)
		assert.Zero(t, derived)
	})

	t.Run("read error stays within its instrument", func(t *testing.T) {
		d := NewDeriver(store.New(erroringQuerier{}), 300, log)

		derived, err := d.DeriveAll(ctx, []string{"AAA", "BBB"})
		require.NoError(t, err)
		assert.Zero(t, derived)
	})
}
