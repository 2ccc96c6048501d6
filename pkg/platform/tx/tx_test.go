package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEmptyContext(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)
}

func TestWithTxIgnoresNil(t *testing.T) {
	ctx := WithTx(context.Background(), nil)
	_, ok := From(ctx)
	assert.False(t, ok)
}

func TestWithTxRoundTrip(t *testing.T) {
	want := &sql.Tx{}
	got, ok := From(WithTx(context.Background(), want))
	assert.True(t, ok)
	assert.Same(t, want, got)
}
