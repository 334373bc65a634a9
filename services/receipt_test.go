package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReceiptProducesPDF(t *testing.T) {
	f := newLifecycleFixture(t)
	order, err := f.svc.Get(context.Background(), f.order.ID, f.owner.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReceipt(&buf, order, tegucigalpa))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestWriteReceiptWithoutLines(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.RemoveLine(ctx, f.order.ID, f.order.Lines[0].ID, f.owner.ID))

	order, err := f.svc.Get(ctx, f.order.ID, f.owner.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReceipt(&buf, order, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
