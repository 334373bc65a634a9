package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyOrderCounts(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{CreatedAt: now},
		{CreatedAt: now.Add(-11 * time.Hour)},
		{CreatedAt: now.AddDate(0, 0, -6)},
		{CreatedAt: now.AddDate(0, 0, -7)},
	}

	counts := DailyOrderCounts(orders, now)
	require.Len(t, counts, ChartDays)
	assert.Equal(t, "04/03", counts[0].Label)
	assert.Equal(t, 1.0, counts[0].Value)
	assert.Equal(t, "10/03", counts[ChartDays-1].Label)
	assert.Equal(t, 2.0, counts[ChartDays-1].Value)
}

func TestWriteOrdersChart(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	for _, orders := range [][]models.Order{nil, {{CreatedAt: now}, {CreatedAt: now}}} {
		var buf bytes.Buffer
		require.NoError(t, WriteOrdersChart(&buf, orders, now))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
	}
}
