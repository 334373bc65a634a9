package services

import (
	"fmt"
	"io"
	"time"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/wcharczuk/go-chart/v2"
)

// ChartDays is the number of days, today included, shown on the orders chart.
const ChartDays = 7

// DailyOrderCounts buckets orders by creation day over the last ChartDays days,
// oldest first. Days are calendar days in now's location.
func DailyOrderCounts(orders []models.Order, now time.Time) []chart.Value {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	first := today.AddDate(0, 0, -(ChartDays - 1))

	values := make([]chart.Value, ChartDays)
	for i := range values {
		values[i].Label = first.AddDate(0, 0, i).Format("02/01")
	}
	for _, o := range orders {
		created := o.CreatedAt.In(loc)
		day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, loc)
		idx := int(day.Sub(first).Hours() / 24)
		if idx >= 0 && idx < ChartDays {
			values[idx].Value++
		}
	}
	return values
}

// WriteOrdersChart renders a PNG bar chart of orders per day.
func WriteOrdersChart(w io.Writer, orders []models.Order, now time.Time) error {
	bars := DailyOrderCounts(orders, now)
	top := 1.0
	for _, b := range bars {
		if b.Value > top {
			top = b.Value
		}
	}

	graph := chart.BarChart{
		Title:      "Pedidos por día",
		Width:      800,
		Height:     320,
		BarWidth:   40,
		BarSpacing: 30,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering orders chart: %w", err)
	}
	return nil
}
