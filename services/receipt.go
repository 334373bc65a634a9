package services

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/utils"
)

// WriteReceipt renders a one-page PDF receipt for an order loaded with its lines and dishes.
func WriteReceipt(w io.Writer, order models.Order, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Recibo "+order.Reference(), true)
	pdf.SetAuthor("PedidosHN", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "PedidosHN", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Recibo de pedido "+order.Reference()), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	header := []struct{ label, value string }{
		{"Cliente", order.CustomerName},
		{"Restaurante", order.RestaurantName()},
		{"Dirección", order.Address},
		{"Teléfono", order.Phone},
		{"Fecha", order.CreatedAt.In(loc).Format("02/01/2006 15:04")},
		{"Entrega", fmt.Sprintf("%s (%s)", order.ScheduleDate, order.ScheduleSlot)},
		{"Estado", order.Status.Label()},
	}
	for _, h := range header {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 6, tr(h.label+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(h.value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{90, 25, 35, 40}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, title := range []string{"Plato", "Cantidad", "Precio", "Subtotal"} {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(order.Lines) == 0 {
		pdf.CellFormat(190, 7, tr("Pedido: "+order.Request), "1", 1, "L", false, 0, "")
	}
	for _, line := range order.Lines {
		name, price := "", ""
		if line.Dish != nil {
			name = line.Dish.Name
			price = utils.FormatCurrencyHNL(line.Dish.Price)
		}
		pdf.CellFormat(widths[0], 7, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, price, "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, utils.FormatCurrencyHNL(line.Subtotal()), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 8, utils.FormatCurrencyHNL(order.Total()), "1", 1, "R", false, 0, "")

	return pdf.Output(w)
}
