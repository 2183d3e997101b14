package orders

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
)

func intToDecimal(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}

// renderInvoice draws a single-page A4 invoice for the order.
func renderInvoice(order *models.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Factura %s", order.OrderNumber), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Subirana Nadons")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Factura %s", order.OrderNumber))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Fecha: %s", order.CreatedAt.Format("02/01/2006")))
	pdf.Ln(10)

	if !order.ShippingDetails.IsZero() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 6, "Datos de entrega")
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		addr := order.ShippingDetails
		pdf.Cell(0, 5, fmt.Sprintf("%s %s", addr.Name, addr.LastName))
		pdf.Ln(5)
		if addr.Address != "" {
			pdf.Cell(0, 5, addr.Address)
			pdf.Ln(5)
		}
		if addr.City != "" || addr.PostalCode != "" {
			pdf.Cell(0, 5, fmt.Sprintf("%s %s", addr.PostalCode, addr.City))
			pdf.Ln(5)
		}
		pdf.Ln(5)
	}

	// Line table.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(90, 7, "Producto", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Cantidad", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Precio", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Importe", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		name := item.Name
		if item.IsGift {
			name += " (regalo)"
		}
		lineTotal := item.Price.Mul(intToDecimal(item.Quantity))
		pdf.CellFormat(90, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, item.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, lineTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	writeTotal := func(label, amount string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(145, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, amount, "", 1, "R", false, 0, "")
	}
	writeTotal("Subtotal", order.Subtotal.StringFixed(2), false)
	writeTotal("Envío", order.Shipping.StringFixed(2), false)
	writeTotal("IVA (incluido)", order.Tax.StringFixed(2), false)
	writeTotal("Total", order.Total.StringFixed(2), true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
