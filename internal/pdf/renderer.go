// Package pdf renders computed invoices into downloadable documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"consignparts/internal/model"
)

// Renderer turns a computed invoice into a binary document.
type Renderer interface {
	Render(inv *model.Invoice) ([]byte, error)
}

// InvoiceRenderer renders invoices with gofpdf.
type InvoiceRenderer struct{}

// NewInvoiceRenderer creates a PDF invoice renderer.
func NewInvoiceRenderer() *InvoiceRenderer {
	return &InvoiceRenderer{}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return "$" + d.Decimal.StringFixed(2)
}

// Render produces the invoice PDF.
func (r *InvoiceRenderer) Render(inv *model.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Billing header
	pdf.SetFont("Helvetica", "B", 16)
	if inv.Billing != nil {
		pdf.CellFormat(0, 8, inv.Billing.Company, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, inv.Billing.AddressLine1, "", 1, "L", false, 0, "")
		if inv.Billing.AddressLine2 != "" {
			pdf.CellFormat(0, 5, inv.Billing.AddressLine2, "", 1, "L", false, 0, "")
		}
		cityLine := fmt.Sprintf("%s, %s %s", inv.Billing.City, inv.Billing.State, inv.Billing.ZipCode)
		pdf.CellFormat(0, 5, cityLine, "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, inv.Billing.Email, "", 1, "L", false, 0, "")
		if inv.Billing.PhoneNumber != "" {
			pdf.CellFormat(0, 5, inv.Billing.PhoneNumber, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	// Invoice meta
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 7, fmt.Sprintf("Invoice %s", inv.Number), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Date: "+inv.Date.Format("2006-01-02"), "", 1, "L", false, 0, "")
	if inv.PaymentMethod != "" {
		pdf.CellFormat(0, 5, "Payment Method: "+inv.PaymentMethod, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// Consigner block
	if inv.Consigner != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 5, "Consigner", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("%s (%s)", inv.Consigner.Name, inv.Consigner.Code), "", 1, "L", false, 0, "")
		if inv.Consigner.AddressLine1 != "" {
			pdf.CellFormat(0, 5, inv.Consigner.AddressLine1, "", 1, "L", false, 0, "")
		}
		cityLine := fmt.Sprintf("%s, %s %s", inv.Consigner.City, inv.Consigner.State, inv.Consigner.ZipCode)
		pdf.CellFormat(0, 5, cityLine, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Line item table
	widths := []float64{62, 12, 22, 20, 20, 20, 24}
	headers := []string{"Description", "Qty", "Price", "Comm %", "Fixed Fee", "Shipping", "Total"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range inv.Lines {
		comm := "-"
		if line.CommissionPercentage.Valid {
			comm = line.CommissionPercentage.Decimal.StringFixed(1) + "%"
		}
		pdf.CellFormat(widths[0], 6, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, money(line.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, comm, "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, nullMoney(line.FixedFee), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, nullMoney(line.Shipping), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 6, money(line.Total), "1", 1, "R", false, 0, "")
	}

	// Totals
	pdf.Ln(3)
	totalLabelW := widths[0] + widths[1] + widths[2] + widths[3] + widths[4]
	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal", inv.Subtotal},
		{"Shipping", inv.ShippingFee.Neg()},
		{"Misc", inv.MiscFee.Neg()},
		{"Grand Total", inv.GrandTotal},
	}
	for i, t := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(totalLabelW, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[5], 6, t.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 6, money(t.value), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
