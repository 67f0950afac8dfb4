package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"consignparts/internal/model"
)

// PartFromRow normalizes one header-keyed CSV row into a Part.
// Field-level failures degrade (bad dates and fees go absent, bad
// prices go to zero); the row always produces a record.
func (im *Importer) PartFromRow(row map[string]string) model.Part {
	partNumber, _ := Clean(row["part_number"], false)
	serialNumber, _ := Clean(row["serial_number"], false)
	description, _ := Clean(row["description"], false)
	notes, _ := Clean(row["notes"], false)
	condition, _ := Clean(row["condition"], true)
	invoiceNumber, _ := Clean(row["invoice_number"], false)

	price := parseMoney(row["price"])
	shipping := decimal.NullDecimal{Decimal: parseMoney(row["shipping"]), Valid: true}

	var userID uint
	if id, err := strconv.ParseUint(row["user_id"], 10, 32); err == nil {
		userID = uint(id)
	}

	return model.Part{
		PartNumber:           partNumber,
		SerialNumber:         serialNumber,
		Description:          description,
		Notes:                notes,
		Condition:            condition,
		Price:                price,
		Shipping:             shipping,
		DateAdded:            im.ParseDate(row["date_added"]),
		DateSold:             im.ParseDate(row["date_sold"]),
		Status:               DeriveStatus(row["status"], invoiceNumber),
		CommissionPercentage: parseOptionalFee(row["commission_percentage"]),
		FixedFee:             parseOptionalFee(row["fixed_fee"]),
		InvoiceNumber:        invoiceNumber,
		UserID:               userID,
	}
}

// DeriveStatus resolves a part's status from the raw token, falling
// back to inference from the invoice number so legacy exports without
// a status column still import correctly.
func DeriveStatus(rawStatus, invoiceNumber string) model.PartStatus {
	status, ok := Clean(rawStatus, true)
	if ok && (status == model.PartStatusSold || status == model.PartStatusUnsold) {
		return status
	}
	if invoiceNumber != "" {
		return model.PartStatusSold
	}
	return model.PartStatusUnsold
}

// ReadParts parses a header-driven parts CSV into Part records.
func (im *Importer) ReadParts(r io.Reader) ([]model.Part, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	parts := make([]model.Part, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, im.PartFromRow(row))
	}
	return parts, nil
}

// readRows reads a CSV stream into header-keyed rows.
func readRows(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
