package importer

import (
	"fmt"
	"io"

	"consignparts/internal/model"
)

// ReadInvoiceInfo parses the billing-entity CSV. The file carries a
// header row and one data row; company and email are required, the
// address fields are optional. Extra data rows are ignored.
func (im *Importer) ReadInvoiceInfo(r io.Reader) (*model.InvoiceInfo, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("invoice info csv has no data row")
	}
	row := rows[0]

	company, companyOK := Clean(row["company"], false)
	email, emailOK := Clean(row["email"], false)
	if !companyOK || !emailOK {
		return nil, fmt.Errorf("invoice info requires company and email")
	}

	phone, _ := Clean(row["phone_number"], false)
	addr1, _ := Clean(row["address_line1"], false)
	addr2, _ := Clean(row["address_line2"], false)
	city, _ := Clean(row["city"], false)
	state, _ := Clean(row["state"], false)
	zip, _ := Clean(row["zip_code"], false)

	return &model.InvoiceInfo{
		Company:      company,
		Email:        email,
		PhoneNumber:  phone,
		AddressLine1: addr1,
		AddressLine2: addr2,
		City:         city,
		State:        state,
		ZipCode:      zip,
	}, nil
}
