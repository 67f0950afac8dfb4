package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"consignparts/internal/model"
)

func TestRenderProducesPDF(t *testing.T) {
	inv := &model.Invoice{
		Number:        "INV-100",
		Date:          time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: "Check",
		Consigner: &model.User{
			Name: "Jane Doe",
			Code: "JD1",
			City: "Springfield",
		},
		Billing: &model.InvoiceInfo{
			Company: "Acme Consignment",
			Email:   "billing@acme.test",
		},
		Lines: []model.InvoiceLine{
			{
				Description:          "Hydraulic pump",
				Quantity:             2,
				Price:                decimal.NewFromInt(100),
				FixedFee:             decimal.NullDecimal{Decimal: decimal.NewFromInt(20), Valid: true},
				Shipping:             decimal.NullDecimal{Decimal: decimal.NewFromInt(10), Valid: true},
				Total:                decimal.NewFromInt(140),
				InvoiceNumber:        "INV-100",
				CommissionPercentage: decimal.NullDecimal{},
			},
		},
		Subtotal:    decimal.NewFromInt(140),
		ShippingFee: decimal.NewFromInt(15),
		MiscFee:     decimal.NewFromInt(5),
		GrandTotal:  decimal.NewFromInt(120),
	}

	out, err := NewInvoiceRenderer().Render(inv)
	assert.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}
