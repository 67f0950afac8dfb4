package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"consignparts/internal/cache"
	"consignparts/internal/errors"
	"consignparts/internal/model"
	"consignparts/internal/repository"
)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// GenerateInvoiceInput describes one invoice-generation request.
type GenerateInvoiceInput struct {
	PartIDs        []uint
	Quantities     map[uint]int    // part id -> qty, defaults to 1
	InvoiceNumbers map[uint]string // per-part invoice number overrides
	InvoiceNumber  string
	InvoiceDate    time.Time
	PaymentMethod  string
	ShippingFee    decimal.Decimal // invoice-level, distinct from per-part shipping
	MiscFee        decimal.Decimal
}

// InvoiceService computes invoices and manages the billing entity.
type InvoiceService interface {
	// GenerateInvoice computes line items and totals for the given
	// parts and stamps each part's invoice number in one transaction.
	// Regenerating overwrites prior stamps.
	GenerateInvoice(ctx context.Context, in GenerateInvoiceInput) (*model.Invoice, error)
	GetBillingInfo(ctx context.Context) (*model.InvoiceInfo, error)
	UpdateBillingInfo(ctx context.Context, info *model.InvoiceInfo) error
}

type invoiceService struct {
	parts   repository.PartRepository
	users   repository.UserRepository
	billing repository.InvoiceInfoRepository
	cache   *cache.Client
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	parts repository.PartRepository,
	users repository.UserRepository,
	billing repository.InvoiceInfoRepository,
	cache *cache.Client,
) InvoiceService {
	return &invoiceService{
		parts:   parts,
		users:   users,
		billing: billing,
		cache:   cache,
	}
}

// lineTotal applies the per-part fee rule. The fixed fee wins when a
// legacy row somehow carries both fee modes.
func lineTotal(part *model.Part, qty int) decimal.Decimal {
	q := decimal.NewFromInt(int64(qty))
	shipping := part.ShippingOrZero()

	switch {
	case part.FixedFee.Valid:
		return q.Mul(part.Price.Sub(part.FixedFee.Decimal).Sub(shipping))
	case part.CommissionPercentage.Valid:
		keep := one.Sub(part.CommissionPercentage.Decimal.Div(hundred))
		return q.Mul(part.Price.Sub(shipping)).Mul(keep)
	default:
		return q.Mul(part.Price.Sub(shipping))
	}
}

func (s *invoiceService) GenerateInvoice(ctx context.Context, in GenerateInvoiceInput) (*model.Invoice, error) {
	parts, err := s.parts.FindByIDs(ctx, in.PartIDs)
	if err != nil {
		return nil, fmt.Errorf("load parts: %w", err)
	}
	if len(parts) == 0 {
		return nil, errors.ErrNoPartsFound
	}

	consigner, err := s.users.FindByID(ctx, parts[0].UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrConsignerNotFound
		}
		return nil, err
	}

	billing, err := s.billing.Get(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBillingInfoMissing
		}
		return nil, err
	}

	lines := make([]model.InvoiceLine, 0, len(parts))
	subtotal := decimal.Zero
	for i := range parts {
		part := &parts[i]

		qty := in.Quantities[part.ID]
		if qty < 1 {
			qty = 1
		}

		total := lineTotal(part, qty)
		subtotal = subtotal.Add(total)

		number := in.InvoiceNumbers[part.ID]
		if number == "" {
			number = in.InvoiceNumber
		}
		part.InvoiceNumber = number

		lines = append(lines, model.InvoiceLine{
			Description:          part.Description,
			Quantity:             qty,
			Price:                part.Price,
			CommissionPercentage: part.CommissionPercentage,
			FixedFee:             part.FixedFee,
			Shipping:             part.Shipping,
			Total:                total,
			InvoiceNumber:        number,
		})
	}

	// All invoice-number stamps commit together or not at all.
	err = s.parts.WithTransaction(ctx, func(repo repository.PartRepository) error {
		for i := range parts {
			if err := repo.Update(ctx, &parts[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("stamp invoice numbers: %w", err)
	}
	for i := range parts {
		_ = s.cache.Delete(ctx, fmt.Sprintf("part:%d", parts[i].ID))
	}

	return &model.Invoice{
		Number:        in.InvoiceNumber,
		Date:          in.InvoiceDate,
		PaymentMethod: in.PaymentMethod,
		Consigner:     consigner,
		Billing:       billing,
		Lines:         lines,
		Subtotal:      subtotal,
		ShippingFee:   in.ShippingFee,
		MiscFee:       in.MiscFee,
		GrandTotal:    subtotal.Sub(in.ShippingFee).Sub(in.MiscFee),
	}, nil
}

func (s *invoiceService) GetBillingInfo(ctx context.Context) (*model.InvoiceInfo, error) {
	info, err := s.billing.Get(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBillingInfoMissing
		}
		return nil, err
	}
	return info, nil
}

func (s *invoiceService) UpdateBillingInfo(ctx context.Context, info *model.InvoiceInfo) error {
	return s.billing.Upsert(ctx, info)
}
