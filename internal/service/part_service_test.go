package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"consignparts/internal/errors"
	"consignparts/internal/model"
)

func newPartService(parts *MockPartRepository, users *MockUserRepository, mailer *MockMailer) PartService {
	return NewPartService(parts, users, nil, mailer, zap.NewNop().Sugar())
}

func strPtr(s string) *string { return &s }

func TestPartService_CreatePart(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects both fee modes", func(t *testing.T) {
		svc := newPartService(new(MockPartRepository), new(MockUserRepository), new(MockMailer))

		part := &model.Part{
			UserID:               1,
			CommissionPercentage: nullDec(t, "20"),
			FixedFee:             nullDec(t, "15"),
		}
		_, err := svc.CreatePart(ctx, part)
		assert.ErrorIs(t, err, errors.ErrFeeModeConflict)
	})

	t.Run("rejects commission out of range", func(t *testing.T) {
		svc := newPartService(new(MockPartRepository), new(MockUserRepository), new(MockMailer))

		part := &model.Part{
			UserID:               1,
			CommissionPercentage: nullDec(t, "150"),
		}
		_, err := svc.CreatePart(ctx, part)
		assert.ErrorIs(t, err, errors.ErrCommissionRange)
	})

	t.Run("rejects unknown consigner", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)
		svc := newPartService(new(MockPartRepository), users, new(MockMailer))

		_, err := svc.CreatePart(ctx, &model.Part{UserID: 99})
		assert.ErrorIs(t, err, errors.ErrConsignerNotFound)
	})

	t.Run("defaults status and date added", func(t *testing.T) {
		parts := new(MockPartRepository)
		users := new(MockUserRepository)
		users.On("FindByID", ctx, uint(1)).Return(&model.User{ID: 1}, nil)
		parts.On("Create", ctx, mock.AnythingOfType("*model.Part")).Return(nil)
		svc := newPartService(parts, users, new(MockMailer))

		created, err := svc.CreatePart(ctx, &model.Part{UserID: 1, Status: "Sold"})
		assert.NoError(t, err)
		assert.Equal(t, model.PartStatusUnsold, created.Status)
		assert.NotNil(t, created.DateAdded)

		today := time.Now().UTC()
		assert.Equal(t, today.Year(), created.DateAdded.Year())
		assert.Equal(t, today.YearDay(), created.DateAdded.YearDay())
		parts.AssertExpectations(t)
	})
}

func TestPartService_UpdateField(t *testing.T) {
	ctx := context.Background()

	existing := func() *model.Part {
		return &model.Part{
			ID:     5,
			UserID: 1,
			Price:  dec(t, "100"),
			Status: model.PartStatusUnsold,
		}
	}

	t.Run("unknown field rejected without write", func(t *testing.T) {
		parts := new(MockPartRepository)
		parts.On("FindByID", ctx, uint(5)).Return(existing(), nil)
		svc := newPartService(parts, new(MockUserRepository), new(MockMailer))

		_, err := svc.UpdateField(ctx, 5, PartFieldUpdate{Field: "warranty", Value: "yes"})
		assert.ErrorIs(t, err, errors.ErrInvalidField)
		parts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("commission above 100 rejected without write", func(t *testing.T) {
		parts := new(MockPartRepository)
		parts.On("FindByID", ctx, uint(5)).Return(existing(), nil)
		svc := newPartService(parts, new(MockUserRepository), new(MockMailer))

		_, err := svc.UpdateField(ctx, 5, PartFieldUpdate{Field: "commission_percentage", Value: "150"})
		assert.ErrorIs(t, err, errors.ErrCommissionRange)
		parts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("bad date rejected", func(t *testing.T) {
		parts := new(MockPartRepository)
		parts.On("FindByID", ctx, uint(5)).Return(existing(), nil)
		svc := newPartService(parts, new(MockUserRepository), new(MockMailer))

		_, err := svc.UpdateField(ctx, 5, PartFieldUpdate{Field: "date_added", Value: "01/15/2023"})
		assert.ErrorIs(t, err, errors.ErrInvalidDateFormat)
	})

	t.Run("bad money value rejected", func(t *testing.T) {
		parts := new(MockPartRepository)
		parts.On("FindByID", ctx, uint(5)).Return(existing(), nil)
		svc := newPartService(parts, new(MockUserRepository), new(MockMailer))

		_, err := svc.UpdateField(ctx, 5, PartFieldUpdate{Field: "price", Value: "ten"})
		assert.ErrorIs(t, err, errors.ErrInvalidValue)
	})

	t.Run("fixed fee rejected when commission set", func(t *testing.T) {
		part := existing()
		part.CommissionPercentage = nullDec(t, "20")
		parts := new(MockPartRepository)
		parts.On("FindByID", ctx, uint(5)).Return(part, nil)
		svc := newPartService(parts, new(MockUserRepository), new(MockMailer))

		_, err := svc.UpdateField(ctx, 5, PartFieldUpdate{Field: "fixed_fee", Value: "25"})
		assert.ErrorIs(t, err, errors.ErrFeeModeConflict)
	})

	t.Run("price update persists", func(t *testing.T) {
		parts := new(MockPartRepository)
		parts.On("FindByID", ctx, uint(5)).Return(existing(), nil)
		parts.On("Update", ctx, mock.AnythingOfType("*model.Part")).Return(nil)
		svc := newPartService(parts, new(MockUserRepository), new(MockMailer))

		updated, err := svc.UpdateField(ctx, 5, PartFieldUpdate{Field: "price", Value: "129.99"})
		assert.NoError(t, err)
		assert.True(t, updated.Price.Equal(dec(t, "129.99")))
		parts.AssertExpectations(t)
	})

	t.Run("missing part", func(t *testing.T) {
		parts := new(MockPartRepository)
		parts.On("FindByID", ctx, uint(404)).Return(nil, gorm.ErrRecordNotFound)
		svc := newPartService(parts, new(MockUserRepository), new(MockMailer))

		_, err := svc.UpdateField(ctx, 404, PartFieldUpdate{Field: "price", Value: "1"})
		assert.ErrorIs(t, err, errors.ErrPartNotFound)
	})
}

func TestPartService_StatusTransitions(t *testing.T) {
	ctx := context.Background()

	base := func() *model.Part {
		sold := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
		return &model.Part{
			ID:            7,
			UserID:        2,
			Price:         dec(t, "250"),
			Status:        model.PartStatusSold,
			DateSold:      &sold,
			Shipping:      nullDec(t, "9.99"),
			InvoiceNumber: "INV-77",
		}
	}

	t.Run("sold defaults date to today and notifies", func(t *testing.T) {
		part := base()
		part.Status = model.PartStatusUnsold
		part.DateSold = nil

		parts := new(MockPartRepository)
		users := new(MockUserRepository)
		mailer := new(MockMailer)
		parts.On("FindByID", ctx, uint(7)).Return(part, nil)
		parts.On("Update", ctx, mock.AnythingOfType("*model.Part")).Return(nil)
		users.On("FindByID", ctx, uint(2)).Return(&model.User{ID: 2, Code: "AB1"}, nil)
		mailer.On("SendPartSold", mock.AnythingOfType("*model.User"), mock.AnythingOfType("*model.Part")).Return(nil)
		svc := newPartService(parts, users, mailer)

		updated, err := svc.UpdateField(ctx, 7, PartFieldUpdate{Field: "status", Value: "Sold"})
		assert.NoError(t, err)
		assert.Equal(t, model.PartStatusSold, updated.Status)
		assert.NotNil(t, updated.DateSold)
		assert.Equal(t, time.Now().UTC().YearDay(), updated.DateSold.YearDay())
		mailer.AssertExpectations(t)
	})

	t.Run("sold accepts explicit date shipping and notes", func(t *testing.T) {
		part := base()
		part.Status = model.PartStatusUnsold
		part.DateSold = nil
		part.Shipping = decimal.NullDecimal{}

		parts := new(MockPartRepository)
		users := new(MockUserRepository)
		mailer := new(MockMailer)
		parts.On("FindByID", ctx, uint(7)).Return(part, nil)
		parts.On("Update", ctx, mock.AnythingOfType("*model.Part")).Return(nil)
		users.On("FindByID", ctx, uint(2)).Return(&model.User{ID: 2}, nil)
		mailer.On("SendPartSold", mock.Anything, mock.Anything).Return(nil)
		svc := newPartService(parts, users, mailer)

		updated, err := svc.UpdateField(ctx, 7, PartFieldUpdate{
			Field:    "status",
			Value:    "Sold",
			DateSold: strPtr("2023-06-10"),
			Shipping: strPtr("14.25"),
			Notes:    strPtr("shipped via freight"),
		})
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC), *updated.DateSold)
		assert.True(t, updated.Shipping.Decimal.Equal(dec(t, "14.25")))
		assert.Equal(t, "shipped via freight", updated.Notes)
	})

	t.Run("sold with bad shipping fails whole update", func(t *testing.T) {
		part := base()
		part.Status = model.PartStatusUnsold

		parts := new(MockPartRepository)
		parts.On("FindByID", ctx, uint(7)).Return(part, nil)
		svc := newPartService(parts, new(MockUserRepository), new(MockMailer))

		_, err := svc.UpdateField(ctx, 7, PartFieldUpdate{
			Field:    "status",
			Value:    "Sold",
			Shipping: strPtr("free"),
		})
		assert.ErrorIs(t, err, errors.ErrInvalidValue)
		parts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("sold with bad date fails whole update", func(t *testing.T) {
		part := base()
		parts := new(MockPartRepository)
		parts.On("FindByID", ctx, uint(7)).Return(part, nil)
		svc := newPartService(parts, new(MockUserRepository), new(MockMailer))

		_, err := svc.UpdateField(ctx, 7, PartFieldUpdate{
			Field:    "status",
			Value:    "Sold",
			DateSold: strPtr("06/10/2023"),
		})
		assert.ErrorIs(t, err, errors.ErrInvalidDateFormat)
	})

	t.Run("unsold clears sale state", func(t *testing.T) {
		part := base()
		parts := new(MockPartRepository)
		mailer := new(MockMailer)
		parts.On("FindByID", ctx, uint(7)).Return(part, nil)
		parts.On("Update", ctx, mock.AnythingOfType("*model.Part")).Return(nil)
		svc := newPartService(parts, new(MockUserRepository), mailer)

		updated, err := svc.UpdateField(ctx, 7, PartFieldUpdate{Field: "status", Value: "Unsold"})
		assert.NoError(t, err)
		assert.Equal(t, model.PartStatusUnsold, updated.Status)
		assert.Nil(t, updated.DateSold)
		assert.False(t, updated.Shipping.Valid)
		assert.Empty(t, updated.InvoiceNumber)
		mailer.AssertNotCalled(t, "SendPartSold", mock.Anything, mock.Anything)
	})

	t.Run("unknown status stored verbatim without side effects", func(t *testing.T) {
		part := base()
		parts := new(MockPartRepository)
		mailer := new(MockMailer)
		parts.On("FindByID", ctx, uint(7)).Return(part, nil)
		parts.On("Update", ctx, mock.AnythingOfType("*model.Part")).Return(nil)
		svc := newPartService(parts, new(MockUserRepository), mailer)

		updated, err := svc.UpdateField(ctx, 7, PartFieldUpdate{Field: "status", Value: "Pending"})
		assert.NoError(t, err)
		assert.Equal(t, "Pending", updated.Status)
		assert.Equal(t, "INV-77", updated.InvoiceNumber)
		mailer.AssertNotCalled(t, "SendPartSold", mock.Anything, mock.Anything)
	})

	t.Run("mail failure does not fail the transition", func(t *testing.T) {
		part := base()
		part.Status = model.PartStatusUnsold

		parts := new(MockPartRepository)
		users := new(MockUserRepository)
		mailer := new(MockMailer)
		parts.On("FindByID", ctx, uint(7)).Return(part, nil)
		parts.On("Update", ctx, mock.AnythingOfType("*model.Part")).Return(nil)
		users.On("FindByID", ctx, uint(2)).Return(&model.User{ID: 2}, nil)
		mailer.On("SendPartSold", mock.Anything, mock.Anything).Return(fmt.Errorf("smtp down"))
		svc := newPartService(parts, users, mailer)

		updated, err := svc.UpdateField(ctx, 7, PartFieldUpdate{Field: "status", Value: "Sold"})
		assert.NoError(t, err)
		assert.Equal(t, model.PartStatusSold, updated.Status)
	})
}

func TestPartService_DeletePart(t *testing.T) {
	ctx := context.Background()

	t.Run("missing part", func(t *testing.T) {
		parts := new(MockPartRepository)
		parts.On("FindByID", ctx, uint(1)).Return(nil, gorm.ErrRecordNotFound)
		svc := newPartService(parts, new(MockUserRepository), new(MockMailer))

		err := svc.DeletePart(ctx, 1)
		assert.ErrorIs(t, err, errors.ErrPartNotFound)
	})

	t.Run("deletes existing part", func(t *testing.T) {
		parts := new(MockPartRepository)
		parts.On("FindByID", ctx, uint(1)).Return(&model.Part{ID: 1}, nil)
		parts.On("Delete", ctx, uint(1)).Return(nil)
		svc := newPartService(parts, new(MockUserRepository), new(MockMailer))

		assert.NoError(t, svc.DeletePart(ctx, 1))
		parts.AssertExpectations(t)
	})
}

func TestPartService_PartsForConsigner(t *testing.T) {
	ctx := context.Background()

	t.Run("missing consigner", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", ctx, uint(3)).Return(nil, gorm.ErrRecordNotFound)
		svc := newPartService(new(MockPartRepository), users, new(MockMailer))

		_, err := svc.PartsForConsigner(ctx, 3, "")
		assert.ErrorIs(t, err, errors.ErrConsignerNotFound)
	})

	t.Run("returns consigner with status filtered parts", func(t *testing.T) {
		parts := new(MockPartRepository)
		users := new(MockUserRepository)
		users.On("FindByID", ctx, uint(3)).Return(&model.User{ID: 3, Code: "XY9"}, nil)
		parts.On("ListByUser", ctx, uint(3), "Sold").Return([]model.Part{{ID: 10}}, nil)
		svc := newPartService(parts, users, new(MockMailer))

		res, err := svc.PartsForConsigner(ctx, 3, "Sold")
		assert.NoError(t, err)
		assert.Equal(t, "XY9", res.Consigner.Code)
		assert.Len(t, res.Parts, 1)
	})
}
