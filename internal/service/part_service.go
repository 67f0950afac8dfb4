package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"consignparts/internal/cache"
	"consignparts/internal/errors"
	"consignparts/internal/mail"
	"consignparts/internal/model"
	"consignparts/internal/repository"
)

const (
	dateLayout   = "2006-01-02"
	partCacheTTL = 5 * time.Minute
)

// fieldKind is the coercion rule applied to an updatable field.
type fieldKind int

const (
	fieldString fieldKind = iota
	fieldMoney
	fieldPercent
	fieldDate
)

// partFields declares which part fields are updatable and how their
// raw values are coerced. Status is deliberately absent: it has its
// own transition logic.
var partFields = map[string]fieldKind{
	"part_number":           fieldString,
	"serial_number":         fieldString,
	"description":           fieldString,
	"condition":             fieldString,
	"notes":                 fieldString,
	"price":                 fieldMoney,
	"shipping":              fieldMoney,
	"commission_percentage": fieldPercent,
	"fixed_fee":             fieldMoney,
	"date_added":            fieldDate,
	"date_sold":             fieldDate,
}

// PartFieldUpdate is a single-field mutation request. The extra
// fields only apply when Field is "status" and the value is "Sold".
type PartFieldUpdate struct {
	Field    string
	Value    string
	DateSold *string
	Shipping *string
	Notes    *string
}

// ConsignerParts bundles a consigner with their (optionally status
// filtered) parts for the detail view.
type ConsignerParts struct {
	Consigner *model.User  `json:"consigner"`
	Parts     []model.Part `json:"parts"`
}

// PartService handles part lifecycle operations.
type PartService interface {
	CreatePart(ctx context.Context, part *model.Part) (*model.Part, error)
	GetPart(ctx context.Context, id uint) (*model.Part, error)
	UpdateField(ctx context.Context, id uint, upd PartFieldUpdate) (*model.Part, error)
	DeletePart(ctx context.Context, id uint) error
	ListUnsold(ctx context.Context, filter repository.PartFilter) ([]repository.PartWithCode, int64, error)
	PartsForConsigner(ctx context.Context, consignerID uint, status string) (*ConsignerParts, error)
	PartsForOwner(ctx context.Context, userID uint) ([]model.Part, error)
}

type partService struct {
	parts  repository.PartRepository
	users  repository.UserRepository
	cache  *cache.Client
	mailer mail.Mailer
	log    *zap.SugaredLogger
}

// NewPartService creates a new part service.
func NewPartService(
	parts repository.PartRepository,
	users repository.UserRepository,
	cache *cache.Client,
	mailer mail.Mailer,
	log *zap.SugaredLogger,
) PartService {
	return &partService{
		parts:  parts,
		users:  users,
		cache:  cache,
		mailer: mailer,
		log:    log,
	}
}

func (s *partService) cacheKey(id uint) string {
	return fmt.Sprintf("part:%d", id)
}

// CreatePart stores a new part. At most one fee mode may be supplied;
// status always starts Unsold and date_added defaults to today.
func (s *partService) CreatePart(ctx context.Context, part *model.Part) (*model.Part, error) {
	if part.CommissionPercentage.Valid && part.FixedFee.Valid {
		return nil, errors.ErrFeeModeConflict
	}
	if part.CommissionPercentage.Valid {
		if err := checkCommissionRange(part.CommissionPercentage.Decimal); err != nil {
			return nil, err
		}
	}
	if _, err := s.users.FindByID(ctx, part.UserID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrConsignerNotFound
		}
		return nil, err
	}

	part.Status = model.PartStatusUnsold
	if part.DateAdded == nil {
		today := truncateToDay(time.Now().UTC())
		part.DateAdded = &today
	}
	if err := s.parts.Create(ctx, part); err != nil {
		return nil, fmt.Errorf("create part: %w", err)
	}
	return part, nil
}

// GetPart retrieves a part by ID with caching.
func (s *partService) GetPart(ctx context.Context, id uint) (*model.Part, error) {
	var cached model.Part
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	part, err := s.parts.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPartNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), part, partCacheTTL)
	return part, nil
}

// UpdateField validates, coerces, and applies a single field update.
// Nothing is persisted when any step fails.
func (s *partService) UpdateField(ctx context.Context, id uint, upd PartFieldUpdate) (*model.Part, error) {
	part, err := s.parts.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPartNotFound
		}
		return nil, err
	}

	var notify bool
	if upd.Field == "status" {
		notify, err = s.applyStatusTransition(part, upd)
		if err != nil {
			return nil, err
		}
	} else {
		if err := s.applyFieldUpdate(part, upd.Field, upd.Value); err != nil {
			return nil, err
		}
	}

	if err := s.parts.Update(ctx, part); err != nil {
		return nil, fmt.Errorf("update part: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	if notify {
		s.notifyPartSold(ctx, part)
	}
	return part, nil
}

// applyFieldUpdate coerces value per the field table and assigns it.
func (s *partService) applyFieldUpdate(part *model.Part, field, value string) error {
	kind, ok := partFields[field]
	if !ok {
		return errors.ErrInvalidField
	}

	switch kind {
	case fieldString:
		switch field {
		case "part_number":
			part.PartNumber = value
		case "serial_number":
			part.SerialNumber = value
		case "description":
			part.Description = value
		case "condition":
			part.Condition = value
		case "notes":
			part.Notes = value
		}

	case fieldMoney:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return errors.ErrInvalidValue
		}
		switch field {
		case "price":
			part.Price = d
		case "shipping":
			part.Shipping = decimal.NullDecimal{Decimal: d, Valid: true}
		case "fixed_fee":
			if part.CommissionPercentage.Valid {
				return errors.ErrFeeModeConflict
			}
			part.FixedFee = decimal.NullDecimal{Decimal: d, Valid: true}
		}

	case fieldPercent:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return errors.ErrInvalidValue
		}
		if err := checkCommissionRange(d); err != nil {
			return err
		}
		if part.FixedFee.Valid {
			return errors.ErrFeeModeConflict
		}
		part.CommissionPercentage = decimal.NullDecimal{Decimal: d, Valid: true}

	case fieldDate:
		t, err := time.Parse(dateLayout, value)
		if err != nil {
			return errors.ErrInvalidDateFormat
		}
		t = truncateToDay(t)
		if field == "date_added" {
			part.DateAdded = &t
		} else {
			part.DateSold = &t
		}
	}
	return nil
}

// applyStatusTransition mutates the part per the requested status.
// The transition rules are keyed by requested status only; the spec's
// schema does not constrain the current value. Returns whether a
// part-sold notification should follow the commit.
func (s *partService) applyStatusTransition(part *model.Part, upd PartFieldUpdate) (bool, error) {
	switch upd.Value {
	case model.PartStatusSold:
		dateSold := truncateToDay(time.Now().UTC())
		if upd.DateSold != nil && *upd.DateSold != "" {
			t, err := time.Parse(dateLayout, *upd.DateSold)
			if err != nil {
				return false, errors.ErrInvalidDateFormat
			}
			dateSold = truncateToDay(t)
		}
		if upd.Shipping != nil {
			d, err := decimal.NewFromString(*upd.Shipping)
			if err != nil {
				return false, errors.ErrInvalidValue
			}
			part.Shipping = decimal.NullDecimal{Decimal: d, Valid: true}
		}
		if upd.Notes != nil {
			part.Notes = *upd.Notes
		}
		part.Status = model.PartStatusSold
		part.DateSold = &dateSold
		return true, nil

	case model.PartStatusUnsold:
		part.Status = model.PartStatusUnsold
		part.DateSold = nil
		part.Shipping = decimal.NullDecimal{}
		part.InvoiceNumber = ""
		return false, nil

	default:
		// Unknown values are stored verbatim with no side effects.
		part.Status = upd.Value
		return false, nil
	}
}

// notifyPartSold sends the operations notification. Best effort: a
// mail failure is logged, never surfaced.
func (s *partService) notifyPartSold(ctx context.Context, part *model.Part) {
	consigner, err := s.users.FindByID(ctx, part.UserID)
	if err != nil {
		s.log.Warnw("part-sold mail skipped, consigner lookup failed",
			"part_id", part.ID, "user_id", part.UserID, "error", err)
		return
	}
	if err := s.mailer.SendPartSold(consigner, part); err != nil {
		s.log.Warnw("part-sold mail failed",
			"part_id", part.ID, "consigner_code", consigner.Code, "error", err)
	}
}

// DeletePart removes a part.
func (s *partService) DeletePart(ctx context.Context, id uint) error {
	if _, err := s.parts.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrPartNotFound
		}
		return err
	}
	if err := s.parts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete part: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// ListUnsold returns the filtered, paginated admin listing.
func (s *partService) ListUnsold(ctx context.Context, filter repository.PartFilter) ([]repository.PartWithCode, int64, error) {
	return s.parts.ListUnsold(ctx, filter)
}

// PartsForConsigner returns the admin detail view of one consigner's
// parts, optionally filtered by status (sold parts are visible here).
func (s *partService) PartsForConsigner(ctx context.Context, consignerID uint, status string) (*ConsignerParts, error) {
	consigner, err := s.users.FindByID(ctx, consignerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrConsignerNotFound
		}
		return nil, err
	}
	parts, err := s.parts.ListByUser(ctx, consignerID, status)
	if err != nil {
		return nil, err
	}
	return &ConsignerParts{Consigner: consigner, Parts: parts}, nil
}

// PartsForOwner returns the authenticated consigner's own parts.
func (s *partService) PartsForOwner(ctx context.Context, userID uint) ([]model.Part, error) {
	return s.parts.ListByUser(ctx, userID, "")
}

func checkCommissionRange(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return errors.ErrCommissionRange
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
