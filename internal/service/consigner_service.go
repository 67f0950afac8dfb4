package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"consignparts/internal/cache"
	"consignparts/internal/errors"
	"consignparts/internal/mail"
	"consignparts/internal/model"
	"consignparts/internal/repository"
)

const (
	bcryptCost        = 10
	consignerCacheTTL = 5 * time.Minute
)

// consignerFields declares the updatable consigner fields. Everything
// is a string except created_at, which must be YYYY-MM-DD.
var consignerFields = map[string]fieldKind{
	"name":          fieldString,
	"email":         fieldString,
	"code":          fieldString,
	"created_at":    fieldDate,
	"phone_number":  fieldString,
	"address_line1": fieldString,
	"address_line2": fieldString,
	"city":          fieldString,
	"state":         fieldString,
	"zip_code":      fieldString,
}

// CreateConsignerInput carries the admin create-consigner payload.
// TempPassword is hashed before storage and mailed to the consigner.
type CreateConsignerInput struct {
	Name         string
	Code         string
	Email        string
	TempPassword string
	CreatedAt    *time.Time
	PhoneNumber  string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
}

// ConsignerService handles consigner account management.
type ConsignerService interface {
	CreateConsigner(ctx context.Context, in CreateConsignerInput) (*model.User, error)
	GetConsigner(ctx context.Context, id uint) (*model.User, error)
	ListConsigners(ctx context.Context, filter repository.ConsignerFilter) ([]model.User, error)
	UpdateField(ctx context.Context, id uint, field, value string) (*model.User, error)
	DeleteConsigner(ctx context.Context, id uint) error
}

type consignerService struct {
	users  repository.UserRepository
	cache  *cache.Client
	mailer mail.Mailer
	log    *zap.SugaredLogger
}

// NewConsignerService creates a new consigner service.
func NewConsignerService(
	users repository.UserRepository,
	cache *cache.Client,
	mailer mail.Mailer,
	log *zap.SugaredLogger,
) ConsignerService {
	return &consignerService{
		users:  users,
		cache:  cache,
		mailer: mailer,
		log:    log,
	}
}

func (s *consignerService) cacheKey(id uint) string {
	return fmt.Sprintf("consigner:%d", id)
}

// CreateConsigner registers a consigner account and mails the welcome
// message with the temporary password. Mail failure never fails the
// creation.
func (s *consignerService) CreateConsigner(ctx context.Context, in CreateConsignerInput) (*model.User, error) {
	if taken, err := s.users.EmailTaken(ctx, in.Email, 0); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if taken {
		return nil, errors.ErrDuplicateEmail
	}
	if taken, err := s.users.CodeTaken(ctx, in.Code, 0); err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	} else if taken {
		return nil, errors.ErrDuplicateCode
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.TempPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	createdAt := time.Now().UTC()
	if in.CreatedAt != nil {
		createdAt = *in.CreatedAt
	}

	user := &model.User{
		Name:         in.Name,
		Code:         in.Code,
		Email:        in.Email,
		PasswordHash: string(hashed),
		IsAdmin:      false,
		CreatedAt:    createdAt,
		PhoneNumber:  in.PhoneNumber,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		ZipCode:      in.ZipCode,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create consigner: %w", err)
	}

	if err := s.mailer.SendWelcome(user, in.TempPassword); err != nil {
		s.log.Warnw("welcome mail failed", "consigner_id", user.ID, "email", user.Email, "error", err)
	}
	return user, nil
}

// GetConsigner retrieves a consigner by ID with caching.
func (s *consignerService) GetConsigner(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrConsignerNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), user, consignerCacheTTL)
	return user, nil
}

// ListConsigners returns non-admin users matching the filter.
func (s *consignerService) ListConsigners(ctx context.Context, filter repository.ConsignerFilter) ([]model.User, error) {
	return s.users.ListConsigners(ctx, filter)
}

// UpdateField validates, coerces, and applies a single field update.
// Email and code changes are checked for uniqueness against all other
// users before anything is written.
func (s *consignerService) UpdateField(ctx context.Context, id uint, field, value string) (*model.User, error) {
	kind, ok := consignerFields[field]
	if !ok {
		return nil, errors.ErrInvalidField
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrConsignerNotFound
		}
		return nil, err
	}

	switch field {
	case "email":
		if taken, err := s.users.EmailTaken(ctx, value, id); err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		} else if taken {
			return nil, errors.ErrDuplicateEmail
		}
	case "code":
		if taken, err := s.users.CodeTaken(ctx, value, id); err != nil {
			return nil, fmt.Errorf("check code: %w", err)
		} else if taken {
			return nil, errors.ErrDuplicateCode
		}
	}

	if kind == fieldDate {
		t, err := time.Parse(dateLayout, value)
		if err != nil {
			return nil, errors.ErrInvalidDateFormat
		}
		user.CreatedAt = truncateToDay(t)
	} else {
		switch field {
		case "name":
			user.Name = value
		case "email":
			user.Email = value
		case "code":
			user.Code = value
		case "phone_number":
			user.PhoneNumber = value
		case "address_line1":
			user.AddressLine1 = value
		case "address_line2":
			user.AddressLine2 = value
		case "city":
			user.City = value
		case "state":
			user.State = value
		case "zip_code":
			user.ZipCode = value
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update consigner: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// DeleteConsigner removes a consigner and all owned parts atomically.
func (s *consignerService) DeleteConsigner(ctx context.Context, id uint) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrConsignerNotFound
		}
		return err
	}
	if err := s.users.DeleteWithParts(ctx, id); err != nil {
		return fmt.Errorf("delete consigner: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
