package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"consignparts/internal/model"
	"consignparts/internal/repository"
)

// MockPartRepository is a mock implementation of PartRepository.
type MockPartRepository struct {
	mock.Mock
}

func (m *MockPartRepository) Create(ctx context.Context, part *model.Part) error {
	args := m.Called(ctx, part)
	return args.Error(0)
}

func (m *MockPartRepository) Update(ctx context.Context, part *model.Part) error {
	args := m.Called(ctx, part)
	return args.Error(0)
}

func (m *MockPartRepository) FindByID(ctx context.Context, id uint) (*model.Part, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Part), args.Error(1)
}

func (m *MockPartRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Part, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Part), args.Error(1)
}

func (m *MockPartRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPartRepository) ListByUser(ctx context.Context, userID uint, status string) ([]model.Part, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Part), args.Error(1)
}

func (m *MockPartRepository) ListUnsold(ctx context.Context, filter repository.PartFilter) ([]repository.PartWithCode, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]repository.PartWithCode), args.Get(1).(int64), args.Error(2)
}

// WithTransaction runs fn against the mock itself so the updates inside
// the transaction hit the recorded expectations.
func (m *MockPartRepository) WithTransaction(ctx context.Context, fn func(repo repository.PartRepository) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ListConsigners(ctx context.Context, filter repository.ConsignerFilter) ([]model.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CodeTaken(ctx context.Context, code string, excludeID uint) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) DeleteWithParts(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInvoiceInfoRepository is a mock implementation of InvoiceInfoRepository.
type MockInvoiceInfoRepository struct {
	mock.Mock
}

func (m *MockInvoiceInfoRepository) Get(ctx context.Context) (*model.InvoiceInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InvoiceInfo), args.Error(1)
}

func (m *MockInvoiceInfoRepository) Upsert(ctx context.Context, info *model.InvoiceInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcome(user *model.User, tempPassword string) error {
	args := m.Called(user, tempPassword)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordReset(email, resetURL string) error {
	args := m.Called(email, resetURL)
	return args.Error(0)
}

func (m *MockMailer) SendPartSold(consigner *model.User, part *model.Part) error {
	args := m.Called(consigner, part)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) IssueResetToken(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	assert.NoError(t, err)
	return d
}

func nullDec(t *testing.T, s string) decimal.NullDecimal {
	t.Helper()
	return decimal.NullDecimal{Decimal: dec(t, s), Valid: true}
}
