package service

import (
	"context"
	"io"

	"go.uber.org/zap"

	"consignparts/internal/importer"
	"consignparts/internal/model"
	"consignparts/internal/repository"
)

// ImportResult summarizes one bulk import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportService bulk-loads consigners, parts, and the billing entity
// from CSV exports.
type ImportService interface {
	ImportParts(ctx context.Context, r io.Reader) (*ImportResult, error)
	ImportUsers(ctx context.Context, r io.Reader) (*ImportResult, error)
	ImportInvoiceInfo(ctx context.Context, r io.Reader) (*model.InvoiceInfo, error)
}

type importService struct {
	importer *importer.Importer
	parts    repository.PartRepository
	users    repository.UserRepository
	billing  repository.InvoiceInfoRepository
	log      *zap.SugaredLogger
}

// NewImportService creates a new import service.
func NewImportService(
	imp *importer.Importer,
	parts repository.PartRepository,
	users repository.UserRepository,
	billing repository.InvoiceInfoRepository,
	log *zap.SugaredLogger,
) ImportService {
	return &importService{
		importer: imp,
		parts:    parts,
		users:    users,
		billing:  billing,
		log:      log,
	}
}

// ImportParts loads a parts CSV. Field-level problems degrade inside
// the importer; a row is only skipped when the insert itself fails
// (e.g. an unknown owning consigner).
func (s *importService) ImportParts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	parts, err := s.importer.ReadParts(r)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{}
	for i := range parts {
		if err := s.parts.Create(ctx, &parts[i]); err != nil {
			s.log.Warnw("part import row failed",
				"part_number", parts[i].PartNumber, "user_id", parts[i].UserID, "error", err)
			res.Skipped++
			continue
		}
		res.Imported++
	}
	return res, nil
}

// ImportInvoiceInfo loads the billing-entity CSV and replaces the
// singleton billing record.
func (s *importService) ImportInvoiceInfo(ctx context.Context, r io.Reader) (*model.InvoiceInfo, error) {
	info, err := s.importer.ReadInvoiceInfo(r)
	if err != nil {
		return nil, err
	}
	if err := s.billing.Upsert(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

// ImportUsers loads a users CSV. Rows without identity fields are
// skipped by the importer; rows colliding with an existing email or
// code are skipped here.
func (s *importService) ImportUsers(ctx context.Context, r io.Reader) (*ImportResult, error) {
	users, skipped, err := s.importer.ReadUsers(r)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Skipped: skipped}
	for i := range users {
		if err := s.users.Create(ctx, &users[i]); err != nil {
			s.log.Warnw("user import row failed",
				"email", users[i].Email, "code", users[i].Code, "error", err)
			res.Skipped++
			continue
		}
		res.Imported++
	}
	return res, nil
}
