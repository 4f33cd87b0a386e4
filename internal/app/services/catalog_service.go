package services

import (
	"context"
	"errors"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories"
	"github.com/yigit/admission/internal/pkg/apperrors"
)

// CatalogService serves read-only university, major and exam lookups
type CatalogService struct {
	catalogRepo repositories.ICatalogRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(catalogRepo repositories.ICatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

// ListUniversities returns active universities ordered by code
func (s *CatalogService) ListUniversities(ctx context.Context) ([]*models.University, error) {
	universities, err := s.catalogRepo.ListUniversities(ctx, true)
	if err != nil {
		return nil, storageError("Failed to list universities", err)
	}
	return universities, nil
}

// ListMajors returns the majors offered by a university
func (s *CatalogService) ListMajors(ctx context.Context, universityID int64) ([]*models.Major, error) {
	if universityID <= 0 {
		return nil, apperrors.NewValidationError("id", "University ID must be positive")
	}
	if _, err := s.catalogRepo.GetUniversityByID(ctx, universityID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(apperrors.ReasonUniversityNotFound, "University not found")
		}
		return nil, storageError("Failed to load university", err)
	}

	majors, err := s.catalogRepo.ListMajorsByUniversity(ctx, universityID)
	if err != nil {
		return nil, storageError("Failed to list majors", err)
	}
	return majors, nil
}

// ActiveExam returns the latest exam open for registration
func (s *CatalogService) ActiveExam(ctx context.Context) (*models.Exam, error) {
	exam, err := s.catalogRepo.GetActiveExam(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(apperrors.ReasonNoActiveExam, "No exam is open for registration")
	}
	if err != nil {
		return nil, storageError("Failed to load active exam", err)
	}
	return exam, nil
}
