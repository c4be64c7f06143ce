package service

import (
	"context"
	"errors"
	"sync"
	"time"

	exhibitionerrors "expostall/internal/exhibitions/errors"
	"expostall/internal/exhibitions/repository"
	"expostall/internal/exhibitions/validator"
	"expostall/pkg/config"
	apperrors "expostall/pkg/errors"
	"expostall/pkg/logger"
	"expostall/pkg/model"
	"expostall/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ExhibitionService interface {
	Create(ctx context.Context, exhibition *model.Exhibition) error
	GetByID(ctx context.Context, id string) (*model.Exhibition, error)
	GetBySlug(ctx context.Context, slug string) (*model.Exhibition, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Exhibition, int64, error)
	Update(ctx context.Context, id string, update *model.ExhibitionUpdate) (*model.Exhibition, error)
	Delete(ctx context.Context, id string) error
}

type exhibitionService struct {
	repo       repository.ExhibitionRepository
	layoutRepo repository.LayoutRepository
	validator  *validator.ExhibitionValidator
	cfg        *config.Config
	logger     *logger.Logger
}

func NewExhibitionService(
	repo repository.ExhibitionRepository,
	layoutRepo repository.LayoutRepository,
	exhibitionValidator *validator.ExhibitionValidator,
	cfg *config.Config,
	log *logger.Logger,
) ExhibitionService {
	return &exhibitionService{
		repo:       repo,
		layoutRepo: layoutRepo,
		validator:  exhibitionValidator,
		cfg:        cfg,
		logger:     log,
	}
}

func (s *exhibitionService) Create(ctx context.Context, exhibition *model.Exhibition) error {
	s.sanitize(exhibition)

	if exhibition.Status == "" {
		exhibition.Status = model.ExhibitionDraft
	}
	if exhibition.Slug == "" {
		exhibition.Slug = sanitizer.SanitizeSlug(exhibition.Name)
	}

	if err := s.validator.ValidateExhibition(exhibition); err != nil {
		s.logger.Warn("exhibition validation failed", "name", exhibition.Name, "error", err)
		return apperrors.Validation(err.Error(), nil)
	}

	if err := s.repo.Create(ctx, exhibition); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("an exhibition with this slug already exists")
		}
		s.logger.Error("failed to create exhibition", "name", exhibition.Name, "error", err)
		return apperrors.Internal("failed to create exhibition", err)
	}

	s.logger.Info("exhibition created",
		"id", exhibition.ID,
		"name", exhibition.Name,
		"slug", exhibition.Slug,
		"status", exhibition.Status)

	return nil
}

func (s *exhibitionService) GetByID(ctx context.Context, id string) (*model.Exhibition, error) {
	exhibition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}
	return exhibition, nil
}

func (s *exhibitionService) GetBySlug(ctx context.Context, slug string) (*model.Exhibition, error) {
	slug = sanitizer.SanitizeSlug(slug)
	if slug == "" {
		return nil, apperrors.InvalidInput("slug cannot be empty")
	}

	exhibition, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, s.translateLookupError(err, slug)
	}
	return exhibition, nil
}

func (s *exhibitionService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Exhibition, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		wg          sync.WaitGroup
		exhibitions []*model.Exhibition
		total       int64
		findErr     error
		countErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		exhibitions, findErr = s.repo.FindAll(ctx, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.Count(ctx)
	}()
	wg.Wait()

	if findErr != nil {
		s.logger.Error("failed to list exhibitions", "error", findErr)
		return nil, 0, apperrors.Internal("failed to list exhibitions", findErr)
	}
	if countErr != nil {
		s.logger.Error("failed to count exhibitions", "error", countErr)
		return nil, 0, apperrors.Internal("failed to count exhibitions", countErr)
	}

	return exhibitions, total, nil
}

func (s *exhibitionService) Update(ctx context.Context, id string, update *model.ExhibitionUpdate) (*model.Exhibition, error) {
	if err := s.validator.ValidateExhibitionUpdate(update); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	fields := updateFields(update)
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("no fields to update")
	}
	fields["updated_at"] = time.Now()

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, s.translateLookupError(err, id)
	}

	exhibition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}

	s.logger.Info("exhibition updated", "id", id)

	return exhibition, nil
}

// Delete removes the exhibition together with its layout. Bookings keep
// their snapshots; they reference the exhibition by id only.
func (s *exhibitionService) Delete(ctx context.Context, id string) error {
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return err
		}
		if err := s.layoutRepo.Delete(sessCtx, id); err != nil && !errors.Is(err, exhibitionerrors.ErrLayoutNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return s.translateLookupError(err, id)
	}

	s.logger.Info("exhibition deleted", "id", id)

	return nil
}

func (s *exhibitionService) sanitize(exhibition *model.Exhibition) {
	exhibition.Name = sanitizer.SanitizeName(exhibition.Name)
	exhibition.Slug = sanitizer.SanitizeSlug(exhibition.Slug)
	exhibition.Description = sanitizer.SanitizeFreeText(exhibition.Description)
	exhibition.Venue = sanitizer.SanitizeName(exhibition.Venue)
	exhibition.InvoicePrefix = sanitizer.SanitizeName(exhibition.InvoicePrefix)
}

func (s *exhibitionService) translateLookupError(err error, id string) error {
	switch {
	case errors.Is(err, exhibitionerrors.ErrNotFound):
		return apperrors.NotFoundWithID("exhibition", id)
	case errors.Is(err, exhibitionerrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid exhibition ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		s.logger.Error("exhibition lookup failed", "id", id, "error", err)
		return apperrors.Internal("exhibition lookup failed", err)
	}
}

func updateFields(update *model.ExhibitionUpdate) bson.M {
	fields := bson.M{}

	if update.Name != nil {
		fields["name"] = sanitizer.SanitizeName(*update.Name)
	}
	if update.Description != nil {
		fields["description"] = sanitizer.SanitizeFreeText(*update.Description)
	}
	if update.Venue != nil {
		fields["venue"] = sanitizer.SanitizeName(*update.Venue)
	}
	if update.Status != "" {
		fields["status"] = update.Status
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}
	if update.StartDate != nil {
		fields["start_date"] = *update.StartDate
	}
	if update.EndDate != nil {
		fields["end_date"] = *update.EndDate
	}
	if update.StallRates != nil {
		fields["stall_rates"] = *update.StallRates
	}
	if update.TaxConfig != nil {
		fields["tax_config"] = *update.TaxConfig
	}
	if update.DiscountConfig != nil {
		fields["discount_config"] = *update.DiscountConfig
	}
	if update.PublicDiscountConfig != nil {
		fields["public_discount_config"] = *update.PublicDiscountConfig
	}
	if update.BasicAmenities != nil {
		fields["basic_amenities"] = *update.BasicAmenities
	}
	if update.ExtraAmenities != nil {
		fields["extra_amenities"] = *update.ExtraAmenities
	}
	if update.InvoicePrefix != nil {
		fields["invoice_prefix"] = sanitizer.SanitizeName(*update.InvoicePrefix)
	}

	return fields
}
