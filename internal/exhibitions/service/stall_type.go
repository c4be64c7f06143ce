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
)

type StallTypeService interface {
	Create(ctx context.Context, stallType *model.StallType) error
	GetByID(ctx context.Context, id string) (*model.StallType, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.StallType, int64, error)
	Update(ctx context.Context, id string, update *model.StallTypeUpdate) (*model.StallType, error)
	Delete(ctx context.Context, id string) error
}

type stallTypeService struct {
	repo      repository.StallTypeRepository
	validator *validator.ExhibitionValidator
	cfg       *config.Config
	logger    *logger.Logger
}

func NewStallTypeService(
	repo repository.StallTypeRepository,
	exhibitionValidator *validator.ExhibitionValidator,
	cfg *config.Config,
	log *logger.Logger,
) StallTypeService {
	return &stallTypeService{
		repo:      repo,
		validator: exhibitionValidator,
		cfg:       cfg,
		logger:    log,
	}
}

func (s *stallTypeService) Create(ctx context.Context, stallType *model.StallType) error {
	stallType.Name = sanitizer.SanitizeName(stallType.Name)
	stallType.Description = sanitizer.SanitizeFreeText(stallType.Description)

	if err := s.validator.ValidateStallType(stallType); err != nil {
		return apperrors.Validation(err.Error(), nil)
	}

	if err := s.repo.Create(ctx, stallType); err != nil {
		s.logger.Error("failed to create stall type", "name", stallType.Name, "error", err)
		return apperrors.Internal("failed to create stall type", err)
	}

	s.logger.Info("stall type created",
		"id", stallType.ID,
		"name", stallType.Name,
		"rate_type", stallType.RateType)

	return nil
}

func (s *stallTypeService) GetByID(ctx context.Context, id string) (*model.StallType, error) {
	stallType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}
	return stallType, nil
}

func (s *stallTypeService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.StallType, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		wg         sync.WaitGroup
		stallTypes []*model.StallType
		total      int64
		findErr    error
		countErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		stallTypes, findErr = s.repo.FindAll(ctx, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.Count(ctx)
	}()
	wg.Wait()

	if findErr != nil {
		s.logger.Error("failed to list stall types", "error", findErr)
		return nil, 0, apperrors.Internal("failed to list stall types", findErr)
	}
	if countErr != nil {
		s.logger.Error("failed to count stall types", "error", countErr)
		return nil, 0, apperrors.Internal("failed to count stall types", countErr)
	}

	return stallTypes, total, nil
}

func (s *stallTypeService) Update(ctx context.Context, id string, update *model.StallTypeUpdate) (*model.StallType, error) {
	if err := s.validator.ValidateStallTypeUpdate(update); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	fields := bson.M{}
	if update.Name != nil {
		fields["name"] = sanitizer.SanitizeName(*update.Name)
	}
	if update.Description != nil {
		fields["description"] = sanitizer.SanitizeFreeText(*update.Description)
	}
	if update.DefaultSize != nil {
		fields["default_size"] = *update.DefaultSize
	}
	if update.DefaultRate != nil {
		fields["default_rate"] = *update.DefaultRate
	}
	if update.RateType != "" {
		fields["rate_type"] = update.RateType
	}
	if update.Color != nil {
		fields["color"] = *update.Color
	}
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("no fields to update")
	}
	fields["updated_at"] = time.Now()

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, s.translateLookupError(err, id)
	}

	stallType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}

	s.logger.Info("stall type updated", "id", id)

	return stallType, nil
}

func (s *stallTypeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateLookupError(err, id)
	}

	s.logger.Info("stall type deleted", "id", id)

	return nil
}

func (s *stallTypeService) translateLookupError(err error, id string) error {
	switch {
	case errors.Is(err, exhibitionerrors.ErrStallTypeNotFound):
		return apperrors.NotFoundWithID("stall type", id)
	case errors.Is(err, exhibitionerrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid stall type ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		s.logger.Error("stall type lookup failed", "id", id, "error", err)
		return apperrors.Internal("stall type lookup failed", err)
	}
}
