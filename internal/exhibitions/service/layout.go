package service

import (
	"context"
	"errors"

	"expostall/internal/bookings/pricing"
	exhibitionerrors "expostall/internal/exhibitions/errors"
	"expostall/internal/exhibitions/repository"
	"expostall/internal/exhibitions/validator"
	"expostall/pkg/config"
	apperrors "expostall/pkg/errors"
	"expostall/pkg/logger"
	"expostall/pkg/model"
	"expostall/pkg/sanitizer"
)

type LayoutService interface {
	Save(ctx context.Context, exhibitionID string, layout *model.Layout) (*model.Layout, error)
	Get(ctx context.Context, exhibitionID string) (*model.Layout, error)
}

type layoutService struct {
	repo           repository.LayoutRepository
	exhibitionRepo repository.ExhibitionRepository
	stallTypeRepo  repository.StallTypeRepository
	validator      *validator.ExhibitionValidator
	cfg            *config.Config
	logger         *logger.Logger
}

func NewLayoutService(
	repo repository.LayoutRepository,
	exhibitionRepo repository.ExhibitionRepository,
	stallTypeRepo repository.StallTypeRepository,
	exhibitionValidator *validator.ExhibitionValidator,
	cfg *config.Config,
	log *logger.Logger,
) LayoutService {
	return &layoutService{
		repo:           repo,
		exhibitionRepo: exhibitionRepo,
		stallTypeRepo:  stallTypeRepo,
		validator:      exhibitionValidator,
		cfg:            cfg,
		logger:         log,
	}
}

// Save validates and persists the layout aggregate for an exhibition.
// Stall rates are resolved at save time so the booking path never has to
// recompute them; statuses of stalls already present in the stored layout
// are carried over so an editor save cannot free a booked stall.
func (s *layoutService) Save(ctx context.Context, exhibitionID string, layout *model.Layout) (*model.Layout, error) {
	exhibition, err := s.exhibitionRepo.FindByID(ctx, exhibitionID)
	if err != nil {
		return nil, s.translateExhibitionError(err, exhibitionID)
	}

	layout.ExhibitionID = exhibitionID
	s.sanitize(layout)

	if err := s.validator.ValidateLayout(layout); err != nil {
		s.logger.Warn("layout validation failed", "exhibition_id", exhibitionID, "error", err)
		return nil, apperrors.Validation(err.Error(), nil)
	}

	if err := s.resolveRates(ctx, exhibition, layout); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByExhibitionID(ctx, exhibitionID)
	if err != nil && !errors.Is(err, exhibitionerrors.ErrLayoutNotFound) {
		s.logger.Error("failed to load existing layout", "exhibition_id", exhibitionID, "error", err)
		return nil, apperrors.Internal("failed to load existing layout", err)
	}
	carryOverStatuses(existing, layout)

	if err := s.repo.Upsert(ctx, layout); err != nil {
		s.logger.Error("failed to save layout", "exhibition_id", exhibitionID, "error", err)
		return nil, apperrors.Internal("failed to save layout", err)
	}

	stallCount := 0
	layout.Walk(func(*model.Stall) { stallCount++ })

	s.logger.Info("layout saved",
		"exhibition_id", exhibitionID,
		"spaces", len(layout.Spaces),
		"stalls", stallCount)

	return layout, nil
}

// Get returns the layout with every stall carrying a usable display rate.
// Stalls persisted before their type's rate was configured get a rate
// resolved on the fly; the stored document is left untouched.
func (s *layoutService) Get(ctx context.Context, exhibitionID string) (*model.Layout, error) {
	layout, err := s.repo.FindByExhibitionID(ctx, exhibitionID)
	if err != nil {
		if errors.Is(err, exhibitionerrors.ErrLayoutNotFound) {
			return nil, apperrors.NotFoundWithID("layout", exhibitionID)
		}
		s.logger.Error("failed to load layout", "exhibition_id", exhibitionID, "error", err)
		return nil, apperrors.Internal("failed to load layout", err)
	}

	needsResolution := false
	layout.Walk(func(st *model.Stall) {
		if !pricing.RateValid(st.RatePerSqm) {
			needsResolution = true
		}
	})
	if !needsResolution {
		return layout, nil
	}

	exhibition, err := s.exhibitionRepo.FindByID(ctx, exhibitionID)
	if err != nil {
		return nil, s.translateExhibitionError(err, exhibitionID)
	}

	stallTypes, err := s.fetchStallTypes(ctx, layout)
	if err != nil {
		return nil, err
	}

	layout.Walk(func(st *model.Stall) {
		if pricing.RateValid(st.RatePerSqm) {
			return
		}
		if stallType, ok := stallTypes[st.StallTypeID]; ok {
			st.RatePerSqm = pricing.ResolveRate(exhibition, stallType)
		}
	})

	return layout, nil
}

func (s *layoutService) resolveRates(ctx context.Context, exhibition *model.Exhibition, layout *model.Layout) error {
	stallTypes, err := s.fetchStallTypes(ctx, layout)
	if err != nil {
		return err
	}

	var missing string
	layout.Walk(func(st *model.Stall) {
		stallType, ok := stallTypes[st.StallTypeID]
		if !ok {
			missing = st.StallTypeID
			return
		}
		st.RatePerSqm = pricing.ResolveRate(exhibition, stallType)
	})
	if missing != "" {
		return apperrors.InvalidInput("unknown stall type: " + missing)
	}

	return nil
}

func (s *layoutService) fetchStallTypes(ctx context.Context, layout *model.Layout) (map[string]*model.StallType, error) {
	seen := make(map[string]bool)
	var ids []string
	layout.Walk(func(st *model.Stall) {
		if st.StallTypeID != "" && !seen[st.StallTypeID] {
			seen[st.StallTypeID] = true
			ids = append(ids, st.StallTypeID)
		}
	})

	stallTypes, err := s.stallTypeRepo.FindByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, exhibitionerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("invalid stall type ID in layout")
		}
		s.logger.Error("failed to fetch stall types", "error", err)
		return nil, apperrors.Internal("failed to fetch stall types", err)
	}

	return stallTypes, nil
}

func (s *layoutService) sanitize(layout *model.Layout) {
	for i := range layout.Spaces {
		layout.Spaces[i].Name = sanitizer.SanitizeName(layout.Spaces[i].Name)
		for j := range layout.Spaces[i].Halls {
			hall := &layout.Spaces[i].Halls[j]
			hall.Name = sanitizer.SanitizeName(hall.Name)
			for k := range hall.Stalls {
				if hall.Stalls[k].Status == "" {
					hall.Stalls[k].Status = model.StallAvailable
				}
			}
		}
	}
}

func (s *layoutService) translateExhibitionError(err error, id string) error {
	switch {
	case errors.Is(err, exhibitionerrors.ErrNotFound):
		return apperrors.NotFoundWithID("exhibition", id)
	case errors.Is(err, exhibitionerrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid exhibition ID format")
	default:
		s.logger.Error("exhibition lookup failed", "id", id, "error", err)
		return apperrors.Internal("exhibition lookup failed", err)
	}
}

// carryOverStatuses keeps the stored status for stalls that survive a
// layout edit. Stalls new to the layout keep what the editor sent.
func carryOverStatuses(existing, incoming *model.Layout) {
	if existing == nil {
		return
	}

	stored := make(map[string]string)
	existing.Walk(func(st *model.Stall) {
		stored[st.ID] = st.Status
	})

	incoming.Walk(func(st *model.Stall) {
		if status, ok := stored[st.ID]; ok {
			st.Status = status
		}
	})
}
