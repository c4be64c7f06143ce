package validator

import (
	"errors"
	"fmt"
	"strings"

	"expostall/pkg/logger"
	"expostall/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ExhibitionValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewExhibitionValidator(log *logger.Logger) *ExhibitionValidator {
	return &ExhibitionValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ExhibitionValidator) ValidateExhibition(exhibition *model.Exhibition) error {
	if err := v.validate.Struct(exhibition); err != nil {
		return v.translate(err)
	}
	return v.validateDiscounts(exhibition.DiscountConfig, exhibition.PublicDiscountConfig)
}

func (v *ExhibitionValidator) ValidateExhibitionUpdate(update *model.ExhibitionUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		return v.translate(err)
	}
	if update.StartDate != nil && update.EndDate != nil && !update.EndDate.After(*update.StartDate) {
		return ValidationErrors{
			ValidationError{Field: "EndDate", Message: "EndDate must be after StartDate"},
		}
	}
	if update.DiscountConfig != nil || update.PublicDiscountConfig != nil {
		var admin, public []model.DiscountOption
		if update.DiscountConfig != nil {
			admin = *update.DiscountConfig
		}
		if update.PublicDiscountConfig != nil {
			public = *update.PublicDiscountConfig
		}
		return v.validateDiscounts(admin, public)
	}
	return nil
}

func (v *ExhibitionValidator) ValidateLayout(layout *model.Layout) error {
	if err := v.validate.Struct(layout); err != nil {
		return v.translate(err)
	}

	// Stall ids and numbers must be unique across the whole aggregate;
	// struct tags only see one slice level at a time.
	seenIDs := make(map[string]bool)
	seenNumbers := make(map[string]bool)
	var dup ValidationErrors
	layout.Walk(func(st *model.Stall) {
		if seenIDs[st.ID] {
			dup = append(dup, ValidationError{
				Field:   "Stall.ID",
				Message: fmt.Sprintf("duplicate stall id %q", st.ID),
			})
		}
		seenIDs[st.ID] = true

		if st.Number != "" && seenNumbers[st.Number] {
			dup = append(dup, ValidationError{
				Field:   "Stall.Number",
				Message: fmt.Sprintf("duplicate stall number %q", st.Number),
			})
		}
		seenNumbers[st.Number] = true

		if st.Shape == model.ShapeLShape && st.Dimensions == nil &&
			(st.Size.Rect1Width <= 0 || st.Size.Rect2Width <= 0) {
			dup = append(dup, ValidationError{
				Field:   "Stall.Size",
				Message: fmt.Sprintf("l-shape stall %q needs both rectangle segments", st.ID),
			})
		}
	})
	if len(dup) > 0 {
		return dup
	}

	return nil
}

func (v *ExhibitionValidator) ValidateStallType(stallType *model.StallType) error {
	if err := v.validate.Struct(stallType); err != nil {
		return v.translate(err)
	}
	return nil
}

func (v *ExhibitionValidator) ValidateStallTypeUpdate(update *model.StallTypeUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		return v.translate(err)
	}
	return nil
}

// validateDiscounts enforces per-list unique names and sane values; a
// percentage discount above 100 would price stalls negative.
func (v *ExhibitionValidator) validateDiscounts(lists ...[]model.DiscountOption) error {
	var errs ValidationErrors
	for _, list := range lists {
		seen := make(map[string]bool, len(list))
		for _, opt := range list {
			if seen[opt.Name] {
				errs = append(errs, ValidationError{
					Field:   "DiscountConfig",
					Message: fmt.Sprintf("duplicate discount name %q", opt.Name),
				})
			}
			seen[opt.Name] = true

			if opt.Type == model.DiscountPercentage && opt.Value > 100 {
				errs = append(errs, ValidationError{
					Field:   "DiscountConfig",
					Message: fmt.Sprintf("percentage discount %q exceeds 100", opt.Name),
				})
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *ExhibitionValidator) translate(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var out ValidationErrors
	for _, fe := range validationErrs {
		message := fe.Error()
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fe.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", fe.Field(), fe.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", fe.Field())
		}
		out = append(out, ValidationError{Field: fe.Field(), Message: message})
	}
	return out
}
