package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/outfitcult/internal/storage"
)

var validate = validator.New()

// MaxAltTextLength bounds each image's alt text.
const MaxAltTextLength = 200

// ValidationError carries field-level messages for the form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, e.Fields[key]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

type draftFields struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"required,max=500"`
	Content     string `validate:"required"`
	AuthorName  string `validate:"max=100"`
}

var fieldLabels = map[string]struct {
	key   string
	label string
}{
	"Title":       {"title", "Title"},
	"Description": {"description", "Description"},
	"Content":     {"content", "Content"},
	"AuthorName":  {"author_name", "Author name"},
}

// normalizeDraft trims text fields and validates them together with every
// attached file. Nothing is uploaded before this passes.
func normalizeDraft(input *DraftInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Content = strings.TrimSpace(input.Content)
	input.AuthorName = strings.TrimSpace(input.AuthorName)
	for i := range input.AltTexts {
		input.AltTexts[i] = strings.TrimSpace(input.AltTexts[i])
	}

	fields := map[string]string{}

	err := validate.Struct(draftFields{
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		AuthorName:  input.AuthorName,
	})
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			meta := fieldLabels[fe.Field()]
			fields[meta.key] = fieldMessage(meta.label, fe)
		}
	} else if err != nil {
		return err
	}

	for i, alt := range input.AltTexts {
		if verr := validate.Var(alt, fmt.Sprintf("max=%d", MaxAltTextLength)); verr != nil {
			fields["alt_texts"] = fmt.Sprintf("Alt text %d must be less than %d characters", i+1, MaxAltTextLength)
			break
		}
	}

	if input.Featured != nil {
		if ferr := storage.ValidateImage(input.Featured); ferr != nil {
			fields["featured_image"] = ferr.Error()
		}
	}
	for i := range input.Images {
		if ferr := storage.ValidateImage(&input.Images[i]); ferr != nil {
			fields["images"] = fmt.Sprintf("%s: %s", input.Images[i].Name, ferr.Error())
			break
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func fieldMessage(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be less than %s characters", label, fe.Param())
	default:
		return label + " is invalid"
	}
}
