package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// FieldError is one human-readable validation message. Label is empty for
// form-level problems.
type FieldError struct {
	Label   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Label == "" {
		return e.Message
	}
	return e.Label + ": " + e.Message
}

// Validate checks a definition is ready to publish. The result is nil or a
// *multierror.Error of *FieldError; the caller decides whether to block.
func Validate(form Form) error {
	var errs *multierror.Error

	if strings.TrimSpace(form.Topic) == "" {
		errs = multierror.Append(errs, &FieldError{Message: "Topic is required"})
	}
	if strings.TrimSpace(form.Description) == "" {
		errs = multierror.Append(errs, &FieldError{Message: "Description is required"})
	}
	if len(form.Categories) == 0 {
		errs = multierror.Append(errs, &FieldError{Message: "At least one category is required"})
	}
	for _, c := range form.Categories {
		if strings.Contains(c, categorySeparator) {
			errs = multierror.Append(errs, &FieldError{
				Message: fmt.Sprintf("Category %q must not contain %q", c, categorySeparator),
			})
		}
	}
	if len(form.Fields) == 0 {
		errs = multierror.Append(errs, &FieldError{Message: "Form has no fields. Please add at least one field."})
	}

	for i, f := range form.Fields {
		errs = multierror.Append(errs, ValidateField(f, i)...)
	}

	return errs.ErrorOrNil()
}

// ValidateField returns the problems of the field at position i.
func ValidateField(f Field, i int) []error {
	label := f.Label
	if strings.TrimSpace(label) == "" {
		label = fmt.Sprintf("Field %d", i+1)
	}
	fail := func(format string, args ...any) error {
		return &FieldError{Label: label, Message: fmt.Sprintf(format, args...)}
	}

	var errs []error
	if strings.TrimSpace(f.Label) == "" {
		errs = append(errs, fail("Label is required"))
	}
	if !f.Type.Valid() {
		errs = append(errs, fail("unknown field type %q", f.Type))
	}

	switch f.Type {
	case Selection:
		if len(f.Choices()) == 0 {
			errs = append(errs, fail("Selection fields must have at least one option"))
		}
	case Array:
		errs = append(errs, validateArrayConfig(f.ArrayConfig, fail)...)
	}
	return errs
}

func validateArrayConfig(cfg *ArrayConfig, fail func(string, ...any) error) []error {
	if cfg == nil {
		return []error{fail("Array fields need an item configuration")}
	}
	var errs []error
	if !cfg.ItemType.Valid() {
		errs = append(errs, fail("unknown array item type %q", cfg.ItemType))
	}
	if cfg.MinItems < 0 {
		errs = append(errs, fail("minimum items must be 0 or more"))
	}
	if cfg.MaxItems < 1 {
		errs = append(errs, fail("maximum items must be 1 or more"))
	}
	if cfg.MaxItems < cfg.MinItems {
		errs = append(errs, fail("maximum items (%d) is lower than minimum items (%d)", cfg.MaxItems, cfg.MinItems))
	}
	return errs
}

func ValidatePublish(p PublishSettings) error {
	switch p.ShareSetting {
	case Public:
		return nil
	case Private:
		if strings.TrimSpace(p.AccessCode) == "" {
			return &FieldError{Message: "Access code is required for private forms"}
		}
		return nil
	}
	return &FieldError{Message: fmt.Sprintf("unknown share setting %q", p.ShareSetting)}
}

// Messages flattens a validation error into display strings.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		msgs := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}

// Normalize folds the legacy options alias into selections, trims
// author-entered text, drops blank or repeated categories and gives
// unsaved fields a positional id.
func Normalize(form Form) Form {
	out := form

	seen := make(map[string]bool, len(form.Categories))
	out.Categories = make([]string, 0, len(form.Categories))
	for _, c := range form.Categories {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out.Categories = append(out.Categories, c)
	}

	out.Fields = make([]Field, len(form.Fields))
	for i, f := range form.Fields {
		f.Label = strings.TrimSpace(f.Label)
		f.Category = strings.TrimSpace(f.Category)
		f.Selections = f.Choices()
		f.Options = nil
		if f.ArrayConfig != nil {
			cfg := *f.ArrayConfig
			f.ArrayConfig = &cfg
		}
		if f.ID == "" {
			f.ID = fmt.Sprintf("field-%d", i)
		}
		out.Fields[i] = f
	}
	return out
}
