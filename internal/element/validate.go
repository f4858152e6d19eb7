package element

import (
	"fmt"
	"net/url"
)

// Validate checks that an element's content matches the shape required by its
// type tag. The content struct itself guarantees the field set; this checks
// the value-level constraints.
func Validate(e Element) error {
	if e.ID == "" {
		return fmt.Errorf("element id is required")
	}
	if !e.Type.Valid() {
		return fmt.Errorf("unknown element type '%s'", e.Type)
	}
	if e.Content == nil {
		return fmt.Errorf("element '%s' has no content", e.ID)
	}
	if e.Content.contentType() != e.Type {
		return fmt.Errorf("element '%s' content does not match type '%s'", e.ID, e.Type)
	}

	switch c := e.Content.(type) {
	case HeaderContent:
		return validateAlignment(e.ID, c.Alignment)

	case TextContent:
		return validateAlignment(e.ID, c.Alignment)

	case CTAContent:
		if c.ButtonText == "" {
			return fmt.Errorf("element '%s': buttonText is required", e.ID)
		}
		return validateAlignment(e.ID, c.Alignment)

	case ImageContent:
		if err := validateURL(e.ID, "imageUrl", c.ImageURL); err != nil {
			return err
		}
		return validateAlignment(e.ID, c.Alignment)

	case VideoContent:
		if err := validateURL(e.ID, "videoUrl", c.VideoURL); err != nil {
			return err
		}
		return validateAlignment(e.ID, c.Alignment)

	case FormContent:
		if len(c.Fields) == 0 {
			return fmt.Errorf("element '%s': form needs at least one field", e.ID)
		}
		seen := make(map[string]bool, len(c.Fields))
		for _, f := range c.Fields {
			if f.ID == "" {
				return fmt.Errorf("element '%s': form field id is required", e.ID)
			}
			if seen[f.ID] {
				return fmt.Errorf("element '%s': duplicate form field id '%s'", e.ID, f.ID)
			}
			seen[f.ID] = true
			if !ValidFieldType(f.Type) {
				return fmt.Errorf("element '%s': invalid form field type '%s'", e.ID, f.Type)
			}
			if f.Label == "" {
				return fmt.Errorf("element '%s': form field label is required", e.ID)
			}
		}
		return validateAlignment(e.ID, c.Alignment)
	}

	return nil
}

func validateAlignment(id, alignment string) error {
	switch alignment {
	case AlignLeft, AlignCenter, AlignRight:
		return nil
	}
	return fmt.Errorf("element '%s': alignment must be left, center or right", id)
}

func validateURL(id, field, value string) error {
	if value == "" {
		return fmt.Errorf("element '%s': %s is required", id, field)
	}
	if _, err := url.ParseRequestURI(value); err != nil {
		return fmt.Errorf("element '%s': %s must be a valid URL", id, field)
	}
	return nil
}
