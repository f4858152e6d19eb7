package element

import (
	"fmt"

	"github.com/google/uuid"
)

// NewDefault builds a freshly-identified element with placeholder content for
// the given type. Used when a block is added from the palette.
func NewDefault(t Type) (Element, error) {
	el := Element{
		ID:   uuid.New().String(),
		Type: t,
	}

	switch t {
	case TypeHeader:
		el.Content = HeaderContent{
			Title:           "Your headline goes here",
			Subtitle:        "A subtitle that explains the offer",
			Alignment:       AlignCenter,
			BackgroundColor: "#f8fafc",
			TextColor:       "#0f172a",
		}
	case TypeText:
		el.Content = TextContent{
			Text:            "Add your text here...",
			Alignment:       AlignLeft,
			BackgroundColor: "#ffffff",
			TextColor:       "#0f172a",
		}
	case TypeCTA:
		el.Content = CTAContent{
			ButtonText:      "Sign up now",
			ButtonColor:     "#3b82f6",
			ButtonTextColor: "#ffffff",
			BackgroundColor: "#ffffff",
			Alignment:       AlignCenter,
			Link:            "#",
		}
	case TypeImage:
		el.Content = ImageContent{
			ImageURL:        "https://via.placeholder.com/800x400",
			AltText:         "Image description",
			Alignment:       AlignCenter,
			BackgroundColor: "#ffffff",
		}
	case TypeVideo:
		el.Content = VideoContent{
			VideoURL:        "https://www.youtube.com/embed/dQw4w9WgXcQ",
			Alignment:       AlignCenter,
			BackgroundColor: "#ffffff",
		}
	case TypeForm:
		el.Content = FormContent{
			Fields: []FormField{
				{ID: uuid.New().String(), Type: FieldText, Label: "Full name", Placeholder: "Enter your full name", Required: true},
				{ID: uuid.New().String(), Type: FieldEmail, Label: "Email", Placeholder: "Enter your email", Required: true},
			},
			ButtonText:      "Send",
			ButtonColor:     "#3b82f6",
			ButtonTextColor: "#ffffff",
			BackgroundColor: "#ffffff",
			Alignment:       AlignCenter,
		}
	default:
		return Element{}, fmt.Errorf("unknown element type '%s'", t)
	}

	return el, nil
}
