package element

const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

type HeaderContent struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	Alignment       string `json:"alignment"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
}

type TextContent struct {
	Text            string `json:"text"`
	Alignment       string `json:"alignment"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
}

type CTAContent struct {
	ButtonText      string `json:"buttonText"`
	ButtonColor     string `json:"buttonColor"`
	ButtonTextColor string `json:"buttonTextColor"`
	BackgroundColor string `json:"backgroundColor"`
	Alignment       string `json:"alignment"`
	Link            string `json:"link,omitempty"`
}

type ImageContent struct {
	ImageURL        string `json:"imageUrl"`
	AltText         string `json:"altText"`
	Alignment       string `json:"alignment"`
	BackgroundColor string `json:"backgroundColor"`
	Caption         string `json:"caption,omitempty"`
}

type VideoContent struct {
	VideoURL        string `json:"videoUrl"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	Alignment       string `json:"alignment"`
	BackgroundColor string `json:"backgroundColor"`
	Caption         string `json:"caption,omitempty"`
}

type FormContent struct {
	Fields          []FormField `json:"fields"`
	ButtonText      string      `json:"buttonText"`
	ButtonColor     string      `json:"buttonColor"`
	ButtonTextColor string      `json:"buttonTextColor"`
	BackgroundColor string      `json:"backgroundColor"`
	Alignment       string      `json:"alignment"`
	FormTitle       string      `json:"formTitle,omitempty"`
}

// FormField is one input inside a form element. Field IDs are unique within
// the owning form.
type FormField struct {
	ID          string `json:"id"`
	Type        string `json:"type"` // text, email, phone, textarea, checkbox
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
}

const (
	FieldText     = "text"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldTextarea = "textarea"
	FieldCheckbox = "checkbox"
)

func ValidFieldType(t string) bool {
	switch t {
	case FieldText, FieldEmail, FieldPhone, FieldTextarea, FieldCheckbox:
		return true
	}
	return false
}
