package element

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Type tags the closed set of content blocks a funnel page is built from.
// Adding a type means adding a content struct and extending every switch
// in this package; there is no generic fallback.
type Type string

const (
	TypeHeader Type = "header"
	TypeText   Type = "text"
	TypeCTA    Type = "cta"
	TypeImage  Type = "image"
	TypeVideo  Type = "video"
	TypeForm   Type = "form"
)

func (t Type) Valid() bool {
	switch t {
	case TypeHeader, TypeText, TypeCTA, TypeImage, TypeVideo, TypeForm:
		return true
	}
	return false
}

// Element is one block in a funnel document. The ID is minted once and never
// changes; duplication always produces a fresh ID.
type Element struct {
	ID      string  `json:"id"`
	Type    Type    `json:"type"`
	Content Content `json:"content"`
}

// Content is implemented by exactly the six per-type payload structs.
type Content interface {
	contentType() Type
}

func (HeaderContent) contentType() Type { return TypeHeader }
func (TextContent) contentType() Type   { return TypeText }
func (CTAContent) contentType() Type    { return TypeCTA }
func (ImageContent) contentType() Type  { return TypeImage }
func (VideoContent) contentType() Type  { return TypeVideo }
func (FormContent) contentType() Type   { return TypeForm }

type envelope struct {
	ID      string          `json:"id"`
	Type    Type            `json:"type"`
	Content json.RawMessage `json:"content"`
}

// UnmarshalJSON decodes the type tag first and then the matching content
// struct. Unknown tags and mismatched payloads are rejected rather than kept
// as loose maps.
func (e *Element) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	content, err := DecodeContent(env.Type, env.Content)
	if err != nil {
		return err
	}

	e.ID = env.ID
	e.Type = env.Type
	e.Content = content
	return nil
}

// DecodeContent decodes a raw content payload against a type tag.
func DecodeContent(t Type, raw json.RawMessage) (Content, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("element content is required")
	}

	switch t {
	case TypeHeader:
		var c HeaderContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case TypeText:
		var c TextContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case TypeCTA:
		var c CTAContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case TypeImage:
		var c ImageContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case TypeVideo:
		var c VideoContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case TypeForm:
		var c FormContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown element type '%s'", t)
	}
}

// Clone returns a deep copy with a fresh element ID. Form fields get fresh
// IDs too; everything else copies verbatim.
func (e Element) Clone() Element {
	dup := Element{
		ID:   uuid.New().String(),
		Type: e.Type,
	}

	switch c := e.Content.(type) {
	case FormContent:
		fields := make([]FormField, len(c.Fields))
		for i, f := range c.Fields {
			f.ID = uuid.New().String()
			fields[i] = f
		}
		c.Fields = fields
		dup.Content = c
	default:
		dup.Content = e.Content
	}

	return dup
}
