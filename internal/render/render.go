// Package render projects a funnel document into a display tree. The same
// projection backs the editor canvas, the device preview and the public page;
// mode only toggles editing affordances and device only constrains layout
// width — content is identical everywhere.
package render

import (
	"github.com/funnelforge/api/internal/document"
	"github.com/funnelforge/api/internal/element"
)

type Mode string

const (
	ModeEdit    Mode = "edit"
	ModePreview Mode = "preview"
	ModePublic  Mode = "public"
)

type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceTablet  Device = "tablet"
	DeviceMobile  Device = "mobile"
)

func (d Device) Valid() bool {
	switch d {
	case DeviceDesktop, DeviceTablet, DeviceMobile:
		return true
	}
	return false
}

// MaxWidth is the canvas width constraint in pixels; 0 means unconstrained.
func (d Device) MaxWidth() int {
	switch d {
	case DeviceTablet:
		return 768
	case DeviceMobile:
		return 375
	}
	return 0
}

// Node is one box in the display tree. Text carries sanitized HTML when
// RawHTML is set, plain text otherwise.
type Node struct {
	Tag      string            `json:"tag"`
	Text     string            `json:"text,omitempty"`
	RawHTML  bool              `json:"raw_html,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Style    map[string]string `json:"style,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// ElementNode is the root box of one funnel element, with the editing state
// the canvas needs in edit mode.
type ElementNode struct {
	ElementID string       `json:"element_id"`
	Type      element.Type `json:"type"`
	Selected  bool         `json:"selected,omitempty"`
	Editable  bool         `json:"editable,omitempty"`
	Controls  *Controls    `json:"controls,omitempty"`
	Box       *Node        `json:"box"`
}

// Controls is the floating cluster shown on the selected element. Move
// buttons are disabled at the boundaries.
type Controls struct {
	MoveUp    bool `json:"move_up"`
	MoveDown  bool `json:"move_down"`
	Duplicate bool `json:"duplicate"`
	Delete    bool `json:"delete"`
	Settings  bool `json:"settings"`
}

// Tree is the full projection of one document view.
type Tree struct {
	Mode     Mode           `json:"mode"`
	Device   Device         `json:"device"`
	MaxWidth int            `json:"max_width,omitempty"`
	Elements []*ElementNode `json:"elements"`
}

// Project renders the document for one (mode, device, selection) view.
func Project(doc document.Document, mode Mode, device Device, selectedID string) *Tree {
	tree := &Tree{
		Mode:     mode,
		Device:   device,
		MaxWidth: device.MaxWidth(),
		Elements: make([]*ElementNode, 0, len(doc.Elements)),
	}

	for i, el := range doc.Elements {
		node := &ElementNode{
			ElementID: el.ID,
			Type:      el.Type,
			Box:       elementBox(el),
		}

		if mode == ModeEdit {
			node.Selected = el.ID == selectedID
			node.Editable = node.Selected
			if node.Selected {
				node.Controls = &Controls{
					MoveUp:    i > 0,
					MoveDown:  i < len(doc.Elements)-1,
					Duplicate: true,
					Delete:    true,
					Settings:  true,
				}
			}
		}

		tree.Elements = append(tree.Elements, node)
	}

	return tree
}

func elementBox(el element.Element) *Node {
	switch c := el.Content.(type) {
	case element.HeaderContent:
		return section(c.BackgroundColor, c.Alignment, "3rem 1rem", map[string]string{"color": c.TextColor},
			richNode("h1", c.Title),
			richNode("h2", c.Subtitle),
		)

	case element.TextContent:
		return section(c.BackgroundColor, c.Alignment, "2rem 1rem", map[string]string{"color": c.TextColor},
			richNode("p", c.Text),
		)

	case element.CTAContent:
		button := richNode("a", c.ButtonText)
		button.Style = map[string]string{
			"background-color": c.ButtonColor,
			"color":            c.ButtonTextColor,
		}
		if c.Link != "" {
			button.Attrs = map[string]string{"href": c.Link}
		}
		return section(c.BackgroundColor, c.Alignment, "2rem 1rem", nil, button)

	case element.ImageContent:
		img := &Node{
			Tag:   "img",
			Attrs: map[string]string{"src": c.ImageURL, "alt": c.AltText},
		}
		children := []*Node{img}
		if c.Caption != "" {
			children = append(children, &Node{Tag: "figcaption", Text: c.Caption})
		}
		return section(c.BackgroundColor, c.Alignment, "2rem 1rem", nil, children...)

	case element.VideoContent:
		iframe := &Node{
			Tag:   "iframe",
			Attrs: map[string]string{"src": c.VideoURL, "allowfullscreen": "true"},
		}
		if c.ThumbnailURL != "" {
			iframe.Attrs["poster"] = c.ThumbnailURL
		}
		children := []*Node{iframe}
		if c.Caption != "" {
			children = append(children, &Node{Tag: "figcaption", Text: c.Caption})
		}
		return section(c.BackgroundColor, c.Alignment, "2rem 1rem", nil, children...)

	case element.FormContent:
		form := &Node{Tag: "form", Attrs: map[string]string{"data-element-id": el.ID}}
		if c.FormTitle != "" {
			form.Children = append(form.Children, &Node{Tag: "h3", Text: c.FormTitle})
		}
		for _, f := range c.Fields {
			form.Children = append(form.Children, fieldNode(f))
		}
		submit := richNode("button", c.ButtonText)
		submit.Attrs = map[string]string{"type": "submit"}
		submit.Style = map[string]string{
			"background-color": c.ButtonColor,
			"color":            c.ButtonTextColor,
		}
		form.Children = append(form.Children, submit)
		return section(c.BackgroundColor, c.Alignment, "2rem 1rem", nil, form)
	}

	// Unreachable for validated documents.
	return &Node{Tag: "div"}
}

func fieldNode(f element.FormField) *Node {
	wrapper := &Node{Tag: "label", Text: f.Label}

	var input *Node
	switch f.Type {
	case element.FieldTextarea:
		input = &Node{Tag: "textarea", Attrs: map[string]string{"name": f.ID}}
	case element.FieldCheckbox:
		input = &Node{Tag: "input", Attrs: map[string]string{"name": f.ID, "type": "checkbox"}}
	default:
		input = &Node{Tag: "input", Attrs: map[string]string{"name": f.ID, "type": f.Type}}
	}

	if f.Placeholder != "" && f.Type != element.FieldCheckbox {
		input.Attrs["placeholder"] = f.Placeholder
	}
	if f.Required {
		input.Attrs["required"] = "true"
	}

	wrapper.Children = append(wrapper.Children, input)
	return wrapper
}

func section(background, alignment, padding string, extra map[string]string, children ...*Node) *Node {
	style := map[string]string{
		"background-color": background,
		"text-align":       alignment,
		"padding":          padding,
	}
	for k, v := range extra {
		style[k] = v
	}
	return &Node{Tag: "section", Style: style, Children: children}
}

// richNode wraps inline-editor output; the content was sanitized at the
// gateway boundary and is embedded as HTML, not re-escaped.
func richNode(tag, html string) *Node {
	return &Node{Tag: tag, Text: html, RawHTML: true}
}
