package element

import "github.com/microcosm-cc/bluemonday"

var (
	// richText allows the formatting the inline editor produces.
	richText = bluemonday.UGCPolicy()
	// plainText strips all markup.
	plainText = bluemonday.StrictPolicy()
)

// Sanitize cleans every user-supplied string in the element. Rich-text fields
// keep basic formatting, everything else is reduced to plain text. Returns a
// sanitized copy.
func Sanitize(e Element) Element {
	switch c := e.Content.(type) {
	case HeaderContent:
		c.Title = richText.Sanitize(c.Title)
		c.Subtitle = richText.Sanitize(c.Subtitle)
		e.Content = c

	case TextContent:
		c.Text = richText.Sanitize(c.Text)
		e.Content = c

	case CTAContent:
		c.ButtonText = richText.Sanitize(c.ButtonText)
		e.Content = c

	case ImageContent:
		c.AltText = plainText.Sanitize(c.AltText)
		c.Caption = plainText.Sanitize(c.Caption)
		e.Content = c

	case VideoContent:
		c.Caption = plainText.Sanitize(c.Caption)
		e.Content = c

	case FormContent:
		c.FormTitle = plainText.Sanitize(c.FormTitle)
		c.ButtonText = richText.Sanitize(c.ButtonText)
		fields := make([]FormField, len(c.Fields))
		for i, f := range c.Fields {
			f.Label = plainText.Sanitize(f.Label)
			f.Placeholder = plainText.Sanitize(f.Placeholder)
			fields[i] = f
		}
		c.Fields = fields
		e.Content = c
	}

	return e
}
