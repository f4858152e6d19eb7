package render_test

import (
	"strings"
	"testing"

	"github.com/funnelforge/api/internal/document"
	"github.com/funnelforge/api/internal/element"
	"github.com/funnelforge/api/internal/render"
	"github.com/stretchr/testify/assert"
)

func buildDoc(t *testing.T, types ...element.Type) document.Document {
	doc := document.New()
	for _, typ := range types {
		el, err := element.NewDefault(typ)
		assert.NoError(t, err)
		doc = doc.Append(el)
	}
	return doc
}

func TestProjectEditMode(t *testing.T) {
	doc := buildDoc(t, element.TypeHeader, element.TypeText, element.TypeCTA)

	t.Run("Selected element carries controls", func(t *testing.T) {
		tree := render.Project(doc, render.ModeEdit, render.DeviceDesktop, doc.Elements[1].ID)

		assert.Len(t, tree.Elements, 3)
		assert.False(t, tree.Elements[0].Selected)
		assert.True(t, tree.Elements[1].Selected)
		assert.True(t, tree.Elements[1].Editable)
		assert.Nil(t, tree.Elements[0].Controls)
		assert.NotNil(t, tree.Elements[1].Controls)
		assert.True(t, tree.Elements[1].Controls.MoveUp)
		assert.True(t, tree.Elements[1].Controls.MoveDown)
	})

	t.Run("Move controls disabled at the boundaries", func(t *testing.T) {
		top := render.Project(doc, render.ModeEdit, render.DeviceDesktop, doc.Elements[0].ID)
		assert.False(t, top.Elements[0].Controls.MoveUp)
		assert.True(t, top.Elements[0].Controls.MoveDown)

		bottom := render.Project(doc, render.ModeEdit, render.DeviceDesktop, doc.Elements[2].ID)
		assert.True(t, bottom.Elements[2].Controls.MoveUp)
		assert.False(t, bottom.Elements[2].Controls.MoveDown)
	})
}

func TestProjectPreviewHasNoEditingState(t *testing.T) {
	doc := buildDoc(t, element.TypeHeader)

	tree := render.Project(doc, render.ModePreview, render.DeviceDesktop, doc.Elements[0].ID)
	assert.False(t, tree.Elements[0].Selected)
	assert.False(t, tree.Elements[0].Editable)
	assert.Nil(t, tree.Elements[0].Controls)
}

func TestProjectDeviceWidths(t *testing.T) {
	doc := buildDoc(t, element.TypeText)

	assert.Equal(t, 0, render.Project(doc, render.ModePreview, render.DeviceDesktop, "").MaxWidth)
	assert.Equal(t, 768, render.Project(doc, render.ModePreview, render.DeviceTablet, "").MaxWidth)
	assert.Equal(t, 375, render.Project(doc, render.ModePreview, render.DeviceMobile, "").MaxWidth)
}

func TestProjectContentIsModeIndependent(t *testing.T) {
	doc := buildDoc(t, element.TypeHeader, element.TypeForm)

	edit := render.Project(doc, render.ModeEdit, render.DeviceDesktop, "")
	public := render.Project(doc, render.ModePublic, render.DeviceDesktop, "")

	for i := range edit.Elements {
		assert.Equal(t, edit.Elements[i].Box, public.Elements[i].Box)
	}
}

func TestProjectFormBox(t *testing.T) {
	doc := buildDoc(t, element.TypeForm)
	form := doc.Elements[0].Content.(element.FormContent)

	tree := render.Project(doc, render.ModePublic, render.DeviceDesktop, "")
	box := tree.Elements[0].Box

	assert.Equal(t, "section", box.Tag)
	formNode := box.Children[0]
	assert.Equal(t, "form", formNode.Tag)
	assert.Equal(t, doc.Elements[0].ID, formNode.Attrs["data-element-id"])

	// One label per field plus the submit button.
	assert.Len(t, formNode.Children, len(form.Fields)+1)
	submit := formNode.Children[len(formNode.Children)-1]
	assert.Equal(t, "button", submit.Tag)
	assert.Equal(t, "submit", submit.Attrs["type"])
}

func TestPublicHTML(t *testing.T) {
	doc := buildDoc(t, element.TypeHeader, element.TypeCTA)
	doc.Settings.MetaTitle = "Spring Launch"
	doc.Settings.MetaDescription = "The big one"
	doc.Settings.CustomCSS = ".hero{color:red}"
	doc.Settings.CustomScripts = "<script>console.log('hi')</script>"
	doc.Settings.GoogleAnalyticsID = "G-TEST123"
	doc.Settings.FacebookPixelID = "987654"

	page := render.PublicHTML(doc, "Fallback Name")

	t.Run("Head carries the metadata", func(t *testing.T) {
		assert.Contains(t, page, "<title>Spring Launch</title>")
		assert.Contains(t, page, `content="The big one"`)
	})

	t.Run("Page-level injections happen exactly once", func(t *testing.T) {
		assert.Equal(t, 1, strings.Count(page, ".hero{color:red}"))
		assert.Equal(t, 1, strings.Count(page, "console.log('hi')"))
		assert.Equal(t, 1, strings.Count(page, "gtag/js?id=G-TEST123"))
		assert.Equal(t, 1, strings.Count(page, "fbq('init','987654')"))
	})

	t.Run("Elements are rendered in order", func(t *testing.T) {
		header := doc.Elements[0].Content.(element.HeaderContent)
		cta := doc.Elements[1].Content.(element.CTAContent)
		assert.Contains(t, page, header.Title)
		assert.Contains(t, page, cta.ButtonText)
		assert.Less(t, strings.Index(page, header.Title), strings.Index(page, cta.ButtonText))
	})

	t.Run("Powered-by footer follows the setting", func(t *testing.T) {
		assert.Contains(t, page, "Powered by FunnelForge")

		doc.Settings.ShowPoweredBy = false
		bare := render.PublicHTML(doc, "Fallback Name")
		assert.NotContains(t, bare, "Powered by FunnelForge")
	})
}

func TestPublicHTMLTitleFallsBackToName(t *testing.T) {
	doc := buildDoc(t, element.TypeText)

	page := render.PublicHTML(doc, "My Funnel")
	assert.Contains(t, page, "<title>My Funnel</title>")
}

func TestDeviceValid(t *testing.T) {
	assert.True(t, render.DeviceDesktop.Valid())
	assert.True(t, render.DeviceTablet.Valid())
	assert.True(t, render.DeviceMobile.Valid())
	assert.False(t, render.Device("watch").Valid())
}
