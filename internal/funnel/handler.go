package funnel

import (
	"encoding/json"
	"errors"

	"github.com/funnelforge/api/internal/document"
	"github.com/funnelforge/api/internal/element"
	"github.com/funnelforge/api/internal/render"
	"github.com/funnelforge/api/internal/response"
	"github.com/funnelforge/api/internal/slug"
	"github.com/gofiber/fiber/v2"
)

type CreateFunnelRequest struct {
	Name     string                 `json:"name"`
	Slug     string                 `json:"slug"`
	Elements []element.Element      `json:"elements"`
	Settings *document.PageSettings `json:"settings"`
}

type AddElementRequest struct {
	Type    element.Type `json:"type"`
	AfterID string       `json:"after_id"`
}

type MoveElementRequest struct {
	Direction string `json:"direction"`
}

type ReorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type UpdateContentRequest struct {
	Content json.RawMessage `json:"content"`
}

func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return response.NotFound(c, "Funnel")
	case errors.Is(err, document.ErrElementNotFound):
		return response.NotFound(c, "Element")
	case errors.Is(err, document.ErrInvalidIndex):
		return response.BadRequest(c, "Index out of range", nil)
	case errors.Is(err, slug.ErrSlugExhausted):
		return response.Conflict(c, "Could not generate a unique URL for this name")
	default:
		return response.InternalError(c, "Operation failed")
	}
}

func ListFunnelsHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	funnels, err := ListOwned(userID, c.Query("q"))
	if err != nil {
		return response.InternalError(c, "Failed to list funnels")
	}

	return response.Success(c, funnels, "")
}

func CreateFunnelHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var body CreateFunnelRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Name == "" {
		return response.ValidationError(c, map[string]string{
			"name": "name is required",
		})
	}

	data := FunnelData{
		Name:     body.Name,
		Slug:     body.Slug,
		Elements: body.Elements,
		Settings: document.DefaultSettings(),
	}
	if body.Settings != nil {
		data.Settings = *body.Settings
	}

	// A brand-new funnel starts from the header+text+cta template.
	if body.Elements == nil {
		template := DefaultTemplate()
		data.Elements = template.Elements
	}

	f, err := Create(userID, data)
	if err != nil {
		if errors.Is(err, slug.ErrSlugExhausted) {
			return serviceError(c, err)
		}
		return response.BadRequest(c, "Failed to create funnel", err.Error())
	}

	return response.Created(c, f, "Funnel created successfully")
}

func GetFunnelHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	f, err := GetByID(c.Params("id"), userID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, f, "")
}

func UpdateFunnelHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var body UpdateData
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	f, err := Update(c.Params("id"), userID, body)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, slug.ErrSlugExhausted) {
			return serviceError(c, err)
		}
		return response.BadRequest(c, "Failed to update funnel", err.Error())
	}

	return response.Success(c, f, "Funnel updated successfully")
}

func DeleteFunnelHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	if err := Delete(c.Params("id"), userID); err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, nil, "Funnel deleted successfully")
}

// SlugAvailableHandler answers the editor's debounced slug checks. The
// authoritative check still happens inside Create/Update.
func SlugAvailableHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	s := c.Query("slug")
	if s == "" {
		return response.ValidationError(c, map[string]string{
			"slug": "slug is required",
		})
	}
	if !slug.Valid(s) {
		return response.Success(c, fiber.Map{"slug": s, "available": false}, "")
	}

	available, err := IsSlugAvailable(s, userID, c.Query("exclude_id"))
	if err != nil {
		return response.InternalError(c, "Failed to check slug availability")
	}

	return response.Success(c, fiber.Map{"slug": s, "available": available}, "")
}

func GetStatsHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	f, err := GetByID(c.Params("id"), userID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, fiber.Map{
		"views":           f.Views,
		"conversions":     f.Conversions,
		"conversion_rate": f.ConversionRate(),
		"revenue":         f.Revenue,
	}, "")
}

func AddElementHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var body AddElementRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if !body.Type.Valid() {
		return response.ValidationError(c, map[string]string{
			"type": "type must be one of header, text, cta, image, video, form",
		})
	}

	f, el, err := AddElement(c.Params("id"), userID, body.Type, body.AfterID)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Created(c, fiber.Map{"funnel": f, "element": el}, "Element added successfully")
}

func DuplicateElementHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	f, el, err := DuplicateElement(c.Params("id"), userID, c.Params("element_id"))
	if err != nil {
		return serviceError(c, err)
	}

	return response.Created(c, fiber.Map{"funnel": f, "element": el}, "Element duplicated successfully")
}

func DeleteElementHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	f, err := RemoveElement(c.Params("id"), userID, c.Params("element_id"))
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, f, "Element deleted successfully")
}

func MoveElementHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var body MoveElementRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Direction != document.MoveUp && body.Direction != document.MoveDown {
		return response.ValidationError(c, map[string]string{
			"direction": "direction must be up or down",
		})
	}

	f, err := MoveElement(c.Params("id"), userID, c.Params("element_id"), body.Direction)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, f, "Element moved successfully")
}

func ReorderElementsHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var body ReorderRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	f, err := ReorderElements(c.Params("id"), userID, body.From, body.To)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, f, "Elements reordered successfully")
}

func UpdateElementContentHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var body UpdateContentRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if len(body.Content) == 0 {
		return response.ValidationError(c, map[string]string{
			"content": "content is required",
		})
	}

	f, err := UpdateElementContent(c.Params("id"), userID, c.Params("element_id"), body.Content)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, document.ErrElementNotFound) {
			return serviceError(c, err)
		}
		return response.BadRequest(c, "Invalid element content", err.Error())
	}

	return response.Success(c, f, "Element updated successfully")
}

// PreviewHandler projects the document the way the editor canvas and the
// device preview consume it.
func PreviewHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	f, err := GetByID(c.Params("id"), userID)
	if err != nil {
		return serviceError(c, err)
	}

	doc, err := DecodeDocument(f)
	if err != nil {
		return response.InternalError(c, "Failed to decode funnel document")
	}

	mode := render.Mode(c.Query("mode", string(render.ModePreview)))
	if mode != render.ModeEdit && mode != render.ModePreview {
		return response.ValidationError(c, map[string]string{
			"mode": "mode must be edit or preview",
		})
	}

	device := render.Device(c.Query("device", string(render.DeviceDesktop)))
	if !device.Valid() {
		return response.ValidationError(c, map[string]string{
			"device": "device must be desktop, tablet or mobile",
		})
	}

	tree := render.Project(doc, mode, device, c.Query("selected"))
	return response.Success(c, tree, "")
}
