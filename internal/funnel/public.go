package funnel

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/funnelforge/api/internal/database"
	"github.com/funnelforge/api/internal/element"
	"github.com/funnelforge/api/internal/models"
	"github.com/funnelforge/api/internal/render"
	"github.com/funnelforge/api/internal/response"
	"github.com/gofiber/fiber/v2"
)

// PublicPageHandler serves a published funnel at its public URL. Unpublished
// funnels 404 so drafts never leak.
func PublicPageHandler(c *fiber.Ctx) error {
	f, err := GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.NotFound(c, "Page")
		}
		return response.InternalError(c, "Failed to load page")
	}
	if !f.IsPublished {
		return response.NotFound(c, "Page")
	}

	doc, err := DecodeDocument(f)
	if err != nil {
		return response.InternalError(c, "Failed to render page")
	}

	if err := IncrementViews(f.ID); err != nil {
		log.Printf("⚠️ Failed to count view for funnel %s: %v", f.ID, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(render.PublicHTML(doc, f.Name))
}

type SubmitFormRequest struct {
	ElementID string            `json:"element_id"`
	Values    map[string]string `json:"values"`
}

// SubmitFormHandler accepts a visitor submission for a form element on a
// published page, validates it against the form's field definitions and
// counts it as a conversion.
func SubmitFormHandler(c *fiber.Ctx) error {
	f, err := GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.NotFound(c, "Page")
		}
		return response.InternalError(c, "Failed to load page")
	}
	if !f.IsPublished {
		return response.NotFound(c, "Page")
	}

	var body SubmitFormRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.ElementID == "" {
		return response.ValidationError(c, map[string]string{
			"element_id": "element_id is required",
		})
	}

	doc, err := DecodeDocument(f)
	if err != nil {
		return response.InternalError(c, "Failed to load page")
	}

	el, ok := doc.FindElement(body.ElementID)
	if !ok || el.Type != element.TypeForm {
		return response.NotFound(c, "Form")
	}

	form := el.Content.(element.FormContent)
	if fieldErrors := validateSubmission(form, body.Values); len(fieldErrors) > 0 {
		return response.ValidationError(c, fieldErrors)
	}

	values, err := json.Marshal(body.Values)
	if err != nil {
		return response.BadRequest(c, "Invalid form values", err.Error())
	}

	submission := models.FormSubmission{
		FunnelID:  f.ID,
		ElementID: el.ID,
		Values:    values,
	}
	if err := database.DB.Create(&submission).Error; err != nil {
		return response.InternalError(c, "Failed to store submission")
	}

	if err := IncrementConversions(f.ID); err != nil {
		log.Printf("⚠️ Failed to count conversion for funnel %s: %v", f.ID, err)
	}

	return response.Created(c, fiber.Map{"id": submission.ID}, "Form submitted successfully")
}

// validateSubmission checks the posted values against the form definition.
// Unknown keys are rejected, required fields must be non-blank.
func validateSubmission(form element.FormContent, values map[string]string) map[string]string {
	fieldErrors := make(map[string]string)

	known := make(map[string]element.FormField, len(form.Fields))
	for _, field := range form.Fields {
		known[field.ID] = field
	}

	for id := range values {
		if _, ok := known[id]; !ok {
			fieldErrors[id] = "unknown field"
		}
	}

	for _, field := range form.Fields {
		if field.Required && strings.TrimSpace(values[field.ID]) == "" {
			fieldErrors[field.ID] = field.Label + " is required"
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// ListSubmissionsHandler lets the owner review collected form submissions.
func ListSubmissionsHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	f, err := GetByID(c.Params("id"), userID)
	if err != nil {
		return serviceError(c, err)
	}

	var submissions []models.FormSubmission
	err = database.DB.Where("funnel_id = ?", f.ID).
		Order("created_at DESC").Find(&submissions).Error
	if err != nil {
		return response.InternalError(c, "Failed to list submissions")
	}

	return response.Success(c, submissions, "")
}
