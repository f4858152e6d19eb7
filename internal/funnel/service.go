// Package funnel is the persistence gateway for funnel documents: owner-scoped
// CRUD, slug resolution and the element-level operations the editor shell
// calls through the API.
package funnel

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/funnelforge/api/internal/database"
	"github.com/funnelforge/api/internal/document"
	"github.com/funnelforge/api/internal/editor"
	"github.com/funnelforge/api/internal/element"
	"github.com/funnelforge/api/internal/models"
	"github.com/funnelforge/api/internal/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("funnel not found")

// FunnelData is the writable part of a funnel row.
type FunnelData struct {
	Name     string                `json:"name"`
	Slug     string                `json:"slug"`
	Elements []element.Element     `json:"elements"`
	Settings document.PageSettings `json:"settings"`
}

// UpdateData carries a partial update; nil fields are left untouched.
type UpdateData struct {
	Name     *string                `json:"name"`
	Slug     *string                `json:"slug"`
	Elements *[]element.Element     `json:"elements"`
	Settings *document.PageSettings `json:"settings"`
}

// DecodeDocument rebuilds the in-memory document from a stored row. The
// element schema is enforced here, at the application boundary; the database
// only sees opaque JSON.
func DecodeDocument(f *models.Funnel) (document.Document, error) {
	doc := document.New()

	if len(f.Elements) > 0 {
		if err := json.Unmarshal(f.Elements, &doc.Elements); err != nil {
			return document.Document{}, fmt.Errorf("corrupt elements blob: %w", err)
		}
	}
	if len(f.Settings) > 0 {
		if err := json.Unmarshal(f.Settings, &doc.Settings); err != nil {
			return document.Document{}, fmt.Errorf("corrupt settings blob: %w", err)
		}
	}

	return doc, nil
}

func encodeElements(elements []element.Element) (datatypes.JSON, error) {
	if elements == nil {
		elements = []element.Element{}
	}
	raw, err := json.Marshal(elements)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func encodeSettings(settings document.PageSettings) (datatypes.JSON, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func prepareElements(elements []element.Element) ([]element.Element, error) {
	out := make([]element.Element, len(elements))
	for i, el := range elements {
		clean := element.Sanitize(el)
		if err := element.Validate(clean); err != nil {
			return nil, err
		}
		out[i] = clean
	}
	return out, nil
}

func ListOwned(ownerID uint, nameFilter string) ([]models.Funnel, error) {
	q := database.DB.Where("owner_id = ?", ownerID).Order("updated_at DESC")
	if nameFilter != "" {
		q = q.Where("name LIKE ?", "%"+nameFilter+"%")
	}

	var funnels []models.Funnel
	if err := q.Find(&funnels).Error; err != nil {
		return nil, err
	}
	return funnels, nil
}

func GetByID(id string, ownerID uint) (*models.Funnel, error) {
	var f models.Funnel
	err := database.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetBySlug resolves a funnel for public addressing; not owner-scoped.
func GetBySlug(s string) (*models.Funnel, error) {
	var f models.Funnel
	err := database.DB.Where("slug = ?", s).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// IsSlugAvailable checks slug availability within one owner's funnels.
// excludeID skips the funnel being renamed.
func IsSlugAvailable(s string, ownerID uint, excludeID string) (bool, error) {
	q := database.DB.Model(&models.Funnel{}).
		Where("owner_id = ? AND slug = ?", ownerID, s)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func availabilityFor(ownerID uint) slug.AvailabilityFunc {
	return func(s string, excludeID string) (bool, error) {
		return IsSlugAvailable(s, ownerID, excludeID)
	}
}

// resolveSlug turns the requested slug (or the name when no usable slug was
// given) into a free owner-scoped slug.
func resolveSlug(requested, name string, ownerID uint, excludeID string) (string, error) {
	candidate := requested
	if candidate == "" || !slug.Valid(candidate) {
		candidate = slug.Slugify(name)
	}
	return slug.EnsureUnique(candidate, excludeID, availabilityFor(ownerID))
}

// Create stores a new funnel, resolving its slug and writing version 1.
func Create(ownerID uint, data FunnelData) (*models.Funnel, error) {
	elements, err := prepareElements(data.Elements)
	if err != nil {
		return nil, err
	}

	finalSlug, err := resolveSlug(data.Slug, data.Name, ownerID, "")
	if err != nil {
		return nil, err
	}

	elementsJSON, err := encodeElements(elements)
	if err != nil {
		return nil, err
	}
	settingsJSON, err := encodeSettings(data.Settings)
	if err != nil {
		return nil, err
	}

	f := models.Funnel{
		OwnerID:  ownerID,
		Name:     data.Name,
		Slug:     finalSlug,
		Elements: elementsJSON,
		Settings: settingsJSON,
	}

	if err := database.DB.Create(&f).Error; err != nil {
		return nil, err
	}

	if err := recordVersion(&f, ownerID); err != nil {
		return nil, err
	}

	return &f, nil
}

// Update applies a partial update. A changed slug is re-resolved against the
// owner's other funnels; changed elements are sanitized, validated and
// snapshotted as a new version.
func Update(id string, ownerID uint, updates UpdateData) (*models.Funnel, error) {
	f, err := GetByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		f.Name = *updates.Name
	}

	if updates.Slug != nil && *updates.Slug != f.Slug {
		finalSlug, err := resolveSlug(*updates.Slug, f.Name, ownerID, f.ID)
		if err != nil {
			return nil, err
		}
		f.Slug = finalSlug
	}

	versioned := false
	if updates.Elements != nil {
		elements, err := prepareElements(*updates.Elements)
		if err != nil {
			return nil, err
		}
		f.Elements, err = encodeElements(elements)
		if err != nil {
			return nil, err
		}
		versioned = true
	}

	if updates.Settings != nil {
		f.Settings, err = encodeSettings(*updates.Settings)
		if err != nil {
			return nil, err
		}
		versioned = true
	}

	if err := database.DB.Save(f).Error; err != nil {
		return nil, err
	}

	if versioned {
		if err := recordVersion(f, ownerID); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Delete removes the funnel and its dependent version, deployment and
// submission records in one transaction.
func Delete(id string, ownerID uint) error {
	f, err := GetByID(id, ownerID)
	if err != nil {
		return err
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("funnel_id = ?", f.ID).Delete(&models.FunnelVersion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("funnel_id = ?", f.ID).Delete(&models.FunnelDeployment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("funnel_id = ?", f.ID).Delete(&models.FormSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(f).Error
	})
}

func recordVersion(f *models.Funnel, userID uint) error {
	var last models.FunnelVersion
	next := 1
	err := database.DB.Where("funnel_id = ?", f.ID).
		Order("version_number DESC").First(&last).Error
	if err == nil {
		next = last.VersionNumber + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	version := models.FunnelVersion{
		FunnelID:      f.ID,
		VersionNumber: next,
		Elements:      f.Elements,
		Settings:      f.Settings,
		CreatedBy:     userID,
	}
	return database.DB.Create(&version).Error
}

// DefaultTemplate builds the starting document for a new funnel
// (header + text + cta), driven through an editing session.
func DefaultTemplate() document.Document {
	session := editor.NewSession(document.New())
	session.AddElement(element.TypeHeader)
	session.AddElement(element.TypeText)
	session.AddElement(element.TypeCTA)
	return session.Document()
}

func saveDocument(f *models.Funnel, ownerID uint, doc document.Document) (*models.Funnel, error) {
	elements := doc.Elements
	return Update(f.ID, ownerID, UpdateData{Elements: &elements, Settings: &doc.Settings})
}

// AddElement appends a default element of the given type (or inserts it after
// afterID when given) and persists the new order.
func AddElement(id string, ownerID uint, t element.Type, afterID string) (*models.Funnel, *element.Element, error) {
	f, err := GetByID(id, ownerID)
	if err != nil {
		return nil, nil, err
	}

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, nil, err
	}

	el, err := element.NewDefault(t)
	if err != nil {
		return nil, nil, err
	}

	pos := len(doc.Elements)
	if afterID != "" {
		if i := doc.IndexOf(afterID); i >= 0 {
			pos = i + 1
		}
	}

	doc, err = doc.InsertAt(pos, el)
	if err != nil {
		return nil, nil, err
	}

	updated, err := saveDocument(f, ownerID, doc)
	if err != nil {
		return nil, nil, err
	}
	return updated, &el, nil
}

// DuplicateElement clones an element (fresh element and field ids) right
// after its source and persists the new order.
func DuplicateElement(id string, ownerID uint, elementID string) (*models.Funnel, *element.Element, error) {
	f, err := GetByID(id, ownerID)
	if err != nil {
		return nil, nil, err
	}

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, nil, err
	}

	src, ok := doc.FindElement(elementID)
	if !ok {
		return nil, nil, document.ErrElementNotFound
	}

	dup := src.Clone()
	doc, err = doc.InsertAt(doc.IndexOf(elementID)+1, dup)
	if err != nil {
		return nil, nil, err
	}

	updated, err := saveDocument(f, ownerID, doc)
	if err != nil {
		return nil, nil, err
	}
	return updated, &dup, nil
}

// RemoveElement deletes an element. A missing element id is a no-op, matching
// the editor semantics.
func RemoveElement(id string, ownerID uint, elementID string) (*models.Funnel, error) {
	f, err := GetByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, err
	}

	doc, removed := doc.RemoveByID(elementID)
	if !removed {
		return f, nil
	}

	return saveDocument(f, ownerID, doc)
}

// MoveElement shifts an element one position up or down. Boundary moves are
// no-ops.
func MoveElement(id string, ownerID uint, elementID, direction string) (*models.Funnel, error) {
	f, err := GetByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, err
	}

	doc, err = doc.MoveBy(elementID, direction)
	if err != nil {
		return nil, err
	}

	return saveDocument(f, ownerID, doc)
}

// ReorderElements applies a drag-drop splice from one index to another.
func ReorderElements(id string, ownerID uint, from, to int) (*models.Funnel, error) {
	f, err := GetByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, err
	}

	doc, err = doc.Reorder(from, to)
	if err != nil {
		return nil, err
	}

	return saveDocument(f, ownerID, doc)
}

// UpdateElementContent replaces one element's content payload, decoded
// against the element's own type tag.
func UpdateElementContent(id string, ownerID uint, elementID string, rawContent json.RawMessage) (*models.Funnel, error) {
	f, err := GetByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, err
	}

	el, ok := doc.FindElement(elementID)
	if !ok {
		return nil, document.ErrElementNotFound
	}

	content, err := element.DecodeContent(el.Type, rawContent)
	if err != nil {
		return nil, err
	}

	el.Content = content
	clean := element.Sanitize(el)

	doc, err = doc.ReplaceContent(elementID, clean.Content)
	if err != nil {
		return nil, err
	}

	return saveDocument(f, ownerID, doc)
}

// IncrementViews bumps the public view counter.
func IncrementViews(funnelID string) error {
	return database.DB.Model(&models.Funnel{}).
		Where("id = ?", funnelID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// IncrementConversions bumps the conversion counter on a form submission.
func IncrementConversions(funnelID string) error {
	return database.DB.Model(&models.Funnel{}).
		Where("id = ?", funnelID).
		UpdateColumn("conversions", gorm.Expr("conversions + 1")).Error
}
