package funnel_test

import (
	"strconv"
	"testing"

	"github.com/funnelforge/api/internal/database"
	"github.com/funnelforge/api/internal/element"
	"github.com/funnelforge/api/internal/funnel"
	"github.com/funnelforge/api/internal/models"
	"github.com/funnelforge/api/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func funnelData(t *testing.T, resp *testutils.StandardResponse) map[string]interface{} {
	data, ok := resp.Data.(map[string]interface{})
	assert.True(t, ok, "Expected funnel object in data")
	return data
}

func elementList(t *testing.T, funnelJSON map[string]interface{}) []map[string]interface{} {
	raw, ok := funnelJSON["elements"].([]interface{})
	assert.True(t, ok, "Expected elements array")

	out := make([]map[string]interface{}, len(raw))
	for i, e := range raw {
		out[i] = e.(map[string]interface{})
	}
	return out
}

func TestCreateFunnelHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")
	token := testutils.GetAuthToken(t, user.ID)

	t.Run("Success - New funnel starts from the default template", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/funnels", map[string]interface{}{
			"name": "Spring Launch",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.True(t, result.Success)

		f := funnelData(t, &result)
		assert.Equal(t, "spring-launch", f["slug"])

		elements := elementList(t, f)
		assert.Len(t, elements, 3)
		assert.Equal(t, "header", elements[0]["type"])
		assert.Equal(t, "text", elements[1]["type"])
		assert.Equal(t, "cta", elements[2]["type"])
	})

	t.Run("Success - Colliding names get numbered slugs", func(t *testing.T) {
		slugs := []string{}
		for i := 0; i < 3; i++ {
			resp, err := testutils.MakeRequest(app, "POST", "/funnels", map[string]interface{}{
				"name": "Demo",
			}, token)
			assert.NoError(t, err)
			assert.Equal(t, 201, resp.Code)

			var result testutils.StandardResponse
			testutils.ParseResponse(t, resp, &result)
			slugs = append(slugs, funnelData(t, &result)["slug"].(string))
		}
		assert.Equal(t, []string{"demo", "demo-1", "demo-2"}, slugs)
	})

	t.Run("Error - Missing name", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/funnels", map[string]interface{}{}, token)
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})

	t.Run("Error - Unauthorized", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/funnels", map[string]interface{}{
			"name": "Nope",
		}, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")

	elements := make([]element.Element, 0, 6)
	for _, typ := range []element.Type{
		element.TypeHeader, element.TypeText, element.TypeCTA,
		element.TypeImage, element.TypeVideo, element.TypeForm,
	} {
		el, err := element.NewDefault(typ)
		assert.NoError(t, err)
		elements = append(elements, el)
	}

	created, err := funnel.Create(user.ID, funnel.FunnelData{
		Name:     "Round Trip",
		Elements: elements,
	})
	assert.NoError(t, err)

	loaded, err := funnel.GetByID(created.ID, user.ID)
	assert.NoError(t, err)

	doc, err := funnel.DecodeDocument(loaded)
	assert.NoError(t, err)
	assert.Equal(t, elements, doc.Elements)
}

func TestEditScenario(t *testing.T) {
	app := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")
	token := testutils.GetAuthToken(t, user.ID)

	resp, err := testutils.MakeRequest(app, "POST", "/funnels", map[string]interface{}{
		"name": "Scenario",
	}, token)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.Code)

	var created testutils.StandardResponse
	testutils.ParseResponse(t, resp, &created)
	f := funnelData(t, &created)
	id := f["id"].(string)
	elements := elementList(t, f)
	ctaID := elements[2]["id"].(string)

	// Drag the text block above the header.
	resp, err = testutils.MakeRequest(app, "POST", "/funnels/"+id+"/elements/reorder", map[string]interface{}{
		"from": 1,
		"to":   0,
	}, token)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	// Remove the call to action.
	resp, err = testutils.MakeRequest(app, "DELETE", "/funnels/"+id+"/elements/"+ctaID, nil, token)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	// Reload and check the surviving order.
	resp, err = testutils.MakeRequest(app, "GET", "/funnels/"+id, nil, token)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	var loaded testutils.StandardResponse
	testutils.ParseResponse(t, resp, &loaded)
	final := elementList(t, funnelData(t, &loaded))
	assert.Len(t, final, 2)
	assert.Equal(t, "text", final[0]["type"])
	assert.Equal(t, "header", final[1]["type"])
}

func TestDuplicateFormElement(t *testing.T) {
	app := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")
	token := testutils.GetAuthToken(t, user.ID)

	created, err := funnel.Create(user.ID, funnel.FunnelData{Name: "Leads"})
	assert.NoError(t, err)

	resp, err := testutils.MakeRequest(app, "POST", "/funnels/"+created.ID+"/elements", map[string]interface{}{
		"type": "form",
	}, token)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.Code)

	var added testutils.StandardResponse
	testutils.ParseResponse(t, resp, &added)
	addedData := added.Data.(map[string]interface{})
	formEl := addedData["element"].(map[string]interface{})
	formID := formEl["id"].(string)

	resp, err = testutils.MakeRequest(app, "POST", "/funnels/"+created.ID+"/elements/"+formID+"/duplicate", nil, token)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.Code)

	var duplicated testutils.StandardResponse
	testutils.ParseResponse(t, resp, &duplicated)
	dupData := duplicated.Data.(map[string]interface{})
	dupEl := dupData["element"].(map[string]interface{})

	assert.NotEqual(t, formID, dupEl["id"])

	srcFields := formEl["content"].(map[string]interface{})["fields"].([]interface{})
	dupFields := dupEl["content"].(map[string]interface{})["fields"].([]interface{})
	assert.Len(t, dupFields, len(srcFields))

	for i := range srcFields {
		src := srcFields[i].(map[string]interface{})
		dup := dupFields[i].(map[string]interface{})
		assert.NotEqual(t, src["id"], dup["id"])
		assert.Equal(t, src["label"], dup["label"])
	}
}

func TestSlugAvailableHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")
	token := testutils.GetAuthToken(t, user.ID)

	taken, err := funnel.Create(user.ID, funnel.FunnelData{Name: "Taken", Slug: "taken"})
	assert.NoError(t, err)

	check := func(query string) (bool, int) {
		resp, err := testutils.MakeRequest(app, "GET", "/funnels/slug-available?"+query, nil, token)
		assert.NoError(t, err)
		if resp.Code != 200 {
			return false, resp.Code
		}
		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		return result.Data.(map[string]interface{})["available"].(bool), resp.Code
	}

	t.Run("Free slug reports available", func(t *testing.T) {
		available, code := check("slug=fresh")
		assert.Equal(t, 200, code)
		assert.True(t, available)
	})

	t.Run("Taken slug reports unavailable", func(t *testing.T) {
		available, code := check("slug=taken")
		assert.Equal(t, 200, code)
		assert.False(t, available)
	})

	t.Run("Excluding the funnel itself reports available", func(t *testing.T) {
		available, code := check("slug=taken&exclude_id=" + taken.ID)
		assert.Equal(t, 200, code)
		assert.True(t, available)
	})

	t.Run("Malformed slug reports unavailable", func(t *testing.T) {
		available, code := check("slug=Not%20A%20Slug")
		assert.Equal(t, 200, code)
		assert.False(t, available)
	})

	t.Run("Error - Missing slug", func(t *testing.T) {
		_, code := check("")
		assert.Equal(t, 422, code)
	})
}

func TestUpdateFunnelHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")
	token := testutils.GetAuthToken(t, user.ID)

	created, err := funnel.Create(user.ID, funnel.FunnelData{Name: "Original"})
	assert.NoError(t, err)
	_, err = funnel.Create(user.ID, funnel.FunnelData{Name: "Blocker", Slug: "wanted"})
	assert.NoError(t, err)

	t.Run("Success - Rename keeps the slug", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/funnels/"+created.ID, map[string]interface{}{
			"name": "Renamed",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		f := funnelData(t, &result)
		assert.Equal(t, "Renamed", f["name"])
		assert.Equal(t, "original", f["slug"])
	})

	t.Run("Success - Conflicting slug gets a suffix", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/funnels/"+created.ID, map[string]interface{}{
			"slug": "wanted",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Equal(t, "wanted-1", funnelData(t, &result)["slug"])
	})

	t.Run("Error - Unknown funnel", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/funnels/00000000-0000-0000-0000-000000000000", map[string]interface{}{
			"name": "Ghost",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})
}

func TestOwnerScoping(t *testing.T) {
	app := testutils.SetupTestApp(t)
	owner := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")
	intruder := testutils.CreateTestUser(t, database.DB, "intruder@test.com", "password")
	intruderToken := testutils.GetAuthToken(t, intruder.ID)

	created, err := funnel.Create(owner.ID, funnel.FunnelData{Name: "Private"})
	assert.NoError(t, err)

	t.Run("Other owners cannot read", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/funnels/"+created.ID, nil, intruderToken)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})

	t.Run("Other owners cannot delete", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/funnels/"+created.ID, nil, intruderToken)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)

		_, err = funnel.GetByID(created.ID, owner.ID)
		assert.NoError(t, err)
	})

	t.Run("Owners may reuse each other's slugs", func(t *testing.T) {
		other, err := funnel.Create(intruder.ID, funnel.FunnelData{Name: "Private"})
		assert.NoError(t, err)
		assert.Equal(t, "private", other.Slug)
	})
}

func TestMoveElementHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")
	token := testutils.GetAuthToken(t, user.ID)

	template := funnel.DefaultTemplate()
	created, err := funnel.Create(user.ID, funnel.FunnelData{
		Name:     "Mover",
		Elements: template.Elements,
	})
	assert.NoError(t, err)
	headerID := template.Elements[0].ID

	t.Run("Error - Bad direction", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/funnels/"+created.ID+"/elements/"+headerID+"/move", map[string]interface{}{
			"direction": "sideways",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
	})

	t.Run("Boundary move is a no-op", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/funnels/"+created.ID+"/elements/"+headerID+"/move", map[string]interface{}{
			"direction": "up",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		elements := elementList(t, funnelData(t, &result))
		assert.Equal(t, headerID, elements[0]["id"])
	})

	t.Run("Success - Move down", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/funnels/"+created.ID+"/elements/"+headerID+"/move", map[string]interface{}{
			"direction": "down",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		elements := elementList(t, funnelData(t, &result))
		assert.Equal(t, headerID, elements[1]["id"])
	})
}

func TestUpdateElementContentHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")
	token := testutils.GetAuthToken(t, user.ID)

	template := funnel.DefaultTemplate()
	created, err := funnel.Create(user.ID, funnel.FunnelData{
		Name:     "Editable",
		Elements: template.Elements,
	})
	assert.NoError(t, err)
	headerID := template.Elements[0].ID

	t.Run("Success - Content replaced and sanitized", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/funnels/"+created.ID+"/elements/"+headerID+"/content", map[string]interface{}{
			"content": map[string]interface{}{
				"title":           "New headline <script>alert(1)</script>",
				"subtitle":        "Sub",
				"alignment":       "left",
				"backgroundColor": "#ffffff",
				"textColor":       "#000000",
			},
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		loaded, err := funnel.GetByID(created.ID, user.ID)
		assert.NoError(t, err)
		doc, err := funnel.DecodeDocument(loaded)
		assert.NoError(t, err)

		header := doc.Elements[0].Content.(element.HeaderContent)
		assert.NotContains(t, header.Title, "<script>")
		assert.Contains(t, header.Title, "New headline")
	})

	t.Run("Error - Content failing validation", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/funnels/"+created.ID+"/elements/"+headerID+"/content", map[string]interface{}{
			"content": map[string]interface{}{
				"title":     "x",
				"alignment": "diagonal",
			},
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Error - Unknown element", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/funnels/"+created.ID+"/elements/ghost/content", map[string]interface{}{
			"content": map[string]interface{}{"text": "x", "alignment": "left"},
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})
}

func TestFailedSlugCheckLeavesFunnelUntouched(t *testing.T) {
	testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")

	created, err := funnel.Create(user.ID, funnel.FunnelData{Name: "Stable"})
	assert.NoError(t, err)

	// Exhaust the suffix search for "crowd".
	for i := 0; i <= 100; i++ {
		s := "crowd"
		if i > 0 {
			s = "crowd-" + strconv.Itoa(i)
		}
		assert.NoError(t, database.DB.Create(&models.Funnel{
			OwnerID: user.ID,
			Name:    "Crowd " + strconv.Itoa(i),
			Slug:    s,
		}).Error)
	}

	wanted := "crowd"
	_, err = funnel.Update(created.ID, user.ID, funnel.UpdateData{Slug: &wanted})
	assert.Error(t, err)

	reloaded, err := funnel.GetByID(created.ID, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "stable", reloaded.Slug)
	assert.Equal(t, created.Name, reloaded.Name)
}

func TestStatsHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")
	token := testutils.GetAuthToken(t, user.ID)

	created, err := funnel.Create(user.ID, funnel.FunnelData{Name: "Tracked"})
	assert.NoError(t, err)

	assert.NoError(t, funnel.IncrementViews(created.ID))
	assert.NoError(t, funnel.IncrementViews(created.ID))
	assert.NoError(t, funnel.IncrementConversions(created.ID))

	resp, err := testutils.MakeRequest(app, "GET", "/funnels/"+created.ID+"/stats", nil, token)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	var result testutils.StandardResponse
	testutils.ParseResponse(t, resp, &result)
	stats := result.Data.(map[string]interface{})
	assert.Equal(t, float64(2), stats["views"])
	assert.Equal(t, float64(1), stats["conversions"])
	assert.Equal(t, float64(50), stats["conversion_rate"])
}

func TestListFunnelsHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")
	token := testutils.GetAuthToken(t, user.ID)

	for _, name := range []string{"Launch Day", "Webinar Signup", "Launch Party"} {
		_, err := funnel.Create(user.ID, funnel.FunnelData{Name: name})
		assert.NoError(t, err)
	}

	t.Run("Lists everything the owner has", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/funnels", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data.([]interface{}), 3)
	})

	t.Run("Filters by name", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/funnels?q=Launch", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data.([]interface{}), 2)
	})
}

func TestDeleteFunnelCascades(t *testing.T) {
	testutils.SetupTestApp(t)
	user := testutils.CreateTestUser(t, database.DB, "owner@test.com", "password")

	created, err := funnel.Create(user.ID, funnel.FunnelData{Name: "Short Lived"})
	assert.NoError(t, err)

	assert.NoError(t, funnel.Delete(created.ID, user.ID))

	_, err = funnel.GetByID(created.ID, user.ID)
	assert.ErrorIs(t, err, funnel.ErrNotFound)

	var versions int64
	database.DB.Model(&models.FunnelVersion{}).Where("funnel_id = ?", created.ID).Count(&versions)
	assert.Zero(t, versions)
}
