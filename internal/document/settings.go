package document

import "encoding/json"

// PageSettings carries the page-level SEO, script and branding options. All
// fields are optional except ShowPoweredBy, which defaults to true.
type PageSettings struct {
	MetaTitle         string `json:"metaTitle,omitempty"`
	MetaDescription   string `json:"metaDescription,omitempty"`
	Favicon           string `json:"favicon,omitempty"`
	CustomDomain      string `json:"customDomain,omitempty"`
	CustomScripts     string `json:"customScripts,omitempty"`
	CustomCSS         string `json:"customCss,omitempty"`
	ShowPoweredBy     bool   `json:"showPoweredBy"`
	GoogleAnalyticsID string `json:"googleAnalyticsId,omitempty"`
	FacebookPixelID   string `json:"facebookPixelId,omitempty"`
}

func DefaultSettings() PageSettings {
	return PageSettings{ShowPoweredBy: true}
}

// UnmarshalJSON keeps ShowPoweredBy true when the stored blob predates the
// field or omits it.
func (s *PageSettings) UnmarshalJSON(data []byte) error {
	type alias PageSettings
	raw := struct {
		*alias
		ShowPoweredBy *bool `json:"showPoweredBy"`
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.ShowPoweredBy == nil {
		s.ShowPoweredBy = true
	} else {
		s.ShowPoweredBy = *raw.ShowPoweredBy
	}
	return nil
}
