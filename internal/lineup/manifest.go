package lineup

const manifestColor = "#222123"

// Manifest is the PWA web app manifest served for the event.
type Manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color"`
	Lang            string         `json:"lang"`
	Scope           string         `json:"scope"`
	Description     string         `json:"description"`
	ThemeColor      string         `json:"theme_color"`
	Icons           []ManifestIcon `json:"icons"`
}

// ManifestIcon is one icon entry of a Manifest.
type ManifestIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose,omitempty"`
}

// BuildManifest derives the web manifest from the event configuration. Icon
// files are expected at <prefix>-<size>.png.
func BuildManifest(meta Meta) Manifest {
	icon := func(size, purpose string) ManifestIcon {
		return ManifestIcon{
			Src:     meta.Prefix + "-" + size + ".png",
			Sizes:   size,
			Type:    "image/png",
			Purpose: purpose,
		}
	}
	return Manifest{
		Name:            meta.MobileAppName,
		ShortName:       meta.MobileAppName,
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: manifestColor,
		Lang:            "en",
		Scope:           "/",
		Description:     "An app to display DJ sets",
		ThemeColor:      manifestColor,
		Icons: []ManifestIcon{
			icon("192x192", "any"),
			icon("180x180", "maskable"),
			icon("192x192", "maskable"),
		},
	}
}
