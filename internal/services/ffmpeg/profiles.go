package ffmpeg

import (
	"fmt"
	"strings"
)

// Profile describes one compression preset applied to client videos.
type Profile struct {
	Name        string
	CRF         int
	Preset      string
	ScaleHeight int // 0 keeps the source resolution
	Description string
}

// Profiles lists the supported compression presets, from highest quality to
// smallest output.
var Profiles = []Profile{
	{
		Name:        "DETALLE",
		CRF:         20,
		Preset:      "fast",
		ScaleHeight: 0,
		Description: "High quality for close-up evidence",
	},
	{
		Name:        "GENERAL",
		CRF:         24,
		Preset:      "fast",
		ScaleHeight: 1080,
		Description: "Medium quality for overview footage",
	},
	{
		Name:        "RAPIDO",
		CRF:         28,
		Preset:      "ultrafast",
		ScaleHeight: 720,
		Description: "Maximum compression for long recordings",
	},
}

// LookupProfile resolves a profile by name, case-insensitively.
func LookupProfile(name string) (Profile, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, profile := range Profiles {
		if profile.Name == upper {
			return profile, nil
		}
	}
	return Profile{}, fmt.Errorf("unknown compression profile %q", name)
}
