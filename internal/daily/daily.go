// Package daily picks the rotating bulletin extras: a morning hook, a
// Hebrew slang entry, and a founder spotlight. Selection is a pure
// function of the day-of-year index so the whole year's rotation is
// deterministic and testable without a clock.
package daily

import (
	"embed"
	"encoding/json"
	"time"
)

//go:embed catalog/hooks.json catalog/slang.json catalog/spotlights.json
var catalogFS embed.FS

type Hook struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
}

type Slang struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Usage      string `json:"usage"`
}

type Spotlight struct {
	Name       string `json:"name"`
	Company    string `json:"company"`
	Vision     string `json:"vision"`
	Connection string `json:"connection"`
}

// Static fallbacks, used when a catalog is unreadable or empty.
var (
	FallbackHook = Hook{Type: "Fact", Content: "Israel remains a global leader in cybersecurity and AI innovation."}

	FallbackSlang = Slang{Word: "Chutzpah", Definition: "Audacity.", Usage: "Israeli tech is built on chutzpah."}

	FallbackSpotlight = Spotlight{
		Name:       "Israeli Innovator",
		Company:    "Startup Nation",
		Vision:     "Building the future.",
		Connection: "Bridging Israel and SV.",
	}
)

// DayIndex converts a time to the rotation index (0-based day of year).
func DayIndex(t time.Time) int {
	return t.YearDay() - 1
}

// HookFor selects from an explicit catalog by day index, wrapping
// around the catalog length.
func HookFor(catalog []Hook, dayIndex int) Hook {
	if len(catalog) == 0 {
		return FallbackHook
	}
	return catalog[wrap(dayIndex, len(catalog))]
}

func SlangFor(catalog []Slang, dayIndex int) Slang {
	if len(catalog) == 0 {
		return FallbackSlang
	}
	return catalog[wrap(dayIndex, len(catalog))]
}

func SpotlightFor(catalog []Spotlight, dayIndex int) Spotlight {
	if len(catalog) == 0 {
		return FallbackSpotlight
	}
	return catalog[wrap(dayIndex, len(catalog))]
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// TodayHook binds the embedded catalog to the given date. Catalogs are
// loaded fresh on every call; a read failure degrades to the fallback.
func TodayHook(now time.Time) Hook {
	catalog, err := loadHooks()
	if err != nil {
		return FallbackHook
	}
	return HookFor(catalog, DayIndex(now))
}

func TodaySlang(now time.Time) Slang {
	catalog, err := loadSlang()
	if err != nil {
		return FallbackSlang
	}
	return SlangFor(catalog, DayIndex(now))
}

func TodaySpotlight(now time.Time) Spotlight {
	catalog, err := loadSpotlights()
	if err != nil {
		return FallbackSpotlight
	}
	return SpotlightFor(catalog, DayIndex(now))
}

func loadHooks() ([]Hook, error) {
	data, err := catalogFS.ReadFile("catalog/hooks.json")
	if err != nil {
		return nil, err
	}
	var out []Hook
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func loadSlang() ([]Slang, error) {
	data, err := catalogFS.ReadFile("catalog/slang.json")
	if err != nil {
		return nil, err
	}
	var out []Slang
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func loadSpotlights() ([]Spotlight, error) {
	data, err := catalogFS.ReadFile("catalog/spotlights.json")
	if err != nil {
		return nil, err
	}
	var out []Spotlight
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
