package bundle

import (
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"github.com/chronotrace/timemaster/internal/xerrors"
)

// HeatmapConfig is the palette definition loaded from the file Bundle's
// paths.visualization.heatmap points at. The core only validates its
// shape; rendering it into an actual chart is out of scope (spec.md §1).
type HeatmapConfig struct {
	Thresholds ThresholdConfig      `toml:"thresholds"`
	Palettes   map[string][]string  `toml:"palettes"`
	Defaults   HeatmapDefaults      `toml:"defaults"`
}

type ThresholdConfig struct {
	PositiveHours []float64 `toml:"positive_hours"`
}

type HeatmapDefaults struct {
	LightPalette string `toml:"light_palette"`
	DarkPalette  string `toml:"dark_palette"`
}

var hexColorRE = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// LoadHeatmap reads and validates the heatmap palette file at path.
//
// Rules (spec.md §6): thresholds.positive_hours is a non-empty,
// strictly-increasing array of positive numbers; every palette has exactly
// len(positive_hours)+1 colors, each a "#RRGGBB" string; defaults.
// light_palette and defaults.dark_palette must name palettes that exist.
func LoadHeatmap(path string) (*HeatmapConfig, error) {
	const op = "bundle.LoadHeatmap"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindConfig, op, "read heatmap config", err)
	}
	var h HeatmapConfig
	if err := toml.Unmarshal(data, &h); err != nil {
		return nil, xerrors.Wrap(xerrors.KindConfig, op, "parse heatmap config", err)
	}
	if err := h.validate(); err != nil {
		return nil, err
	}
	return &h, nil
}

func (h *HeatmapConfig) validate() error {
	const op = "bundle.LoadHeatmap"

	hours := h.Thresholds.PositiveHours
	if len(hours) == 0 {
		return xerrors.New(xerrors.KindConfig, op, "thresholds.positive_hours must not be empty")
	}
	for i, v := range hours {
		if v <= 0 {
			return xerrors.New(xerrors.KindConfig, op, "thresholds.positive_hours must be all positive")
		}
		if i > 0 && hours[i-1] >= v {
			return xerrors.New(xerrors.KindConfig, op, "thresholds.positive_hours must be strictly increasing")
		}
	}

	wantColors := len(hours) + 1
	for name, colors := range h.Palettes {
		if len(colors) != wantColors {
			return xerrors.New(xerrors.KindConfig, op,
				fmt.Sprintf("palette %s must declare exactly %d colors", name, wantColors))
		}
		for _, c := range colors {
			if !hexColorRE.MatchString(c) {
				return xerrors.New(xerrors.KindConfig, op, "palette "+name+" has a non #RRGGBB color: "+c)
			}
		}
	}

	if _, ok := h.Palettes[h.Defaults.LightPalette]; !ok {
		return xerrors.New(xerrors.KindConfig, op, "defaults.light_palette references unknown palette: "+h.Defaults.LightPalette)
	}
	if _, ok := h.Palettes[h.Defaults.DarkPalette]; !ok {
		return xerrors.New(xerrors.KindConfig, op, "defaults.dark_palette references unknown palette: "+h.Defaults.DarkPalette)
	}
	return nil
}
