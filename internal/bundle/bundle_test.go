package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidBundle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "interval.toml", "wake_keywords=[\"up\"]\n")
	writeFile(t, dir, "heatmap.toml", "")
	writeFile(t, dir, "templates/day.md.tmpl", "")
	writeFile(t, dir, "required.txt", "")

	bundlePath := writeFile(t, dir, "bundle.toml", `
schema_version = 1
profile = "default"

[file_list]
required = ["required.txt"]
optional = []

[paths.converter]
interval_config = "interval.toml"

[paths.visualization]
heatmap = "heatmap.toml"

[paths.reports.markdown]
day = "templates/day.md.tmpl"
`)

	b, err := Load(bundlePath)
	require.NoError(t, err)
	assert.Equal(t, 1, b.SchemaVersion)
	assert.Equal(t, "default", b.Profile)

	path, ok := b.TemplatePath("markdown", "day")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "templates/day.md.tmpl"), path)

	_, ok = b.TemplatePath("latex", "day")
	assert.False(t, ok)
}

func TestLoadMissingRequiredFile(t *testing.T) {
	dir := t.TempDir()
	bundlePath := writeFile(t, dir, "bundle.toml", `
schema_version = 1
profile = "default"

[file_list]
required = ["missing.txt"]
`)
	_, err := Load(bundlePath)
	require.Error(t, err)
}

func TestLoadRejectsZeroSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	bundlePath := writeFile(t, dir, "bundle.toml", `
schema_version = 0
profile = "default"
`)
	_, err := Load(bundlePath)
	require.Error(t, err)
}

func TestLoadHeatmapValid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "heatmap.toml", `
[thresholds]
positive_hours = [1.0, 4.0, 8.0]

[palettes]
warm = ["#FFFFFF", "#FFCC00", "#FF6600", "#CC0000"]
cool = ["#FFFFFF", "#CCE5FF", "#66A3FF", "#003D99"]

[defaults]
light_palette = "warm"
dark_palette = "cool"
`)
	h, err := LoadHeatmap(path)
	require.NoError(t, err)
	assert.Len(t, h.Palettes["warm"], 4)
}

func TestLoadHeatmapRejectsWrongColorCount(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "heatmap.toml", `
[thresholds]
positive_hours = [1.0, 4.0]

[palettes]
warm = ["#FFFFFF", "#FFCC00"]

[defaults]
light_palette = "warm"
dark_palette = "warm"
`)
	_, err := LoadHeatmap(path)
	require.Error(t, err)
}

func TestLoadHeatmapRejectsNonIncreasingThresholds(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "heatmap.toml", `
[thresholds]
positive_hours = [4.0, 1.0]

[palettes]
warm = ["#FFFFFF", "#FFCC00", "#FF6600"]

[defaults]
light_palette = "warm"
dark_palette = "warm"
`)
	_, err := LoadHeatmap(path)
	require.Error(t, err)
}

func TestLoadHeatmapRejectsUnknownDefaultPalette(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "heatmap.toml", `
[thresholds]
positive_hours = [1.0]

[palettes]
warm = ["#FFFFFF", "#FFCC00"]

[defaults]
light_palette = "warm"
dark_palette = "nonexistent"
`)
	_, err := LoadHeatmap(path)
	require.Error(t, err)
}

func TestIntervalConfigLookups(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "interval.toml", `
wake_keywords = ["up", "wake"]
nosleep_probability = 0.1

[aliases]
math = "study_math"

[duration_rule_minutes]
shower = 15
`)
	c, err := LoadIntervalConfig(path)
	require.NoError(t, err)

	assert.True(t, c.IsWakeKeyword("up"))
	assert.False(t, c.IsWakeKeyword("math"))

	p, ok := c.ResolveAlias("math")
	require.True(t, ok)
	assert.Equal(t, "study_math", p)

	m, ok := c.DurationRule("shower")
	require.True(t, ok)
	assert.Equal(t, 15, m)

	assert.True(t, c.IsKnownEventText("up"))
	assert.True(t, c.IsKnownEventText("math"))
	assert.True(t, c.IsKnownEventText("shower"))
	assert.False(t, c.IsKnownEventText("unknown"))
}

func TestIntervalConfigRejectsOutOfRangeProbability(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "interval.toml", `
wake_keywords = ["up"]
nosleep_probability = 1.5
`)
	_, err := LoadIntervalConfig(path)
	require.Error(t, err)
}

func TestCommandDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "commands.toml", `
[commands.convert]
format = "markdown"
date_check = "continuity"
save_processed_output = true
validate_logic = true
validate_structure = true
`)
	f, err := LoadCommandDefaults(path)
	require.NoError(t, err)

	d := f.For("convert")
	assert.Equal(t, "markdown", d.Format)
	assert.Equal(t, DateCheckContinuity, d.DateCheck)
	assert.True(t, d.SaveProcessedOutput)

	// Unknown command falls back to the zero value rather than an error.
	zero := f.For("unknown")
	assert.Equal(t, CommandDefaults{}, zero)
}

func TestCommandDefaultsRejectsBadDateCheck(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "commands.toml", `
[commands.convert]
date_check = "sometimes"
`)
	_, err := LoadCommandDefaults(path)
	require.Error(t, err)
}
