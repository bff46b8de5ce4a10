// Package bundle loads and validates the TOML configuration that ties a
// tracking profile to its on-disk report templates, converter rules, and
// heatmap palette.
//
// Shape follows the teacher's internal/config.DaemonConfig (nested
// struct-of-structs with a NewDefault constructor and a Validate method);
// the decoder is swapped from encoding/json to pelletier/go-toml/v2, the
// library the rest of the retrieved pack reaches for when a bundle is TOML
// rather than JSON.
package bundle

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/chronotrace/timemaster/internal/xerrors"
)

// Bundle is the decoded, validated contents of meta/bundle.toml.
type Bundle struct {
	SchemaVersion int    `toml:"schema_version"`
	Profile       string `toml:"profile"`
	FileList      FileList `toml:"file_list"`
	Paths         Paths    `toml:"paths"`

	// dir is the directory bundle.toml was loaded from; every relative
	// path in FileList/Paths is resolved against it.
	dir string
}

// FileList enumerates paths the bundle expects to exist.
type FileList struct {
	Required []string `toml:"required"`
	Optional []string `toml:"optional"`
}

// Paths groups every file path the bundle declares, organized the way
// spec.md §6 groups them: converter input, visualization input, and one
// report-template path per (format, kind) pair.
type Paths struct {
	Converter     ConverterPaths     `toml:"converter"`
	Visualization VisualizationPaths `toml:"visualization"`
	Reports       ReportPaths        `toml:"reports"`
}

type ConverterPaths struct {
	IntervalConfig string `toml:"interval_config"`
}

type VisualizationPaths struct {
	Heatmap string `toml:"heatmap"`
}

// ReportPaths is keyed by format; each format keys its report kinds.
type ReportPaths struct {
	Markdown ReportKindPaths `toml:"markdown"`
	LaTeX    ReportKindPaths `toml:"latex"`
	Typst    ReportKindPaths `toml:"typst"`
}

// ReportKindPaths is one format's template path per report kind. A zero
// value (empty string) means the bundle did not declare that (kind,
// format) pair — internal/format's registry treats that as "not
// registered", not as a file-existence failure.
type ReportKindPaths struct {
	Day    string `toml:"day"`
	Month  string `toml:"month"`
	Period string `toml:"period"`
	Week   string `toml:"week"`
	Year   string `toml:"year"`
}

// byKind returns the template path declared for kind, and whether the
// bundle declared it at all.
func (r ReportKindPaths) byKind(kind string) (string, bool) {
	var v string
	switch kind {
	case "day":
		v = r.Day
	case "month":
		v = r.Month
	case "period":
		v = r.Period
	case "week":
		v = r.Week
	case "year":
		v = r.Year
	}
	return v, v != ""
}

// TemplatePath returns the declared template path for (format, kind), and
// whether the bundle declared that pair at all.
func (b *Bundle) TemplatePath(format, kind string) (string, bool) {
	var kp ReportKindPaths
	switch format {
	case "markdown":
		kp = b.Paths.Reports.Markdown
	case "latex":
		kp = b.Paths.Reports.LaTeX
	case "typst":
		kp = b.Paths.Reports.Typst
	default:
		return "", false
	}
	path, ok := kp.byKind(kind)
	if !ok {
		return "", false
	}
	return b.resolve(path), true
}

func (b *Bundle) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(b.dir, path)
}

// Load reads and validates bundle.toml at path. Every declared required
// file, plus the converter, visualization and report template paths, must
// exist as a regular file; optional files are not checked. schema_version
// must be a positive integer and profile must be non-empty.
func Load(path string) (*Bundle, error) {
	const op = "bundle.Load"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindConfig, op, "read bundle.toml", err)
	}

	var b Bundle
	if err := toml.Unmarshal(data, &b); err != nil {
		return nil, xerrors.Wrap(xerrors.KindConfig, op, "parse bundle.toml", err)
	}
	b.dir = filepath.Dir(path)

	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Bundle) validate() error {
	const op = "bundle.Load"

	if b.SchemaVersion <= 0 {
		return xerrors.New(xerrors.KindConfig, op, "schema_version must be a positive integer")
	}
	if b.Profile == "" {
		return xerrors.New(xerrors.KindConfig, op, "profile must not be empty")
	}

	mustExist := append([]string{}, b.FileList.Required...)
	if b.Paths.Converter.IntervalConfig != "" {
		mustExist = append(mustExist, b.Paths.Converter.IntervalConfig)
	}
	if b.Paths.Visualization.Heatmap != "" {
		mustExist = append(mustExist, b.Paths.Visualization.Heatmap)
	}
	for _, kp := range []ReportKindPaths{b.Paths.Reports.Markdown, b.Paths.Reports.LaTeX, b.Paths.Reports.Typst} {
		for _, p := range []string{kp.Day, kp.Month, kp.Period, kp.Week, kp.Year} {
			if p != "" {
				mustExist = append(mustExist, p)
			}
		}
	}

	for _, rel := range mustExist {
		full := b.resolve(rel)
		info, err := os.Stat(full)
		if err != nil {
			return xerrors.Wrap(xerrors.KindConfig, op, "declared path does not exist: "+rel, err)
		}
		if !info.Mode().IsRegular() {
			return xerrors.New(xerrors.KindConfig, op, "declared path is not a regular file: "+rel)
		}
	}
	return nil
}

// HeatmapPath and IntervalConfigPath resolve the two standalone config
// files a Bundle points at, for callers that load them separately
// (internal/bundle.LoadHeatmap, internal/bundle.LoadIntervalConfig).
func (b *Bundle) HeatmapPath() string        { return b.resolve(b.Paths.Visualization.Heatmap) }
func (b *Bundle) IntervalConfigPath() string { return b.resolve(b.Paths.Converter.IntervalConfig) }
