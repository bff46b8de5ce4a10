// Package pipeline implements the pipeline orchestrator (C11): the staged
// executor that drives collection, validation, conversion, and import as
// one run, the way the teacher's usecase layer drove a multi-stage
// import through its workblock/session managers.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chronotrace/timemaster/internal/bundle"
	"github.com/chronotrace/timemaster/internal/convert"
	"github.com/chronotrace/timemaster/internal/importsvc"
	"github.com/chronotrace/timemaster/internal/jsonday"
	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/outputvalidate"
	"github.com/chronotrace/timemaster/internal/sourcevalidate"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

// Options selects which of the five steps a run performs and how it
// behaves, mirroring the AppOptions context object of spec.md §4.11.
type Options struct {
	InputRoot           string
	OutputRoot          string
	ValidateSource       bool
	Convert              bool
	ValidateOutput       bool
	Import               bool
	SaveProcessedOutput  bool
	DateCheck            bundle.DateCheckMode
	// ContinueOnSourceIssues, when true, keeps converting files that
	// failed source validation instead of aborting the run (spec.md
	// §4.11 step 2: "caller decides"). Ingest and Convert keep the
	// caller's value; the facade's RunValidateStructure forces it false.
	ContinueOnSourceIssues bool
}

// Result accumulates what a run did, enough for a facade DTO to report
// back to a caller without re-deriving it from Options.
type Result struct {
	SourceFiles     []string
	GeneratedFiles  []string
	ProcessedData   map[string][]model.DailyLog // YYYY-MM -> days
	ImportStats     importsvc.Stats
	SourceIssues    []sourcevalidate.Issue
	OutputIssues    []outputvalidate.Issue
}

// Pipeline wires the four processing stages (C3-C5, C7) together over a
// shared converter config and logger, the way the teacher's import
// managers held their repository and config for the run's lifetime.
type Pipeline struct {
	intervalCfg *bundle.IntervalConfig
	importer    *importsvc.Service
	log         zerolog.Logger
}

// New builds a Pipeline. importer may be nil when the run never reaches
// the Import step (a pure Convert or ValidateStructure run).
func New(intervalCfg *bundle.IntervalConfig, importer *importsvc.Service, log zerolog.Logger) *Pipeline {
	return &Pipeline{intervalCfg: intervalCfg, importer: importer, log: log}
}

// Ingest runs all five steps: collect, validate source, convert,
// validate output, import.
func (p *Pipeline) Ingest(ctx context.Context, opts Options) (Result, error) {
	opts.ValidateSource = true
	opts.Convert = true
	opts.ValidateOutput = true
	opts.Import = true
	return p.Run(ctx, opts)
}

// Convert runs steps 1-4: collect, validate source, convert, validate
// output, with no import.
func (p *Pipeline) Convert(ctx context.Context, opts Options) (Result, error) {
	opts.ValidateSource = true
	opts.Convert = true
	opts.ValidateOutput = true
	opts.Import = false
	return p.Run(ctx, opts)
}

// Import runs step 5 only, reading already-converted JSON from disk.
func (p *Pipeline) Import(ctx context.Context, opts Options) (Result, error) {
	opts.ValidateSource = false
	opts.Convert = false
	opts.ValidateOutput = false
	opts.Import = true
	return p.Run(ctx, opts)
}

// Run executes whichever steps opts enables, in spec order.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	const op = "pipeline.Run"
	result := Result{ProcessedData: make(map[string][]model.DailyLog)}

	ext := ".txt"
	if opts.Import && !opts.Convert {
		ext = ".json"
	}

	files, err := collect(opts.InputRoot, ext)
	if err != nil {
		return result, xerrors.Wrap(xerrors.KindIO, op, "collect input files", err)
	}
	result.SourceFiles = files
	p.log.Info().Int("files", len(files)).Str("root", opts.InputRoot).Msg("collected input files")

	if opts.Import && !opts.Convert {
		return p.runImportFromFiles(ctx, result, files)
	}

	if opts.ValidateSource {
		if err := p.validateSource(files, &result, opts.ContinueOnSourceIssues); err != nil {
			return result, err
		}
	}

	if !opts.Convert {
		return result, nil
	}

	days, err := p.convertFiles(files)
	if err != nil {
		return result, xerrors.Wrap(xerrors.KindLogic, op, "convert collected files", err)
	}
	byMonth := groupByMonth(days)
	result.ProcessedData = byMonth

	if opts.SaveProcessedOutput {
		generated, err := writeProcessedMonths(opts.OutputRoot, byMonth)
		if err != nil {
			return result, xerrors.Wrap(xerrors.KindIO, op, "write processed output", err)
		}
		result.GeneratedFiles = generated
	}

	if opts.ValidateOutput {
		mode := outputvalidate.DateCheckMode(opts.DateCheck)
		res := outputvalidate.Validate(days, mode)
		result.OutputIssues = res.Issues
		if !res.OK {
			msg := "no issues"
			if len(res.Issues) > 0 {
				msg = res.Issues[0].Message
			}
			return result, xerrors.New(xerrors.KindLogic, op, "output validation failed: "+msg)
		}
	}

	if opts.Import {
		if p.importer == nil {
			return result, xerrors.New(xerrors.KindRuntimeDependencyMissing, op, "no import service configured for this run")
		}
		result.ImportStats = p.importer.ImportFromMemory(ctx, byMonth)
		if result.ImportStats.ErrorMessage != "" {
			return result, xerrors.New(xerrors.KindDatabase, op, result.ImportStats.ErrorMessage)
		}
		p.log.Info().Str("run_id", result.ImportStats.RunID).Str("replaced_month", result.ImportStats.ReplacedMonth).Msg("import complete")
	}

	return result, nil
}

// ValidateLogic runs C5 alone over already-converted JSON files found
// under opts.InputRoot, with no conversion and no import: the
// "validate-logic" facade/CLI operation (spec.md §6 CLI surface).
func (p *Pipeline) ValidateLogic(ctx context.Context, opts Options) (Result, error) {
	const op = "pipeline.ValidateLogic"
	result := Result{ProcessedData: make(map[string][]model.DailyLog)}

	files, err := collect(opts.InputRoot, ".json")
	if err != nil {
		return result, xerrors.Wrap(xerrors.KindIO, op, "collect converted files", err)
	}
	result.SourceFiles = files

	var days []model.DailyLog
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return result, xerrors.Wrap(xerrors.KindIO, op, "read "+f, err)
		}
		parsed, err := jsonday.Unmarshal(data)
		if err != nil {
			return result, xerrors.Wrap(xerrors.KindIO, op, "parse "+f, err)
		}
		days = append(days, parsed...)
	}
	result.ProcessedData = groupByMonth(days)

	res := outputvalidate.Validate(days, outputvalidate.DateCheckMode(opts.DateCheck))
	result.OutputIssues = res.Issues
	if !res.OK {
		msg := "no issues"
		if len(res.Issues) > 0 {
			msg = res.Issues[0].Message
		}
		return result, xerrors.New(xerrors.KindLogic, op, "output validation failed: "+msg)
	}
	return result, nil
}

func (p *Pipeline) runImportFromFiles(ctx context.Context, result Result, files []string) (Result, error) {
	const op = "pipeline.runImportFromFiles"
	if p.importer == nil {
		return result, xerrors.New(xerrors.KindRuntimeDependencyMissing, op, "no import service configured for this run")
	}
	result.ImportStats = p.importer.ImportFromFiles(ctx, files)
	if result.ImportStats.ErrorMessage != "" && result.ImportStats.SuccessfulFiles == 0 {
		return result, xerrors.New(xerrors.KindIO, op, result.ImportStats.ErrorMessage)
	}
	p.log.Info().Str("run_id", result.ImportStats.RunID).Int("files", result.ImportStats.SuccessfulFiles).Msg("import complete")
	return result, nil
}

func (p *Pipeline) validateSource(files []string, result *Result, continueOnIssues bool) error {
	const op = "pipeline.validateSource"
	for _, f := range files {
		r := sourcevalidate.ValidateFile(f, p.intervalCfg)
		if !r.OK {
			result.SourceIssues = append(result.SourceIssues, r.Issues...)
			if !continueOnIssues {
				return xerrors.Wrap(xerrors.KindLogic, op, "source validation failed for "+f, sourcevalidate.AsError(op, r))
			}
		}
	}
	return nil
}

func (p *Pipeline) convertFiles(files []string) ([]model.DailyLog, error) {
	var all []model.DailyLog
	for _, f := range files {
		text, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		all = append(all, convert.ParseRawText(string(text), p.intervalCfg)...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date < all[j].Date })

	days, _, err := convert.Convert(all, p.intervalCfg, convert.Tail{})
	if err != nil {
		return nil, err
	}
	return days, nil
}

func collect(root, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func groupByMonth(days []model.DailyLog) map[string][]model.DailyLog {
	byMonth := make(map[string][]model.DailyLog)
	for _, d := range days {
		if len(d.Date) < 7 {
			continue
		}
		month := d.Date[:7]
		byMonth[month] = append(byMonth[month], d)
	}
	return byMonth
}

func writeProcessedMonths(outRoot string, byMonth map[string][]model.DailyLog) ([]string, error) {
	var generated []string
	for month, days := range byMonth {
		if len(month) != 7 {
			continue
		}
		year := month[:4]
		dir := filepath.Join(outRoot, "Processed_Date", year)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return generated, fmt.Errorf("mkdir %s: %w", dir, err)
		}
		path := filepath.Join(dir, month+".json")
		data, err := jsonday.Marshal(days)
		if err != nil {
			return generated, fmt.Errorf("marshal %s: %w", month, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return generated, fmt.Errorf("write %s: %w", path, err)
		}
		generated = append(generated, path)
	}
	sort.Strings(generated)
	return generated, nil
}
