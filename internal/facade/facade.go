// Package facade implements the core facade (C12): the single surface
// every front-end (the cobra CLI, eventually anything else) calls
// through. Every operation here catches whatever error the layers below
// produced and converts it into one of the tagged result DTOs; nothing
// below this package is ever allowed to panic or escape as a bare error
// across the public surface, the way the teacher's cli/formatter.go was
// the one place translating usecase errors into user-facing output.
package facade

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chronotrace/timemaster/internal/calendar"
	"github.com/chronotrace/timemaster/internal/format"
	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/pipeline"
	"github.com/chronotrace/timemaster/internal/projectpath"
	"github.com/chronotrace/timemaster/internal/query"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

// OperationAck is returned by operations with no payload beyond success.
type OperationAck struct {
	OK           bool
	ErrorKind    string
	ErrorMessage string
}

// TextOutput is returned by operations that render text (a single
// formatted report, an export confirmation, a batch report's content).
type TextOutput struct {
	OK           bool
	Content      string
	ErrorKind    string
	ErrorMessage string
}

// TreeNode is one entry in a TreeQueryResponse's Nodes list.
type TreeNode struct {
	Path       string
	ParentPath string
	Depth      int
}

// TreeQueryResponse answers RunTreeQuery: either the forest of project
// roots (Path == "" in the request) or the subtree under one path.
type TreeQueryResponse struct {
	OK           bool
	Found        bool
	Roots        []string
	Nodes        []TreeNode
	ErrorKind    string
	ErrorMessage string
}

// StructuredReportOutput carries a ReportData directly, for callers that
// want the data rather than a rendered string.
type StructuredReportOutput struct {
	OK           bool
	Kind         model.ReportKind
	Report       model.ReportData
	ErrorKind    string
	ErrorMessage string
}

// PeriodBatchItem is one entry of a StructuredPeriodBatchOutput.
type PeriodBatchItem struct {
	Days         int
	OK           bool
	Report       *model.ReportData
	ErrorMessage string
}

// StructuredPeriodBatchOutput answers RunStructuredPeriodBatchQuery: one
// ReportData (or error) per requested period length.
type StructuredPeriodBatchOutput struct {
	OK           bool
	Items        []PeriodBatchItem
	ErrorKind    string
	ErrorMessage string
}

// DataQueryResponse answers RunDataQuery: whichever of Years/Months/Days
// the request's Scope asked for is populated, the rest left nil.
type DataQueryResponse struct {
	OK           bool
	Years        []int
	Months       []int
	Days         []string
	ErrorKind    string
	ErrorMessage string
}

// DataRepository is the subset of internal/store's *DB RunDataQuery
// reads from, kept narrow so it can be faked in tests.
type DataRepository interface {
	KnownYears(ctx context.Context) ([]int, error)
	KnownMonths(ctx context.Context, year int) ([]int, error)
	KnownDays(ctx context.Context, yearMonth string) ([]string, error)
}

// ReportQueryRequest names one report query, the way a CLI flag set
// would (spec.md §6: "flags map 1:1 to request DTOs"). Only the fields
// relevant to Kind need to be set; RunReportQuery dispatches on Kind.
type ReportQueryRequest struct {
	Kind      model.ReportKind
	Date      string // daily
	YearMonth string // monthly
	ISOWeek   string // weekly
	Year      string // yearly
	Days      int    // period
	StartDate string // range
	EndDate   string // range
	Format    format.Format
}

// DataQueryRequest selects which enumeration RunDataQuery performs.
type DataQueryRequest struct {
	Scope     string // "years", "months", or "days"
	Year      int    // required for "months"
	YearMonth string // required for "days"
}

// TreeQueryRequest selects a forest listing (Path == "") or one subtree.
type TreeQueryRequest struct {
	Path     string
	MaxDepth int // 0 means unbounded
}

// Facade ties every operation-level dependency together. It is built
// once at bootstrap (C13) and handed to whichever front-end is running.
type Facade struct {
	pipeline *pipeline.Pipeline
	queries  *query.Service
	registry *format.Registry
	cache    *projectpath.Cache
	data     DataRepository
	log      zerolog.Logger
}

// New builds a Facade. Any dependency may be nil if the caller knows a
// given set of operations will never be invoked (e.g. a read-only CLI
// build might omit pipeline).
func New(p *pipeline.Pipeline, q *query.Service, reg *format.Registry, cache *projectpath.Cache, data DataRepository, log zerolog.Logger) *Facade {
	return &Facade{pipeline: p, queries: q, registry: reg, cache: cache, data: data, log: log}
}

func ackFrom(err error) OperationAck {
	if err == nil {
		return OperationAck{OK: true}
	}
	return OperationAck{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
}

// RunConvert runs pipeline steps 1-4 (collect, validate source, convert,
// validate output) with no import.
func (f *Facade) RunConvert(ctx context.Context, opts pipeline.Options) OperationAck {
	if f.pipeline == nil {
		return ackFrom(xerrors.New(xerrors.KindRuntimeDependencyMissing, "RunConvert", "no pipeline configured"))
	}
	_, err := f.pipeline.Convert(ctx, opts)
	return ackFrom(err)
}

// RunIngest runs all five pipeline steps.
func (f *Facade) RunIngest(ctx context.Context, opts pipeline.Options) OperationAck {
	if f.pipeline == nil {
		return ackFrom(xerrors.New(xerrors.KindRuntimeDependencyMissing, "RunIngest", "no pipeline configured"))
	}
	_, err := f.pipeline.Ingest(ctx, opts)
	return ackFrom(err)
}

// RunImport runs pipeline step 5 alone, reading already-converted JSON.
func (f *Facade) RunImport(ctx context.Context, opts pipeline.Options) OperationAck {
	if f.pipeline == nil {
		return ackFrom(xerrors.New(xerrors.KindRuntimeDependencyMissing, "RunImport", "no pipeline configured"))
	}
	_, err := f.pipeline.Import(ctx, opts)
	return ackFrom(err)
}

// RunValidateStructure runs C3 alone over the input root; failure always
// aborts, since structure validation is the caller's primary intent.
func (f *Facade) RunValidateStructure(ctx context.Context, opts pipeline.Options) OperationAck {
	if f.pipeline == nil {
		return ackFrom(xerrors.New(xerrors.KindRuntimeDependencyMissing, "RunValidateStructure", "no pipeline configured"))
	}
	opts.ValidateSource = true
	opts.Convert = false
	opts.ValidateOutput = false
	opts.Import = false
	opts.ContinueOnSourceIssues = false
	_, err := f.pipeline.Run(ctx, opts)
	return ackFrom(err)
}

// RunValidateLogic runs C5 alone over already-converted JSON files.
func (f *Facade) RunValidateLogic(ctx context.Context, opts pipeline.Options) OperationAck {
	if f.pipeline == nil {
		return ackFrom(xerrors.New(xerrors.KindRuntimeDependencyMissing, "RunValidateLogic", "no pipeline configured"))
	}
	_, err := f.pipeline.ValidateLogic(ctx, opts)
	return ackFrom(err)
}

// resolveReport dispatches req to the matching query.Service method.
func (f *Facade) resolveReport(ctx context.Context, req ReportQueryRequest) (model.ReportData, error) {
	const op = "facade.resolveReport"
	if f.queries == nil {
		return model.ReportData{}, xerrors.New(xerrors.KindRuntimeDependencyMissing, op, "no query service configured")
	}
	switch req.Kind {
	case model.ReportKindDaily:
		return f.queries.QueryDaily(ctx, req.Date)
	case model.ReportKindMonthly:
		return f.queries.QueryMonthly(ctx, req.YearMonth)
	case model.ReportKindWeekly:
		return f.queries.QueryWeekly(ctx, req.ISOWeek)
	case model.ReportKindYearly:
		return f.queries.QueryYearly(ctx, req.Year)
	case model.ReportKindPeriod:
		return f.queries.QueryPeriod(ctx, req.Days)
	case model.ReportKindRange:
		return f.queries.QueryRange(ctx, req.StartDate, req.EndDate)
	default:
		return model.ReportData{}, xerrors.New(xerrors.KindInvalidArguments, op, "unknown report kind: "+string(req.Kind))
	}
}

// RunReportQuery runs the requested query and renders it via the
// formatter registry, returning the rendered text.
func (f *Facade) RunReportQuery(ctx context.Context, req ReportQueryRequest) TextOutput {
	data, err := f.resolveReport(ctx, req)
	if err != nil {
		return TextOutput{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
	}
	if f.registry == nil {
		err := xerrors.New(xerrors.KindRuntimeDependencyMissing, "RunReportQuery", "no formatter registry configured")
		return TextOutput{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
	}
	content, err := f.registry.Render(data, req.Format)
	if err != nil {
		return TextOutput{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
	}
	return TextOutput{OK: true, Content: content}
}

// RunStructuredReportQuery runs the requested query and returns the
// ReportData directly, with no rendering step.
func (f *Facade) RunStructuredReportQuery(ctx context.Context, req ReportQueryRequest) StructuredReportOutput {
	data, err := f.resolveReport(ctx, req)
	if err != nil {
		return StructuredReportOutput{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
	}
	return StructuredReportOutput{OK: true, Kind: req.Kind, Report: data}
}

// RunPeriodBatchQuery renders one period report per entry of daysList,
// concatenated into one text block in request order.
func (f *Facade) RunPeriodBatchQuery(ctx context.Context, daysList []int, fmtName format.Format) TextOutput {
	var sb strings.Builder
	for i, n := range daysList {
		data, err := f.resolveReport(ctx, ReportQueryRequest{Kind: model.ReportKindPeriod, Days: n})
		if err != nil {
			return TextOutput{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
		}
		if f.registry == nil {
			err := xerrors.New(xerrors.KindRuntimeDependencyMissing, "RunPeriodBatchQuery", "no formatter registry configured")
			return TextOutput{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
		}
		content, err := f.registry.Render(data, fmtName)
		if err != nil {
			return TextOutput{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
		}
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "== last %d days ==\n", n)
		sb.WriteString(content)
	}
	return TextOutput{OK: true, Content: sb.String()}
}

// RunStructuredPeriodBatchQuery runs one period query per entry of
// daysList, collecting each result (or its own error) independently
// rather than aborting the whole batch on the first failure.
func (f *Facade) RunStructuredPeriodBatchQuery(ctx context.Context, daysList []int) StructuredPeriodBatchOutput {
	items := make([]PeriodBatchItem, 0, len(daysList))
	for _, n := range daysList {
		data, err := f.resolveReport(ctx, ReportQueryRequest{Kind: model.ReportKindPeriod, Days: n})
		if err != nil {
			items = append(items, PeriodBatchItem{Days: n, OK: false, ErrorMessage: err.Error()})
			continue
		}
		rep := data
		items = append(items, PeriodBatchItem{Days: n, OK: true, Report: &rep})
	}
	return StructuredPeriodBatchOutput{OK: true, Items: items}
}

// RunReportExport renders the requested report and writes it to path.
func (f *Facade) RunReportExport(ctx context.Context, req ReportQueryRequest, path string) OperationAck {
	out := f.RunReportQuery(ctx, req)
	if !out.OK {
		return OperationAck{OK: false, ErrorKind: out.ErrorKind, ErrorMessage: out.ErrorMessage}
	}
	if err := os.WriteFile(path, []byte(out.Content), 0o644); err != nil {
		wrapped := xerrors.Wrap(xerrors.KindIO, "RunReportExport", "write export file", err)
		return ackFrom(wrapped)
	}
	return OperationAck{OK: true}
}

// ExportBatchItem is one file written by RunReportExportAll.
type ExportBatchItem struct {
	Identifier   string // the date/year-month/ISO week this file covers
	OK           bool
	Path         string
	ErrorMessage string
}

// ExportBatchOutput answers RunReportExportAll.
type ExportBatchOutput struct {
	OK           bool
	Items        []ExportBatchItem
	ErrorKind    string
	ErrorMessage string
}

// RunReportExportAll writes one file per identifier of kind found within
// year, the "export all-<kind>" batch mode (SPEC_FULL.md §4): every month
// in the year for ReportKindMonthly, every day in the year (enumerated
// month by month) for ReportKindDaily, every distinct ISO week touched by
// those days for ReportKindWeekly. ReportKindYearly always has exactly
// one identifier, the year itself. dir is the destination directory,
// created if missing; each file is named "<identifier>.<ext>".
func (f *Facade) RunReportExportAll(ctx context.Context, kind model.ReportKind, year int, dir string, fmtName format.Format) ExportBatchOutput {
	const op = "facade.RunReportExportAll"
	if f.data == nil {
		err := xerrors.New(xerrors.KindRuntimeDependencyMissing, op, "no data repository configured")
		return ExportBatchOutput{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		wrapped := xerrors.Wrap(xerrors.KindIO, op, "create export directory", err)
		return ExportBatchOutput{OK: false, ErrorKind: string(xerrors.KindOf(wrapped)), ErrorMessage: wrapped.Error()}
	}

	idents, err := f.identifiersForYear(ctx, kind, year)
	if err != nil {
		return ExportBatchOutput{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
	}

	ext := "md"
	switch fmtName {
	case format.LaTeX:
		ext = "tex"
	case format.Typst:
		ext = "typ"
	}

	items := make([]ExportBatchItem, 0, len(idents))
	for _, id := range idents {
		req := requestForIdentifier(kind, id, fmtName)
		path := filepath.Join(dir, id+"."+ext)
		ack := f.RunReportExport(ctx, req, path)
		if !ack.OK {
			items = append(items, ExportBatchItem{Identifier: id, OK: false, ErrorMessage: ack.ErrorMessage})
			continue
		}
		items = append(items, ExportBatchItem{Identifier: id, OK: true, Path: path})
	}
	return ExportBatchOutput{OK: true, Items: items}
}

// identifiersForYear lists every (day, month, or ISO week) identifier of
// kind that falls within year, ordered.
func (f *Facade) identifiersForYear(ctx context.Context, kind model.ReportKind, year int) ([]string, error) {
	const op = "facade.identifiersForYear"
	switch kind {
	case model.ReportKindYearly:
		return []string{fmt.Sprintf("%04d", year)}, nil
	case model.ReportKindMonthly:
		months, err := f.data.KnownMonths(ctx, year)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(months))
		for _, m := range months {
			out = append(out, fmt.Sprintf("%04d-%02d", year, m))
		}
		return out, nil
	case model.ReportKindDaily, model.ReportKindWeekly:
		months, err := f.data.KnownMonths(ctx, year)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		var out []string
		for _, m := range months {
			ym := fmt.Sprintf("%04d-%02d", year, m)
			days, err := f.data.KnownDays(ctx, ym)
			if err != nil {
				return nil, err
			}
			for _, d := range days {
				id := d
				if kind == model.ReportKindWeekly {
					week, err := calendar.ISOWeekLabel(d)
					if err != nil {
						continue
					}
					id = week
				}
				if !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
		return out, nil
	default:
		return nil, xerrors.New(xerrors.KindInvalidArguments, op, "unsupported export-all kind: "+string(kind))
	}
}

func requestForIdentifier(kind model.ReportKind, id string, fmtName format.Format) ReportQueryRequest {
	req := ReportQueryRequest{Kind: kind, Format: fmtName}
	switch kind {
	case model.ReportKindDaily:
		req.Date = id
	case model.ReportKindMonthly:
		req.YearMonth = id
	case model.ReportKindWeekly:
		req.ISOWeek = id
	case model.ReportKindYearly:
		req.Year = id
	}
	return req
}

// RunDataQuery enumerates known years, months within a year, or days
// within a month, depending on req.Scope.
func (f *Facade) RunDataQuery(ctx context.Context, req DataQueryRequest) DataQueryResponse {
	const op = "facade.RunDataQuery"
	if f.data == nil {
		err := xerrors.New(xerrors.KindRuntimeDependencyMissing, op, "no data repository configured")
		return DataQueryResponse{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
	}
	switch req.Scope {
	case "years":
		years, err := f.data.KnownYears(ctx)
		if err != nil {
			return DataQueryResponse{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
		}
		return DataQueryResponse{OK: true, Years: years}
	case "months":
		months, err := f.data.KnownMonths(ctx, req.Year)
		if err != nil {
			return DataQueryResponse{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
		}
		return DataQueryResponse{OK: true, Months: months}
	case "days":
		days, err := f.data.KnownDays(ctx, req.YearMonth)
		if err != nil {
			return DataQueryResponse{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
		}
		return DataQueryResponse{OK: true, Days: days}
	default:
		err := xerrors.New(xerrors.KindInvalidArguments, op, "unknown data query scope: "+req.Scope)
		return DataQueryResponse{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
	}
}

// RunTreeQuery lists the project forest's roots, or the subtree rooted
// at req.Path down to req.MaxDepth (0 meaning unbounded).
func (f *Facade) RunTreeQuery(ctx context.Context, req TreeQueryRequest) TreeQueryResponse {
	const op = "facade.RunTreeQuery"
	if f.cache == nil {
		err := xerrors.New(xerrors.KindRuntimeDependencyMissing, op, "no project path cache configured")
		return TreeQueryResponse{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
	}

	if req.Path == "" {
		rootIDs, err := f.cache.Roots(ctx)
		if err != nil {
			return TreeQueryResponse{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
		}
		var roots []string
		for _, id := range rootIDs {
			segs, err := f.cache.PathFor(ctx, id)
			if err != nil {
				continue
			}
			roots = append(roots, strings.Join(segs, projectpath.Separator))
		}
		return TreeQueryResponse{OK: true, Found: true, Roots: roots}
	}

	rootID, ok, err := f.cache.Lookup(ctx, req.Path)
	if err != nil {
		return TreeQueryResponse{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
	}
	if !ok {
		return TreeQueryResponse{OK: true, Found: false}
	}

	nodes, err := f.collectSubtree(ctx, rootID, req.Path, 0, req.MaxDepth)
	if err != nil {
		return TreeQueryResponse{OK: false, ErrorKind: string(xerrors.KindOf(err)), ErrorMessage: err.Error()}
	}
	return TreeQueryResponse{OK: true, Found: true, Nodes: nodes}
}

func (f *Facade) collectSubtree(ctx context.Context, id int64, path string, depth, maxDepth int) ([]TreeNode, error) {
	nodes := []TreeNode{{Path: path, Depth: depth}}
	if maxDepth > 0 && depth >= maxDepth {
		return nodes, nil
	}
	childIDs, err := f.cache.Children(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, cid := range childIDs {
		segs, err := f.cache.PathFor(ctx, cid)
		if err != nil {
			continue
		}
		childPath := strings.Join(segs, projectpath.Separator)
		childNodes, err := f.collectSubtree(ctx, cid, childPath, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		for i := range childNodes {
			if childNodes[i].ParentPath == "" {
				childNodes[i].ParentPath = path
			}
		}
		nodes = append(nodes, childNodes...)
	}
	return nodes, nil
}
