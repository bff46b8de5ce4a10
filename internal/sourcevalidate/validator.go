// Package sourcevalidate implements the source validator (C3): structural
// and logical checks on a raw text day log, run before the converter ever
// sees it.
//
// Validation never returns a Go error for malformed input — a malformed
// log is an expected, recoverable outcome, not a programmer error. Issues
// accumulate into a Result; even a genuinely unreadable file is reported
// by ValidateFile as a single FileAccess issue, and AsError turns a failed
// Result into an error for callers that want one.
package sourcevalidate

import (
	"bufio"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/chronotrace/timemaster/internal/bundle"
	"github.com/chronotrace/timemaster/internal/calendar"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

// IssueKind classifies a single validation issue.
type IssueKind string

const (
	IssueFileAccess IssueKind = "file_access"
	IssueStructural IssueKind = "structural"
	IssueLogical    IssueKind = "logical"
)

// Issue is one accumulated validation failure. ID is a uuid unique to
// this issue within its Result, letting a caller that aggregates issues
// across many files (the pipeline's ContinueOnSourceIssues path) dedup
// repeated reports of what turns out to be the same underlying problem.
type Issue struct {
	ID      string
	Line    int
	Message string
	Kind    IssueKind
}

// Result is the outcome of a validation run: ok iff Issues is empty.
type Result struct {
	OK     bool
	Issues []Issue
}

func (r *Result) add(line int, kind IssueKind, msg string) {
	r.Issues = append(r.Issues, Issue{ID: uuid.NewString(), Line: line, Kind: kind, Message: msg})
	r.OK = false
}

// ValidateFile reads path and validates its contents. A read failure
// produces a single-issue Result of kind FileAccess rather than a Go
// error, matching the "validation never throws" policy; callers that need
// to distinguish "could not even open the file" from other I/O failures
// should check len(Issues) == 1 && Issues[0].Kind == IssueFileAccess.
func ValidateFile(path string, cfg *bundle.IntervalConfig) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{OK: false, Issues: []Issue{{ID: uuid.NewString(), Line: 0, Kind: IssueFileAccess, Message: err.Error()}}}
	}
	return Validate(string(data), cfg)
}

// eventLine is one parsed event line pending validation.
type eventLine struct {
	line int
	hhmm string
	text string
}

// ParsedEvent is the shape internal/convert needs from an event line:
// just the clock time and activity text, with the line-shape parsing
// rules kept in this one place so the validator and converter can never
// disagree on what counts as a well-formed event line.
type ParsedEvent struct {
	HHMM   string // "HHMM", no colon
	Text   string
	Remark string // "" if none
}

// ParseEventLine parses "HHMMtext[(//|#|;)remark]" per spec.md §4.3. ok is
// false if the line isn't a well-formed event line.
func ParseEventLine(line string) (ParsedEvent, bool) {
	ev, ok := parseEventLine(line)
	if !ok {
		return ParsedEvent{}, false
	}
	rest := line[4:]
	remark := ""
	if idx := indexOfRemarkSeparator(rest); idx >= 0 {
		sepLen := 1
		if rest[idx] == '/' {
			sepLen = 2
		}
		remark = strings.TrimSpace(rest[idx+sepLen:])
	}
	return ParsedEvent{HHMM: ev.hhmm, Text: ev.text, Remark: remark}, true
}

// Validate runs the structural and logical checks of spec.md §4.3 over
// text, a single day-log document (possibly multi-day).
func Validate(text string, cfg *bundle.IntervalConfig) Result {
	var result Result
	result.OK = true

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	dayIndex := -1
	var lastDate string
	var dayEvents []eventLine
	var lastEventTime string

	flushDay := func() {
		if dayIndex < 0 {
			return
		}
		if len(dayEvents) == 0 && dayIndex != 0 {
			result.add(lineNo, IssueLogical, "day has no events and is not the first day in the stream")
		}
		for _, ev := range dayEvents {
			if !cfg.IsKnownEventText(ev.text) {
				result.add(ev.line, IssueLogical, "event text does not match a declared alias, duration-rule keyword, or wake keyword: "+ev.text)
			}
		}
		dayEvents = nil
		lastEventTime = ""
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, cfg.RemarkPrefix) {
			continue // day remark line
		}

		if calendar.IsValid(line) {
			flushDay()
			if lastDate != "" {
				cmp, _ := calendar.Compare(lastDate, line)
				if cmp >= 0 {
					result.add(lineNo, IssueStructural, "date headers must strictly increase: "+lastDate+" then "+line)
				}
			}
			lastDate = line
			dayIndex++
			continue
		}

		if dayIndex < 0 {
			result.add(lineNo, IssueStructural, "content before the first date header")
			continue
		}

		ev, ok := parseEventLine(line)
		if !ok {
			result.add(lineNo, IssueStructural, "line is neither a date header, a remark, nor a well-formed event: "+line)
			continue
		}
		if lastEventTime != "" && ev.hhmm < lastEventTime {
			result.add(lineNo, IssueStructural, "event times must be non-decreasing within a day: "+lastEventTime+" then "+ev.hhmm)
		}
		lastEventTime = ev.hhmm
		dayEvents = append(dayEvents, eventLine{line: lineNo, hhmm: ev.hhmm, text: ev.text})
	}
	flushDay()

	return result
}

// parseEventLine parses "HHMMtext[(//|#|;)remark]" into its hhmm and text
// parts. Returns ok=false if the leading four characters aren't a valid
// HH∈[00,23] MM∈[00,59] pair, or no text follows.
func parseEventLine(line string) (eventLine, bool) {
	if len(line) < 5 {
		return eventLine{}, false
	}
	hh, mm := line[0:2], line[2:4]
	if !isDigits(hh) || !isDigits(mm) {
		return eventLine{}, false
	}
	hour := int(hh[0]-'0')*10 + int(hh[1]-'0')
	minute := int(mm[0]-'0')*10 + int(mm[1]-'0')
	if hour > 23 || minute > 59 {
		return eventLine{}, false
	}

	rest := line[4:]
	text := rest
	if idx := indexOfRemarkSeparator(rest); idx >= 0 {
		text = rest[:idx]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return eventLine{}, false
	}
	return eventLine{hhmm: hh + mm, text: text}, true
}

// indexOfRemarkSeparator finds the earliest occurrence of "//", "#", or
// ";" in s, or -1 if none appear.
func indexOfRemarkSeparator(s string) int {
	best := -1
	for _, sep := range []string{"//", "#", ";"} {
		if idx := strings.Index(s, sep); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	return best
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AsError converts a failed Result into an *xerrors.Error for callers in
// the pipeline that need to treat validation failure as a hard stop
// (e.g. a "validate-structure" facade operation with no downstream
// recovery). Callers wanting the full issue list should use Result
// directly instead.
func AsError(op string, r Result) error {
	if r.OK {
		return nil
	}
	if len(r.Issues) == 1 && r.Issues[0].Kind == IssueFileAccess {
		return xerrors.New(xerrors.KindIO, op, r.Issues[0].Message)
	}
	return xerrors.New(xerrors.KindLogic, op, r.Issues[0].Message)
}
