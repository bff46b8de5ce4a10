package convert

import (
	"bufio"
	"strings"

	"github.com/chronotrace/timemaster/internal/bundle"
	"github.com/chronotrace/timemaster/internal/calendar"
	"github.com/chronotrace/timemaster/internal/model"
	"github.com/chronotrace/timemaster/internal/sourcevalidate"
)

// ParseRawText splits a (previously source-validated) text document into
// one model.DailyLog per date header, with RawEvents and GeneralRemarks
// populated but ProcessedActivities still empty — the input shape
// Convert expects.
//
// This assumes text already passed sourcevalidate.Validate; it does not
// re-check line shapes, it trusts them.
func ParseRawText(text string, cfg *bundle.IntervalConfig) []model.DailyLog {
	var days []model.DailyLog
	var cur *model.DailyLog

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, cfg.RemarkPrefix) {
			if cur != nil {
				cur.GeneralRemarks = append(cur.GeneralRemarks, strings.TrimSpace(strings.TrimPrefix(line, cfg.RemarkPrefix)))
			}
			continue
		}
		if calendar.IsValid(line) {
			days = append(days, model.DailyLog{Date: line})
			cur = &days[len(days)-1]
			continue
		}
		if cur == nil {
			continue
		}
		if ev, ok := parseEventLineLocal(line); ok {
			cur.RawEvents = append(cur.RawEvents, model.RawEvent{
				Time:   ev.Time,
				Text:   ev.Text,
				Remark: ev.Remark,
			})
		}
	}
	return days
}

type parsedEvent struct {
	Time   string
	Text   string
	Remark string
}

// parseEventLineLocal adapts sourcevalidate's line-shape parser, which
// returns a compact "HHMM" clock field, into the "HH:MM" shape the rest
// of the converter works with.
func parseEventLineLocal(line string) (parsedEvent, bool) {
	ev, ok := sourcevalidate.ParseEventLine(line)
	if !ok {
		return parsedEvent{}, false
	}
	return parsedEvent{Time: ev.HHMM[0:2] + ":" + ev.HHMM[2:4], Text: ev.Text, Remark: ev.Remark}, true
}
