package bundle

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/chronotrace/timemaster/internal/xerrors"
)

// IntervalConfig is the converter's rule table, loaded from the file
// Bundle's paths.converter.interval_config points at. It supplies the
// three vocabularies the source validator and converter need: wake
// keywords, activity aliases (which may expand to hierarchical project
// paths like "study_math"), and duration-rule keywords with a fixed
// length in minutes.
//
// nosleep_probability mirrors the log generator's config field of the
// same name (spec.md §9 Open Questions): the core only carries and
// validates it as a [0, 1] float for the out-of-scope generator to
// consume, it never acts on it itself.
type IntervalConfig struct {
	WakeKeywords        []string          `toml:"wake_keywords"`
	Aliases             map[string]string `toml:"aliases"`
	DurationRuleMinutes map[string]int    `toml:"duration_rule_minutes"`
	NosleepProbability  float64           `toml:"nosleep_probability"`

	// RemarkPrefix marks a line as a day remark rather than an event
	// line. Defaults to "#" when left unset in the TOML source.
	RemarkPrefix string `toml:"remark_prefix"`
}

// LoadIntervalConfig reads and validates the converter rule file at path.
func LoadIntervalConfig(path string) (*IntervalConfig, error) {
	const op = "bundle.LoadIntervalConfig"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindConfig, op, "read interval config", err)
	}
	var c IntervalConfig
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, xerrors.Wrap(xerrors.KindConfig, op, "parse interval config", err)
	}
	if c.RemarkPrefix == "" {
		c.RemarkPrefix = "#"
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *IntervalConfig) validate() error {
	const op = "bundle.LoadIntervalConfig"

	if len(c.WakeKeywords) == 0 {
		return xerrors.New(xerrors.KindConfig, op, "wake_keywords must not be empty")
	}
	for kw, minutes := range c.DurationRuleMinutes {
		if minutes <= 0 {
			return xerrors.New(xerrors.KindConfig, op, "duration_rule_minutes["+kw+"] must be positive")
		}
	}
	if c.NosleepProbability < 0 || c.NosleepProbability > 1 {
		return xerrors.New(xerrors.KindConfig, op, "nosleep_probability must be within [0.0, 1.0]")
	}
	return nil
}

// IsWakeKeyword reports whether text is a configured wake keyword.
func (c *IntervalConfig) IsWakeKeyword(text string) bool {
	for _, kw := range c.WakeKeywords {
		if kw == text {
			return true
		}
	}
	return false
}

// ResolveAlias returns the project path text resolves to, and whether it
// is a declared alias at all.
func (c *IntervalConfig) ResolveAlias(text string) (string, bool) {
	path, ok := c.Aliases[text]
	return path, ok
}

// DurationRule returns the fixed duration (in minutes) declared for text,
// and whether text is a duration-rule keyword at all.
func (c *IntervalConfig) DurationRule(text string) (int, bool) {
	minutes, ok := c.DurationRuleMinutes[text]
	return minutes, ok
}

// IsKnownEventText reports whether text is usable as an event's activity
// text: either a declared alias, a duration-rule keyword, or a wake
// keyword. This backs the source validator's alias/keyword check
// (spec.md §4.3, invariant list item "Every event text matches...").
func (c *IntervalConfig) IsKnownEventText(text string) bool {
	if c.IsWakeKeyword(text) {
		return true
	}
	if _, ok := c.Aliases[text]; ok {
		return true
	}
	if _, ok := c.DurationRuleMinutes[text]; ok {
		return true
	}
	return false
}
