package bundle

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/chronotrace/timemaster/internal/xerrors"
)

// DateCheckMode is the continuity-checking mode a command defaults to;
// one of the three values the output validator (C5) understands.
type DateCheckMode string

const (
	DateCheckNone       DateCheckMode = "none"
	DateCheckContinuity DateCheckMode = "continuity"
	DateCheckFull       DateCheckMode = "full"
)

func (m DateCheckMode) valid() bool {
	switch m {
	case DateCheckNone, DateCheckContinuity, DateCheckFull:
		return true
	default:
		return false
	}
}

// CommandDefaults is one command's entry under commands.<cmd> in
// commands.toml: the flag defaults the CLI falls back to when the user
// didn't pass an explicit override.
type CommandDefaults struct {
	Format              string        `toml:"format"`
	DateCheck           DateCheckMode `toml:"date_check"`
	SaveProcessedOutput bool          `toml:"save_processed_output"`
	ValidateLogic       bool          `toml:"validate_logic"`
	ValidateStructure   bool          `toml:"validate_structure"`
}

// CommandDefaultsFile is the decoded commands.toml: a map from command
// name ("convert", "ingest", "import", ...) to its defaults.
type CommandDefaultsFile struct {
	Commands map[string]CommandDefaults `toml:"commands"`
}

// LoadCommandDefaults reads and validates commands.toml at path.
func LoadCommandDefaults(path string) (*CommandDefaultsFile, error) {
	const op = "bundle.LoadCommandDefaults"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindConfig, op, "read commands.toml", err)
	}
	var f CommandDefaultsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, xerrors.Wrap(xerrors.KindConfig, op, "parse commands.toml", err)
	}
	for name, d := range f.Commands {
		if d.DateCheck != "" && !d.DateCheck.valid() {
			return nil, xerrors.New(xerrors.KindConfig, op,
				"commands."+name+".date_check must be one of none, continuity, full")
		}
	}
	return &f, nil
}

// For returns the defaults declared for cmd, or the zero value (format
// unset, date_check empty, all booleans false) if cmd has no entry.
func (f *CommandDefaultsFile) For(cmd string) CommandDefaults {
	return f.Commands[cmd]
}
