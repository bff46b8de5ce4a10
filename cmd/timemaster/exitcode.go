package main

import "github.com/chronotrace/timemaster/internal/xerrors"

// Exit codes, spec.md §6: "0 success, 3 invalid args, 4 DB error, 5 I/O
// error, 6 logic error, 7 config error, 8 runtime-dependency missing;
// other codes are generic."
const (
	exitSuccess                  = 0
	exitGeneric                  = 1
	exitInvalidArguments         = 3
	exitDatabaseError            = 4
	exitIOError                  = 5
	exitLogicError               = 6
	exitConfigError              = 7
	exitRuntimeDependencyMissing = 8
)

func exitCodeForKind(kind string) int {
	switch xerrors.Kind(kind) {
	case xerrors.KindInvalidArguments:
		return exitInvalidArguments
	case xerrors.KindDatabase:
		return exitDatabaseError
	case xerrors.KindIO:
		return exitIOError
	case xerrors.KindLogic:
		return exitLogicError
	case xerrors.KindConfig:
		return exitConfigError
	case xerrors.KindRuntimeDependencyMissing:
		return exitRuntimeDependencyMissing
	default:
		return exitGeneric
	}
}

// ackError turns a facade DTO's (ErrorKind, ErrorMessage) pair into the
// single error type main() inspects to pick an exit code.
func ackError(op, kind, msg string) error {
	if kind == "" {
		kind = string(xerrors.KindUnknown)
	}
	return xerrors.New(xerrors.Kind(kind), op, msg)
}
