package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/chronotrace/timemaster/internal/bundle"
	"github.com/chronotrace/timemaster/internal/pipeline"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

func parseDateCheck(op, s string) (bundle.DateCheckMode, error) {
	if s == "" {
		s = string(bundle.DateCheckContinuity)
	}
	mode := bundle.DateCheckMode(strings.ToLower(s))
	switch mode {
	case bundle.DateCheckNone, bundle.DateCheckContinuity, bundle.DateCheckFull:
		return mode, nil
	default:
		return "", xerrors.New(xerrors.KindInvalidArguments, op, "date-check must be one of none, continuity, full")
	}
}

var (
	convertInput            string
	convertOutput           string
	convertSaveOutput       bool
	convertDateCheck        string
	convertContinueOnIssues bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Collect, validate, and convert raw logs to the JSON wire format",
	Long: `convert runs pipeline steps 1-4 (collect, validate source, convert,
validate output) without importing anything into the database.`,
	Example: `  timemaster convert --input=logs/ --output=processed/
  timemaster convert --input=logs/ --output=processed/ --continue-on-issues`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster convert"
		defaults := commandDefaults("convert")

		if !cmd.Flags().Changed("save-output") {
			convertSaveOutput = defaults.SaveProcessedOutput
		}
		if !cmd.Flags().Changed("date-check") && defaults.DateCheck != "" {
			convertDateCheck = string(defaults.DateCheck)
		}

		dateCheck, err := parseDateCheck(op, convertDateCheck)
		if err != nil {
			return err
		}

		ack := app.Facade.RunConvert(cmd.Context(), pipeline.Options{
			InputRoot:              convertInput,
			OutputRoot:             convertOutput,
			SaveProcessedOutput:    convertSaveOutput,
			DateCheck:              dateCheck,
			ContinueOnSourceIssues: convertContinueOnIssues,
		})
		if !ack.OK {
			return ackError(op, ack.ErrorKind, ack.ErrorMessage)
		}
		successColor.Println("convert complete")
		return nil
	},
}

var (
	ingestInput            string
	ingestOutput           string
	ingestDateCheck        string
	ingestContinueOnIssues bool
)

var ingestCmd = &cobra.Command{
	Use:     "ingest",
	Aliases: []string{"blink"},
	Short:   "Run the full pipeline: collect through import, in one pass",
	Long: `ingest runs all five pipeline steps: collect, validate source,
convert, validate output, import. It is the one-shot path from a
directory of raw daily logs straight into the database.`,
	Example: `  timemaster ingest --input=logs/ --output=processed/
  timemaster blink --input=logs/ --output=processed/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster ingest"
		defaults := commandDefaults("ingest")
		if !cmd.Flags().Changed("date-check") && defaults.DateCheck != "" {
			ingestDateCheck = string(defaults.DateCheck)
		}

		dateCheck, err := parseDateCheck(op, ingestDateCheck)
		if err != nil {
			return err
		}

		ack := app.Facade.RunIngest(cmd.Context(), pipeline.Options{
			InputRoot:              ingestInput,
			OutputRoot:             ingestOutput,
			SaveProcessedOutput:    true,
			DateCheck:              dateCheck,
			ContinueOnSourceIssues: ingestContinueOnIssues,
		})
		if !ack.OK {
			return ackError(op, ack.ErrorKind, ack.ErrorMessage)
		}
		successColor.Println("ingest complete")
		return nil
	},
}

var importInput string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import already-converted JSON files into the database",
	Long: `import runs pipeline step 5 alone: it reads converted-day JSON
files from --input and loads them into the database. When --input holds
a single file covering one month, that month is replaced; otherwise the
days are appended.`,
	Example: `  timemaster import --input=processed/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster import"
		ack := app.Facade.RunImport(cmd.Context(), pipeline.Options{InputRoot: importInput})
		if !ack.OK {
			return ackError(op, ack.ErrorKind, ack.ErrorMessage)
		}
		successColor.Println("import complete")
		return nil
	},
}

var validateStructureInput string

var validateStructureCmd = &cobra.Command{
	Use:   "validate-structure",
	Short: "Validate raw log files without converting or importing them",
	Example: `  timemaster validate-structure --input=logs/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster validate-structure"
		ack := app.Facade.RunValidateStructure(cmd.Context(), pipeline.Options{InputRoot: validateStructureInput})
		if !ack.OK {
			return ackError(op, ack.ErrorKind, ack.ErrorMessage)
		}
		successColor.Println("source structure is valid")
		return nil
	},
}

var (
	validateLogicInput     string
	validateLogicDateCheck string
)

var validateLogicCmd = &cobra.Command{
	Use:   "validate-logic",
	Short: "Validate already-converted JSON files' invariants",
	Long: `validate-logic runs the output validator alone over converted-day
JSON files found under --input: continuity, overlap, and duration
invariants, with no conversion and no import.`,
	Example: `  timemaster validate-logic --input=processed/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster validate-logic"
		defaults := commandDefaults("validate-logic")
		if !cmd.Flags().Changed("date-check") && defaults.DateCheck != "" {
			validateLogicDateCheck = string(defaults.DateCheck)
		}

		dateCheck, err := parseDateCheck(op, validateLogicDateCheck)
		if err != nil {
			return err
		}

		ack := app.Facade.RunValidateLogic(cmd.Context(), pipeline.Options{
			InputRoot: validateLogicInput,
			DateCheck: dateCheck,
		})
		if !ack.OK {
			return ackError(op, ack.ErrorKind, ack.ErrorMessage)
		}
		successColor.Println("output logic is valid")
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertInput, "input", "", "root directory of raw .txt log files (required)")
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "root directory to write converted .json files under")
	convertCmd.Flags().BoolVar(&convertSaveOutput, "save-output", false, "write converted JSON to --output (when not given: commands.convert.save_processed_output)")
	convertCmd.Flags().StringVar(&convertDateCheck, "date-check", "", "continuity check mode: none, continuity, full")
	convertCmd.Flags().BoolVar(&convertContinueOnIssues, "continue-on-issues", false, "keep converting files that fail source validation")
	_ = convertCmd.MarkFlagRequired("input")

	ingestCmd.Flags().StringVar(&ingestInput, "input", "", "root directory of raw .txt log files (required)")
	ingestCmd.Flags().StringVar(&ingestOutput, "output", "", "root directory to write converted .json files under (required)")
	ingestCmd.Flags().StringVar(&ingestDateCheck, "date-check", "", "continuity check mode: none, continuity, full")
	ingestCmd.Flags().BoolVar(&ingestContinueOnIssues, "continue-on-issues", false, "keep converting files that fail source validation")
	_ = ingestCmd.MarkFlagRequired("input")
	_ = ingestCmd.MarkFlagRequired("output")

	importCmd.Flags().StringVar(&importInput, "input", "", "root directory of converted .json files (required)")
	_ = importCmd.MarkFlagRequired("input")

	validateStructureCmd.Flags().StringVar(&validateStructureInput, "input", "", "root directory of raw .txt log files (required)")
	_ = validateStructureCmd.MarkFlagRequired("input")

	validateLogicCmd.Flags().StringVar(&validateLogicInput, "input", "", "root directory of converted .json files (required)")
	validateLogicCmd.Flags().StringVar(&validateLogicDateCheck, "date-check", "", "continuity check mode: none, continuity, full")
	_ = validateLogicCmd.MarkFlagRequired("input")
}
