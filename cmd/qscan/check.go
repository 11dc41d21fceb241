package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/qscan/app"
	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkFormat     string
	checkJSON       bool
	checkDetails    bool
	checkWorkers    int
	checkRecursive  bool
	checkExclude    []string
	checkConfigPath string
	checkOutputPath string
	checkVerbose    bool
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Run the quality gate over the given paths",
		Long: `Classify each file by criticality, run the matching analysis depth,
and fail if any analyzed file does not pass.

Exit codes:
  0 - All analyzed files pass
  1 - At least one file failed the gate
  2 - The gate could not run (bad path, config error, etc.)

Examples:
  # Gate a source tree with defaults
  qscan check src/

  # JSON output for machine parsing
  qscan check --json src/

  # More workers, extra excludes
  qscan check --workers 8 --exclude generated src/

  # Per-violation detail in text output
  qscan check --details src/`,
		RunE:          runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().StringVarP(&checkFormat, "format", "f", "text",
		"Output format: text, json, yaml")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVarP(&checkDetails, "details", "d", false,
		"Show individual violations in text output")
	cmd.Flags().IntVarP(&checkWorkers, "workers", "w", 0,
		"Number of analysis workers (0 = use config)")
	cmd.Flags().BoolVarP(&checkRecursive, "recursive", "r", false,
		"Recurse into subdirectories")
	cmd.Flags().StringSliceVarP(&checkExclude, "exclude", "e", nil,
		"Additional exclude patterns")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVarP(&checkOutputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false,
		"Log pipeline activity to stderr")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) (err error) {
	if len(args) == 0 {
		return &CheckExitError{Code: 2, Message: "no paths specified"}
	}

	format := domain.OutputFormat(checkFormat)
	if checkJSON {
		format = domain.OutputFormatJSON
	}

	// Determine output writer
	var writer io.Writer = os.Stdout
	if checkOutputPath != "" {
		f, createErr := os.Create(checkOutputPath)
		if createErr != nil {
			return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to create output file: %v", createErr)}
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to close output file: %v", closeErr)}
			}
		}()
		writer = f
	}

	// Progress bars only make sense for text output on a terminal
	pm := service.NewProgressManager(format == domain.OutputFormatText && checkOutputPath == "")
	defer pm.Close()

	logLevel := slog.LevelWarn
	if checkVerbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// Flag values override whatever the discovered config provides
	loader := service.NewConfigurationLoader()
	req := loader.MergeConfig(loader.LoadDefaultConfig(), &domain.CheckRequest{
		Paths:           args,
		OutputFormat:    format,
		OutputWriter:    writer,
		ShowDetails:     checkDetails,
		ConfigPath:      checkConfigPath,
		ExcludePatterns: checkExclude,
		Workers:         checkWorkers,
	})
	if checkRecursive {
		req.Recursive = true
	}
	if err := loader.ValidateConfig(req); err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	uc := app.NewCheckUseCase(service.NewOutputFormatter(), pm, logger)
	result, execErr := uc.Execute(context.Background(), req)
	if execErr != nil {
		return &CheckExitError{Code: 2, Message: execErr.Error()}
	}

	if checkOutputPath != "" {
		absPath, _ := filepath.Abs(checkOutputPath)
		fmt.Printf("Report saved to: %s\n", absPath)
	}

	if result.ExitCode != 0 {
		return &CheckExitError{Code: result.ExitCode, Message: ""}
	}
	return nil
}
