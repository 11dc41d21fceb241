package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ludo-technologies/qscan/app"
	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/internal/analyzer"
	"github.com/ludo-technologies/qscan/internal/config"
	"github.com/ludo-technologies/qscan/service"
	"github.com/spf13/cobra"
)

// classifyTask classifies one file into a fixed slot of the shared
// result slice, so tasks never contend
type classifyTask struct {
	classifier *analyzer.Classifier
	path       string
	diffLines  int
	out        []domain.FileClassification
	slot       int
}

func (t *classifyTask) Name() string    { return t.path }
func (t *classifyTask) IsEnabled() bool { return true }

func (t *classifyTask) Execute(ctx context.Context) (interface{}, error) {
	t.out[t.slot] = t.classifier.Classify(t.path, t.diffLines)
	return nil, nil
}

var (
	classifyDiffLines  int
	classifyJSON       bool
	classifyConfigPath string
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [path...]",
		Short: "Show how files would be classified, without analyzing them",
		Long: `Score each file's criticality and print the analysis depth the gate
would choose for it. Useful for tuning critical patterns and thresholds.

Examples:
  # Inspect a source tree
  qscan classify src/

  # Simulate a large change to every file
  qscan classify --diff-lines 200 src/

  # JSON for machine parsing
  qscan classify --json src/`,
		RunE: runClassify,
	}

	cmd.Flags().IntVar(&classifyDiffLines, "diff-lines", 0,
		"Changed line count to score each file with")
	cmd.Flags().BoolVar(&classifyJSON, "json", false,
		"Output classifications as JSON")
	cmd.Flags().StringVarP(&classifyConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	cfg, err := config.LoadConfigWithTarget(classifyConfigPath, args[0])
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Classification covers every file the gate would see, including
	// the non-source ones it skips, so collect with all extensions kept
	fileHelper := app.NewFileHelper(cfg.Classifier.SourceExtensions, cfg.Files.RespectGitignore)
	files, err := fileHelper.CollectSourceFiles(args, cfg.Files.Recursive, cfg.Files.ExcludePatterns)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no source files found")
	}

	// Symbol scans read file contents, so classification is spread
	// across the pool's worker count
	classifier := analyzer.NewClassifier(cfg.Classifier)
	classifications := make([]domain.FileClassification, len(files))
	tasks := make([]domain.ExecutableTask, len(files))
	for i, file := range files {
		tasks[i] = &classifyTask{
			classifier: classifier,
			path:       file,
			diffLines:  classifyDiffLines,
			out:        classifications,
			slot:       i,
		}
	}

	executor := service.NewParallelExecutorFromConfig(&cfg.Pool)
	if err := executor.Execute(context.Background(), tasks); err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if classifyJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(classifications)
	}

	for _, c := range classifications {
		fmt.Printf("%-5s %.2f  %s\n", strings.ToUpper(string(c.Mode)), c.Score, c.Path)
		for _, reason := range c.Reasons {
			fmt.Printf("            - %s\n", reason)
		}
	}
	return nil
}
