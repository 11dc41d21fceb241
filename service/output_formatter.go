package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/qscan/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Write writes the check result in the specified format
func (f *OutputFormatterImpl) Write(result *domain.CheckResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(result, writer)
	case domain.OutputFormatYAML:
		return f.writeYAML(result, writer)
	case domain.OutputFormatText:
		return f.writeText(result, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *OutputFormatterImpl) writeJSON(result *domain.CheckResult, writer io.Writer) error {
	if err := WriteJSON(writer, result); err != nil {
		return domain.NewOutputError("failed to encode JSON output", err)
	}
	return nil
}

func (f *OutputFormatterImpl) writeYAML(result *domain.CheckResult, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(result); err != nil {
		return domain.NewOutputError("failed to encode YAML output", err)
	}
	return nil
}

func (f *OutputFormatterImpl) writeText(result *domain.CheckResult, writer io.Writer) error {
	var sb strings.Builder

	sb.WriteString("Quality Gate\n")
	sb.WriteString(strings.Repeat("=", 50))
	sb.WriteString("\n\n")

	for _, file := range result.Files {
		sb.WriteString(f.formatFileReport(&file))
	}

	summary := result.Summary
	sb.WriteString("Summary\n")
	sb.WriteString(strings.Repeat("-", 50))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Submitted:   %d\n", summary.FilesSubmitted))
	sb.WriteString(fmt.Sprintf("  Analyzed:    %d (deep: %d, fast: %d)\n",
		summary.FilesAnalyzed, summary.DeepAnalyses, summary.FastAnalyses))
	sb.WriteString(fmt.Sprintf("  Skipped:     %d\n", summary.FilesSkipped))
	sb.WriteString(fmt.Sprintf("  Failed:      %d\n", summary.FilesFailed))
	sb.WriteString(fmt.Sprintf("  Cache hits:  %d\n", summary.CacheHits))
	sb.WriteString(fmt.Sprintf("  Violations:  %d\n", summary.TotalViolations))
	sb.WriteString("\n")

	if result.Passed {
		sb.WriteString("Result: PASSED\n")
	} else {
		sb.WriteString("Result: FAILED\n")
	}

	if _, err := fmt.Fprint(writer, sb.String()); err != nil {
		return domain.NewOutputError("failed to write text output", err)
	}
	return nil
}

func (f *OutputFormatterImpl) formatFileReport(file *domain.FileReport) string {
	var sb strings.Builder

	status := "PASS"
	switch {
	case file.Error != "":
		status = "ERROR"
	case file.Result != nil && !file.Result.Passed:
		status = "FAIL"
	case file.Classification.Mode == domain.AnalysisModeSkip:
		status = "SKIP"
	}

	sb.WriteString(fmt.Sprintf("[%s] %s", status, file.Path))
	if file.Result != nil && file.Classification.Mode != domain.AnalysisModeSkip {
		sb.WriteString(fmt.Sprintf(" (score %.1f, %s", file.Result.Score, file.Result.AnalysisMode))
		if file.CacheHit {
			sb.WriteString(", cached")
		}
		sb.WriteString(")")
	}
	sb.WriteString("\n")

	if file.Error != "" {
		sb.WriteString(fmt.Sprintf("    error: %s\n", file.Error))
	}

	if file.Result != nil {
		for _, v := range file.Result.Violations {
			sb.WriteString(fmt.Sprintf("    %s [%s/%s] %s\n",
				v.Location, kindLabel(v.Kind), v.Severity, v.Message))
		}
	}

	return sb.String()
}

// kindLabel renders a violation kind for text output
func kindLabel(kind domain.ViolationKind) string {
	switch kind {
	case domain.ViolationSOLID:
		return "SOLID"
	case domain.ViolationSecurity:
		return "SECURITY"
	case domain.ViolationHallucination:
		return "HALLUCINATION"
	case domain.ViolationLint:
		return "LINT"
	default:
		return strings.ToUpper(string(kind))
	}
}
