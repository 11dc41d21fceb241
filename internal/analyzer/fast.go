package analyzer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/internal/config"
)

// runFastChecks runs the lightweight line-oriented lint pass. It is a
// pure function of the content and configuration, so results for the
// same bytes are always identical.
func runFastChecks(path string, content []byte, cfg config.AnalysisConfig) []domain.Violation {
	var violations []domain.Violation

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lineNo := i + 1
		clean := strings.TrimSuffix(line, "\r")

		if cfg.MaxLineLength > 0 && len(clean) > cfg.MaxLineLength {
			violations = append(violations, domain.Violation{
				Kind:     domain.ViolationLint,
				Severity: domain.SeverityLow,
				Message:  fmt.Sprintf("line exceeds %d characters (%d)", cfg.MaxLineLength, len(clean)),
				Location: fmt.Sprintf("%s:%d", path, lineNo),
			})
		}

		if strings.TrimRight(clean, " \t") != clean {
			violations = append(violations, domain.Violation{
				Kind:     domain.ViolationLint,
				Severity: domain.SeverityLow,
				Message:  "trailing whitespace",
				Location: fmt.Sprintf("%s:%d", path, lineNo),
			})
		}

		if strings.Contains(clean, "debugger;") || strings.Contains(clean, "debugger ") ||
			strings.TrimSpace(clean) == "debugger" {
			violations = append(violations, domain.Violation{
				Kind:     domain.ViolationLint,
				Severity: domain.SeverityMedium,
				Message:  "debugger statement left in source",
				Location: fmt.Sprintf("%s:%d", path, lineNo),
			})
		}
	}

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		violations = append(violations, domain.Violation{
			Kind:     domain.ViolationLint,
			Severity: domain.SeverityLow,
			Message:  "missing trailing newline",
			Location: fmt.Sprintf("%s:%d", path, len(lines)),
		})
	}

	return violations
}
