package analyzer

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/internal/config"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(config.DefaultConfig().Analysis, nil)
}

func analyzeDeepSource(t *testing.T, source string) *domain.QualityResult {
	t.Helper()
	a := newTestAnalyzer()
	return a.Analyze(context.Background(), "test.js", []byte(source), domain.AnalysisModeDeep)
}

func TestAnalyze_DeepHardcodedSecret(t *testing.T) {
	result := analyzeDeepSource(t, `const password = "hardcoded123";`+"\n")

	if result.CountByKind(domain.ViolationSecurity) == 0 {
		t.Fatalf("expected a security violation, got %+v", result.Violations)
	}
	if result.Passed {
		t.Error("expected failed result for hardcoded secret")
	}
}

func TestAnalyze_DeepSecretViaAssignment(t *testing.T) {
	source := `let apiKey;
apiKey = "sk-12345";
`
	result := analyzeDeepSource(t, source)

	if result.CountByKind(domain.ViolationSecurity) == 0 {
		t.Fatalf("expected a security violation, got %+v", result.Violations)
	}
}

func TestAnalyze_DeepDeniedCall(t *testing.T) {
	result := analyzeDeepSource(t, `const out = eval(userInput);`+"\n")

	if result.CountByKind(domain.ViolationSecurity) == 0 {
		t.Fatalf("expected a security violation for eval, got %+v", result.Violations)
	}
	if result.Passed {
		t.Error("expected failed result for denied call")
	}
}

func TestAnalyze_DeepDeniedMemberCall(t *testing.T) {
	source := `const cp = require("child_process");
cp.exec(cmd);
`
	result := analyzeDeepSource(t, source)

	found := false
	for _, v := range result.Violations {
		if v.Kind == domain.ViolationSecurity && strings.Contains(v.Message, "exec") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected denied member call violation, got %+v", result.Violations)
	}
}

func TestAnalyze_DeepClassWithTooManyMethods(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("class God {\n")
	for i := 0; i < 12; i++ {
		sb.WriteString("  method")
		sb.WriteByte(byte('a' + i))
		sb.WriteString("() { return 1; }\n")
	}
	sb.WriteString("}\n")

	result := analyzeDeepSource(t, sb.String())

	if result.CountByKind(domain.ViolationSOLID) == 0 {
		t.Fatalf("expected an SRP violation, got %+v", result.Violations)
	}
}

func TestAnalyze_DeepConstructionInMethod(t *testing.T) {
	source := `class Service {
  handle() {
    const db = new Database();
    return db.query();
  }
}
`
	result := analyzeDeepSource(t, source)

	found := false
	for _, v := range result.Violations {
		if v.Kind == domain.ViolationSOLID && strings.Contains(v.Message, "Database") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected dependency injection violation, got %+v", result.Violations)
	}
}

func TestAnalyze_DeepConstructorExempt(t *testing.T) {
	source := `class Service {
  constructor() {
    this.db = new Database();
  }
}
`
	result := analyzeDeepSource(t, source)

	for _, v := range result.Violations {
		if v.Kind == domain.ViolationSOLID {
			t.Errorf("constructor construction should not be flagged: %+v", v)
		}
	}
}

func TestAnalyze_DeepTodoComment(t *testing.T) {
	source := `// TODO: handle the error path
function handle(x) { return x; }
`
	result := analyzeDeepSource(t, source)

	if result.CountByKind(domain.ViolationHallucination) == 0 {
		t.Fatalf("expected an incompleteness violation, got %+v", result.Violations)
	}
}

func TestAnalyze_DeepStubBodies(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty body", "function stub() {}\n"},
		{"not implemented throw", `function later() { throw new Error("not implemented"); }` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzeDeepSource(t, tt.source)
			if result.CountByKind(domain.ViolationHallucination) == 0 {
				t.Errorf("expected a stub violation, got %+v", result.Violations)
			}
		})
	}
}

func TestAnalyze_DeepCleanFilePasses(t *testing.T) {
	source := `function add(a, b) {
  return a + b;
}
`
	result := analyzeDeepSource(t, source)

	if !result.Passed {
		t.Errorf("expected clean file to pass, got %+v", result.Violations)
	}
	if result.Score != 10.0 {
		t.Errorf("expected score 10, got %f", result.Score)
	}
	if result.AnalysisMode != domain.AnalysisModeDeep {
		t.Errorf("expected deep mode, got %s", result.AnalysisMode)
	}
}

func TestAnalyze_DeepParseFailureFallsBackToFast(t *testing.T) {
	a := newTestAnalyzer()
	source := "def run():\n    return 1\n"

	result := a.Analyze(context.Background(), "script.py", []byte(source), domain.AnalysisModeDeep)

	found := false
	for _, v := range result.Violations {
		if v.Kind == domain.ViolationLint && strings.Contains(v.Message, "could not be parsed") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected parse fallback violation, got %+v", result.Violations)
	}
	if result.AnalysisMode != domain.AnalysisModeDeep {
		t.Errorf("expected deep mode on result, got %s", result.AnalysisMode)
	}
}

func TestAnalyze_FastLongLine(t *testing.T) {
	a := newTestAnalyzer()
	source := strings.Repeat("x", 200) + "\n"

	result := a.Analyze(context.Background(), "long.js", []byte(source), domain.AnalysisModeFast)

	if result.CountByKind(domain.ViolationLint) == 0 {
		t.Fatalf("expected a lint violation, got %+v", result.Violations)
	}
	if result.AnalysisMode != domain.AnalysisModeFast {
		t.Errorf("expected fast mode, got %s", result.AnalysisMode)
	}
}

func TestAnalyze_FastTrailingWhitespaceAndDebugger(t *testing.T) {
	a := newTestAnalyzer()
	source := "const x = 1;  \ndebugger;\n"

	result := a.Analyze(context.Background(), "dirty.js", []byte(source), domain.AnalysisModeFast)

	if result.CountByKind(domain.ViolationLint) < 2 {
		t.Errorf("expected trailing whitespace and debugger findings, got %+v", result.Violations)
	}
}

func TestAnalyze_FastCleanFilePasses(t *testing.T) {
	a := newTestAnalyzer()
	source := "const x = 1;\n"

	result := a.Analyze(context.Background(), "clean.js", []byte(source), domain.AnalysisModeFast)

	if !result.Passed {
		t.Errorf("expected clean file to pass, got %+v", result.Violations)
	}
	if len(result.Violations) != 0 {
		t.Errorf("expected no violations, got %+v", result.Violations)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := newTestAnalyzer()
	source := []byte(`const password = "hunter2";
// TODO: rotate credentials
function stub() {}
` + strings.Repeat("y", 150) + "\n")

	for _, mode := range []domain.AnalysisMode{domain.AnalysisModeFast, domain.AnalysisModeDeep} {
		first := a.Analyze(context.Background(), "same.js", source, mode)
		second := a.Analyze(context.Background(), "same.js", source, mode)

		// Wall-clock duration is informational and excluded from the
		// deterministic payload
		first.DurationMS = 0
		second.DurationMS = 0

		if !reflect.DeepEqual(first, second) {
			t.Errorf("mode %s not deterministic:\n%+v\n%+v", mode, first, second)
		}
	}
}

func TestAnalyze_CriticalFindingFailsRegardlessOfScore(t *testing.T) {
	cfg := config.DefaultConfig().Analysis
	cfg.Weights["security"] = 0.1
	a := NewAnalyzer(cfg, nil)

	result := a.Analyze(context.Background(), "test.js",
		[]byte(`const secretToken = "abc123";`+"\n"), domain.AnalysisModeDeep)

	if result.Score < cfg.PassThreshold {
		t.Fatalf("test setup: score %f should clear threshold %f", result.Score, cfg.PassThreshold)
	}
	if result.Passed {
		t.Error("critical violation must fail the gate even with a passing score")
	}
}

func TestAnalyze_ScoreFloorsAtZero(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString(`eval(x);`)
		sb.WriteString("\n")
	}

	result := analyzeDeepSource(t, sb.String())

	if result.Score != 0 {
		t.Errorf("expected score floored at 0, got %f", result.Score)
	}
	if result.Passed {
		t.Error("expected failed result")
	}
}
