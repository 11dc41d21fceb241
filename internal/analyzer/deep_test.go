package analyzer

import (
	"testing"

	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/internal/config"
	"github.com/ludo-technologies/qscan/internal/parser"
	"github.com/ludo-technologies/qscan/internal/testutil"
)

func countKind(violations []domain.Violation, kind domain.ViolationKind) int {
	count := 0
	for _, v := range violations {
		if v.Kind == kind {
			count++
		}
	}
	return count
}

func TestRunDeepChecks_DeniedCallOnAST(t *testing.T) {
	ast := testutil.CreateTestAST(t, `eval(input);`)
	violations := runDeepChecks("test.js", ast, config.DefaultConfig().Analysis)

	testutil.AssertEqual(t, 1, countKind(violations, domain.ViolationSecurity))
	testutil.AssertEqual(t, domain.SeverityCritical, violations[0].Severity)
}

func TestRunDeepChecks_FindsEveryCommentMarker(t *testing.T) {
	source := `// TODO: wire retries
function outer() {
  // FIXME: off by one
  function inner() {
    return 1;
  }
  return inner();
}
`
	ast := testutil.CreateTestAST(t, source)
	violations := runDeepChecks("test.js", ast, config.DefaultConfig().Analysis)

	comments := testutil.CountNodesOfType(ast, parser.NodeComment)
	testutil.AssertEqual(t, comments, countKind(violations, domain.ViolationHallucination))
}

func TestRunDeepChecks_StubOnlyFlagsEmptyFunction(t *testing.T) {
	source := `function empty() {}
function real() { return 42; }
`
	ast := testutil.CreateTestAST(t, source)

	testutil.AssertEqual(t, 2, testutil.CountFunctionsInAST(ast))
	testutil.AssertNotNil(t, testutil.FindFunctionInAST(ast, "empty"))

	violations := runDeepChecks("test.js", ast, config.DefaultConfig().Analysis)
	testutil.AssertEqual(t, 1, countKind(violations, domain.ViolationHallucination))
}

func TestRunDeepChecks_CleanTreeHasNoFindings(t *testing.T) {
	ast := testutil.CreateTestAST(t, `function add(a, b) { return a + b; }`)
	violations := runDeepChecks("test.js", ast, config.DefaultConfig().Analysis)
	testutil.AssertEqual(t, 0, len(violations))
}
