package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/internal/config"
	"github.com/ludo-technologies/qscan/internal/parser"
)

// deepVisitor collects structural, security, and incompleteness findings
// from a parsed syntax tree
type deepVisitor struct {
	path    string
	cfg     config.AnalysisConfig
	denySet map[string]bool
	found   []deepFinding
}

type deepFinding struct {
	violation domain.Violation
	line      int
}

// runDeepChecks walks the tree and returns findings sorted by source
// position, so results for the same bytes are always identical
func runDeepChecks(path string, root *parser.Node, cfg config.AnalysisConfig) []domain.Violation {
	v := &deepVisitor{
		path:    path,
		cfg:     cfg,
		denySet: make(map[string]bool, len(cfg.DenyList)),
	}
	for _, name := range cfg.DenyList {
		v.denySet[name] = true
	}

	root.Walk(func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeClass:
			v.checkClassSize(n)
		case parser.NodeMethodDefinition:
			v.checkConcreteConstruction(n)
		case parser.NodeCallExpression, parser.NodeNewExpression:
			v.checkDeniedCall(n)
		case parser.NodeAssignmentExpression:
			v.checkSecretAssignment(n.Left, n.Right)
		case parser.NodeVariableDeclarator:
			v.checkSecretAssignment(n, n.Init)
		case parser.NodeComment:
			v.checkIncompletenessMarker(n)
		}
		if n.IsFunction() {
			v.checkStubBody(n)
		}
		return true
	})

	sort.SliceStable(v.found, func(i, j int) bool {
		if v.found[i].line != v.found[j].line {
			return v.found[i].line < v.found[j].line
		}
		return v.found[i].violation.Message < v.found[j].violation.Message
	})

	violations := make([]domain.Violation, 0, len(v.found))
	for _, f := range v.found {
		violations = append(violations, f.violation)
	}
	return violations
}

func (v *deepVisitor) add(kind domain.ViolationKind, severity domain.Severity, loc parser.Location, message string) {
	v.found = append(v.found, deepFinding{
		violation: domain.Violation{
			Kind:     kind,
			Severity: severity,
			Message:  message,
			Location: fmt.Sprintf("%s:%d", v.path, loc.StartLine),
		},
		line: loc.StartLine,
	})
}

// checkClassSize flags classes whose method count suggests too many
// responsibilities
func (v *deepVisitor) checkClassSize(class *parser.Node) {
	methods := 0
	for _, member := range class.Body {
		if member.Type == parser.NodeMethodDefinition {
			methods++
		}
	}
	if methods > v.cfg.MaxMethodsPerClass {
		name := class.Name
		if name == "" {
			name = "(anonymous)"
		}
		v.add(domain.ViolationSOLID, domain.SeverityMedium, class.Location,
			fmt.Sprintf("class %s has %d methods (limit %d); consider splitting responsibilities",
				name, methods, v.cfg.MaxMethodsPerClass))
	}
}

// checkConcreteConstruction flags new-expressions inside method bodies,
// which couple the class to concrete implementations instead of
// injected dependencies
func (v *deepVisitor) checkConcreteConstruction(method *parser.Node) {
	if method.Name == "constructor" {
		return
	}
	for _, stmt := range method.Body {
		stmt.Walk(func(n *parser.Node) bool {
			if n.IsFunction() {
				return false
			}
			if n.Type == parser.NodeNewExpression {
				target := n.CalleeName()
				if target == "" {
					target = "a concrete type"
				}
				v.add(domain.ViolationSOLID, domain.SeverityLow, n.Location,
					fmt.Sprintf("method %s constructs %s directly; prefer dependency injection",
						method.Name, target))
			}
			return true
		})
	}
}

// checkDeniedCall flags calls to deny-listed names such as eval
func (v *deepVisitor) checkDeniedCall(call *parser.Node) {
	name := call.CalleeName()
	if name == "" {
		return
	}
	if v.denySet[name] {
		v.add(domain.ViolationSecurity, domain.SeverityCritical, call.Location,
			fmt.Sprintf("call to denied function %q", name))
		return
	}
	// Member calls also match on the bare property name, so
	// "require('child_process').exec(...)" is caught by "exec"
	if idx := strings.LastIndex(name, "."); idx >= 0 && v.denySet[name[idx+1:]] {
		v.add(domain.ViolationSecurity, domain.SeverityCritical, call.Location,
			fmt.Sprintf("call to denied function %q", name))
	}
}

// checkSecretAssignment flags string literals assigned to names that
// look like credentials
func (v *deepVisitor) checkSecretAssignment(target, value *parser.Node) {
	if target == nil || value == nil {
		return
	}
	if value.Type != parser.NodeStringLiteral && value.Type != parser.NodeTemplateLiteral {
		return
	}
	name := assignedName(target)
	if name == "" {
		return
	}
	lower := strings.ToLower(name)
	for _, pattern := range v.cfg.SecretPatterns {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			v.add(domain.ViolationSecurity, domain.SeverityCritical, value.Location,
				fmt.Sprintf("hardcoded secret assigned to %q", name))
			return
		}
	}
}

// assignedName extracts the identifier an assignment or declarator
// targets; member targets resolve to their final property name
func assignedName(target *parser.Node) string {
	switch target.Type {
	case parser.NodeIdentifier:
		return target.Name
	case parser.NodeVariableDeclarator:
		return target.Name
	case parser.NodeMemberExpression:
		if target.Property != nil {
			return target.Property.Name
		}
	}
	return target.Name
}

// checkIncompletenessMarker flags TODO and FIXME comments
func (v *deepVisitor) checkIncompletenessMarker(comment *parser.Node) {
	upper := strings.ToUpper(comment.Raw)
	for _, marker := range []string{"TODO", "FIXME", "XXX", "HACK"} {
		if strings.Contains(upper, marker) {
			v.add(domain.ViolationHallucination, domain.SeverityLow, comment.Location,
				fmt.Sprintf("incompleteness marker %s in comment", marker))
			return
		}
	}
}

// checkStubBody flags functions that are empty or only throw a
// not-implemented error
func (v *deepVisitor) checkStubBody(fn *parser.Node) {
	stmts := substantiveStatements(fn.Body)

	name := fn.Name
	if name == "" {
		name = "(anonymous)"
	}

	if len(stmts) == 0 {
		v.add(domain.ViolationHallucination, domain.SeverityMedium, fn.Location,
			fmt.Sprintf("function %s has an empty body", name))
		return
	}

	if len(stmts) == 1 && stmts[0].Type == parser.NodeThrowStatement {
		if strings.Contains(strings.ToLower(stmts[0].Raw), "not implemented") {
			v.add(domain.ViolationHallucination, domain.SeverityMedium, fn.Location,
				fmt.Sprintf("function %s only throws a not-implemented error", name))
		}
	}
}

// substantiveStatements filters comments and empty statements out of a
// body, descending into a single wrapping block
func substantiveStatements(body []*parser.Node) []*parser.Node {
	if len(body) == 1 && body[0].Type == parser.NodeBlockStatement {
		body = body[0].Body
	}
	var stmts []*parser.Node
	for _, stmt := range body {
		if stmt.Type == parser.NodeComment || stmt.Type == parser.NodeEmptyStatement {
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}
