package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// AST node types. The set is deliberately language-neutral: the deep
// analyzer visits these types without knowing which grammar produced them,
// so the same heuristics can be retargeted to other tree-sitter grammars.
const (
	// Program and structure
	NodeProgram NodeType = "Program"

	// Function declarations
	NodeFunction           NodeType = "FunctionDeclaration"
	NodeFunctionExpression NodeType = "FunctionExpression"
	NodeArrowFunction      NodeType = "ArrowFunctionExpression"
	NodeMethodDefinition   NodeType = "MethodDefinition"

	// Class declarations
	NodeClass NodeType = "ClassDeclaration"

	// Variable declarations
	NodeVariableDeclaration NodeType = "VariableDeclaration"
	NodeVariableDeclarator  NodeType = "VariableDeclarator"
	NodeIdentifier          NodeType = "Identifier"

	// Statements
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeThrowStatement      NodeType = "ThrowStatement"
	NodeEmptyStatement      NodeType = "EmptyStatement"

	// Expressions
	NodeCallExpression       NodeType = "CallExpression"
	NodeMemberExpression     NodeType = "MemberExpression"
	NodeNewExpression        NodeType = "NewExpression"
	NodeAssignmentExpression NodeType = "AssignmentExpression"

	// Literals
	NodeStringLiteral   NodeType = "StringLiteral"
	NodeNumberLiteral   NodeType = "NumberLiteral"
	NodeTemplateLiteral NodeType = "TemplateLiteral"

	// Comments are kept in the tree so incompleteness markers are
	// visible to the visitor
	NodeComment NodeType = "Comment"

	// Fallback for grammar nodes with no dedicated mapping
	NodeGeneric NodeType = "Generic"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents an AST node
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location
	Parent   *Node

	// Name holds function/class/variable/property names
	Name string

	// Function and class fields
	Params []*Node // Function parameters
	Body   []*Node // Function/class/block body

	// Expression fields
	Left      *Node   // Assignment target
	Right     *Node   // Assignment value
	Callee    *Node   // Function being called
	Arguments []*Node // Call arguments
	Object    *Node   // Object in member expression
	Property  *Node   // Property in member expression

	// Variable declaration fields
	Declarations []*Node // Variable declarators
	Init         *Node   // Declarator initializer

	// Raw holds literal/comment source text
	Raw string
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{
		Type:         nodeType,
		Children:     []*Node{},
		Params:       []*Node{},
		Body:         []*Node{},
		Arguments:    []*Node{},
		Declarations: []*Node{},
	}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AddStatement links a statement into the node's body. Statements live in
// Body only, never in Children, so Walk visits each one exactly once.
func (n *Node) AddStatement(stmt *Node) {
	if stmt == nil {
		return
	}
	stmt.Parent = n
	n.Body = append(n.Body, stmt)
}

// Walk traverses the AST depth-first and calls the visitor for each node.
// If the visitor returns false, traversal of that branch stops.
// Traversal order is fixed (children, params, body, declarations, then
// the scalar fields), so visitors observe nodes in a deterministic order
// for a given tree.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	if !visitor(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visitor)
	}
	for _, param := range n.Params {
		param.Walk(visitor)
	}
	for _, stmt := range n.Body {
		stmt.Walk(visitor)
	}
	for _, decl := range n.Declarations {
		decl.Walk(visitor)
	}
	for _, arg := range n.Arguments {
		arg.Walk(visitor)
	}

	if n.Left != nil {
		n.Left.Walk(visitor)
	}
	if n.Right != nil {
		n.Right.Walk(visitor)
	}
	if n.Init != nil {
		n.Init.Walk(visitor)
	}
	if n.Callee != nil {
		n.Callee.Walk(visitor)
	}
	if n.Object != nil {
		n.Object.Walk(visitor)
	}
	if n.Property != nil {
		n.Property.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsFunction returns true if the node is a function-like declaration
func (n *Node) IsFunction() bool {
	switch n.Type {
	case NodeFunction, NodeArrowFunction, NodeFunctionExpression, NodeMethodDefinition:
		return true
	}
	return false
}

// CalleeName returns the dotted name of a call's target, e.g. "eval" or
// "child_process.exec". Empty when the callee has no static name.
func (n *Node) CalleeName() string {
	if n.Type != NodeCallExpression && n.Type != NodeNewExpression {
		return ""
	}
	return staticName(n.Callee)
}

// staticName resolves identifier and member-expression chains to a
// dotted name; anything dynamic yields ""
func staticName(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Type {
	case NodeIdentifier:
		return n.Name
	case NodeMemberExpression:
		object := staticName(n.Object)
		property := staticName(n.Property)
		if object == "" || property == "" {
			return ""
		}
		return object + "." + property
	}
	return ""
}
