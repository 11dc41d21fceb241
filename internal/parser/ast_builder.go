package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds the internal AST from a tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	return b.buildNode(tsNode)
}

// buildNode converts a tree-sitter node to an internal AST node.
// Grammar node types without a dedicated mapping become generic nodes
// whose children are still traversed, so the visitor never loses
// reachability into unmapped constructs.
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	switch tsNode.Type() {
	case "program":
		return b.buildProgram(tsNode)
	case "function_declaration", "function", "generator_function_declaration":
		return b.buildFunctionLike(tsNode, NodeFunction)
	case "function_expression":
		return b.buildFunctionLike(tsNode, NodeFunctionExpression)
	case "arrow_function":
		return b.buildArrowFunction(tsNode)
	case "method_definition":
		return b.buildFunctionLike(tsNode, NodeMethodDefinition)
	case "class_declaration", "class":
		return b.buildClassDeclaration(tsNode)
	case "variable_declaration", "lexical_declaration":
		return b.buildVariableDeclaration(tsNode)
	case "variable_declarator":
		return b.buildVariableDeclarator(tsNode)
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	case "statement_block":
		return b.buildBlockStatement(tsNode)
	case "return_statement":
		return b.buildSimpleStatement(tsNode, NodeReturnStatement, "return")
	case "throw_statement":
		return b.buildSimpleStatement(tsNode, NodeThrowStatement, "throw")
	case "empty_statement":
		return b.buildLeaf(tsNode, NodeEmptyStatement)
	case "call_expression":
		return b.buildCallExpression(tsNode, NodeCallExpression)
	case "new_expression":
		return b.buildCallExpression(tsNode, NodeNewExpression)
	case "member_expression":
		return b.buildMemberExpression(tsNode)
	case "assignment_expression":
		return b.buildAssignmentExpression(tsNode)
	case "identifier", "property_identifier", "shorthand_property_identifier", "type_identifier":
		return b.buildIdentifier(tsNode)
	case "string":
		return b.buildLeaf(tsNode, NodeStringLiteral)
	case "template_string":
		return b.buildLeaf(tsNode, NodeTemplateLiteral)
	case "number":
		return b.buildLeaf(tsNode, NodeNumberLiteral)
	case "comment", "line_comment", "block_comment":
		return b.buildLeaf(tsNode, NodeComment)
	default:
		return b.buildGenericNode(tsNode)
	}
}

// buildProgram builds the root program node
func (b *ASTBuilder) buildProgram(tsNode *sitter.Node) *Node {
	node := NewNode(NodeProgram)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		childNode := b.buildNode(child)
		if childNode != nil {
			node.AddStatement(childNode)
		}
	}

	return node
}

// buildFunctionLike builds function declarations, function expressions,
// and method definitions, which share the name/parameters/body shape
func (b *ASTBuilder) buildFunctionLike(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		node.Params = b.buildParameters(paramsNode)
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		bodyAST := b.buildNode(bodyNode)
		if bodyAST != nil {
			node.Body = bodyAST.Body
		}
	}

	return node
}

// buildArrowFunction builds an arrow function node
func (b *ASTBuilder) buildArrowFunction(tsNode *sitter.Node) *Node {
	node := NewNode(NodeArrowFunction)
	node.Location = b.getLocation(tsNode)

	if paramNode := b.getChildByFieldName(tsNode, "parameter"); paramNode != nil {
		// Single parameter without parentheses
		if param := b.buildNode(paramNode); param != nil {
			node.Params = []*Node{param}
		}
	} else if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		node.Params = b.buildParameters(paramsNode)
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		bodyAST := b.buildNode(bodyNode)
		if bodyAST != nil {
			if bodyAST.Type == NodeBlockStatement {
				node.Body = bodyAST.Body
			} else {
				// Expression body
				node.Body = []*Node{bodyAST}
			}
		}
	}

	return node
}

// buildClassDeclaration builds a class declaration node. Class body
// members (method definitions, fields) land in Body.
func (b *ASTBuilder) buildClassDeclaration(tsNode *sitter.Node) *Node {
	node := NewNode(NodeClass)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		for i := 0; i < int(bodyNode.ChildCount()); i++ {
			child := bodyNode.Child(i)
			if child == nil || b.isPunctuation(child.Type()) {
				continue
			}
			if childAST := b.buildNode(child); childAST != nil {
				node.Body = append(node.Body, childAST)
			}
		}
	}

	return node
}

// buildVariableDeclaration builds var/let/const declarations
func (b *ASTBuilder) buildVariableDeclaration(tsNode *sitter.Node) *Node {
	node := NewNode(NodeVariableDeclaration)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || child.Type() != "variable_declarator" {
			continue
		}
		if decl := b.buildNode(child); decl != nil {
			node.Declarations = append(node.Declarations, decl)
		}
	}

	return node
}

// buildVariableDeclarator builds a single name = value declarator
func (b *ASTBuilder) buildVariableDeclarator(tsNode *sitter.Node) *Node {
	node := NewNode(NodeVariableDeclarator)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Init = b.buildNode(valueNode)
	}

	return node
}

// buildExpressionStatement wraps its inner expression
func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeExpressionStatement)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || child.Type() == ";" {
			continue
		}
		if childNode := b.buildNode(child); childNode != nil {
			node.AddChild(childNode)
		}
	}

	return node
}

// buildBlockStatement builds a statement block
func (b *ASTBuilder) buildBlockStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeBlockStatement)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || child.Type() == "{" || child.Type() == "}" {
			continue
		}
		if childNode := b.buildNode(child); childNode != nil {
			node.AddStatement(childNode)
		}
	}

	return node
}

// buildSimpleStatement builds return/throw statements, skipping the keyword
func (b *ASTBuilder) buildSimpleStatement(tsNode *sitter.Node, nodeType NodeType, keyword string) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)
	node.Raw = tsNode.Content(b.source)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || child.Type() == keyword || child.Type() == ";" {
			continue
		}
		if childNode := b.buildNode(child); childNode != nil {
			node.AddChild(childNode)
		}
	}

	return node
}

// buildCallExpression builds call and new expressions
func (b *ASTBuilder) buildCallExpression(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)

	// new_expression names its target "constructor", call_expression "function"
	if funcNode := b.getChildByFieldName(tsNode, "function"); funcNode != nil {
		node.Callee = b.buildNode(funcNode)
	} else if ctorNode := b.getChildByFieldName(tsNode, "constructor"); ctorNode != nil {
		node.Callee = b.buildNode(ctorNode)
	}

	if argsNode := b.getChildByFieldName(tsNode, "arguments"); argsNode != nil {
		for i := 0; i < int(argsNode.ChildCount()); i++ {
			child := argsNode.Child(i)
			if child == nil || b.isPunctuation(child.Type()) {
				continue
			}
			if argNode := b.buildNode(child); argNode != nil {
				node.Arguments = append(node.Arguments, argNode)
			}
		}
	}

	return node
}

// buildMemberExpression builds an object.property expression
func (b *ASTBuilder) buildMemberExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeMemberExpression)
	node.Location = b.getLocation(tsNode)

	if objNode := b.getChildByFieldName(tsNode, "object"); objNode != nil {
		node.Object = b.buildNode(objNode)
	}
	if propNode := b.getChildByFieldName(tsNode, "property"); propNode != nil {
		node.Property = b.buildNode(propNode)
	}

	return node
}

// buildAssignmentExpression builds a left = right expression
func (b *ASTBuilder) buildAssignmentExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeAssignmentExpression)
	node.Location = b.getLocation(tsNode)

	if leftNode := b.getChildByFieldName(tsNode, "left"); leftNode != nil {
		node.Left = b.buildNode(leftNode)
	}
	if rightNode := b.getChildByFieldName(tsNode, "right"); rightNode != nil {
		node.Right = b.buildNode(rightNode)
	}

	return node
}

// buildIdentifier builds an identifier node
func (b *ASTBuilder) buildIdentifier(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIdentifier)
	node.Location = b.getLocation(tsNode)
	node.Name = tsNode.Content(b.source)
	return node
}

// buildLeaf builds a literal or comment node carrying its raw text
func (b *ASTBuilder) buildLeaf(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)
	node.Raw = tsNode.Content(b.source)
	return node
}

// buildGenericNode handles grammar nodes without a dedicated mapping.
// Named children are traversed so nested constructs remain reachable.
func (b *ASTBuilder) buildGenericNode(tsNode *sitter.Node) *Node {
	node := NewNode(NodeGeneric)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil {
			continue
		}
		if childNode := b.buildNode(child); childNode != nil {
			node.AddChild(childNode)
		}
	}

	return node
}

// buildParameters extracts parameter nodes from a parameter list
func (b *ASTBuilder) buildParameters(paramsNode *sitter.Node) []*Node {
	params := []*Node{}
	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		child := paramsNode.Child(i)
		if child == nil || b.isPunctuation(child.Type()) {
			continue
		}
		if param := b.buildNode(child); param != nil {
			params = append(params, param)
		}
	}
	return params
}

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
}

// getChildByFieldName gets a child node by field name
func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

// isPunctuation reports grammar tokens that carry no semantic content
func (b *ASTBuilder) isPunctuation(nodeType string) bool {
	switch nodeType {
	case "(", ")", "{", "}", "[", "]", ",", ";", ":":
		return true
	}
	return false
}
