/*
 * llang
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 *
 * Printer and Evaluator both walk the arena node-by-node: Printer
 * reconstructs canonical source text, Evaluator is a reference
 * tree-walking interpreter for integer arithmetic. Printer does not
 * indent an `if` expression itself or a block's closing `}`; Evaluator
 * reports an error for definitions, blocks, identifiers, string literals
 * and comparison operators.
 */

package parser

import (
	"fmt"
	"strconv"
	"strings"

	"devt.de/krotik/common/stringutil"
	"github.com/life-lang/llang/config"
)

// tokenText returns the raw source text a token covers.
func (a *Ast) tokenText(idx TokenIdx) string {
	tok, ok := a.Toks.Get(idx)
	assertTrue(ok, fmt.Sprintf("BUG: failed to get token %d from ast", idx))
	s, ok := a.CU.GetStrGraphemeSpan(tok.Span)
	assertTrue(ok, "BUG: token span out of range")
	return s
}

func (a *Ast) nodeAt(idx NodeIdx) Node {
	n, ok := a.Nodes.Get(idx)
	assertTrue(ok, fmt.Sprintf("BUG: failed to get node %d from ast", idx))
	return n
}

// Root is the module node every Ast ends with.
func (a *Ast) Root() Node {
	return a.Nodes.Last()
}

// Printer reconstructs canonical source text from the arena: one
// statement per line, 4-space indentation per nesting level.
type Printer struct {
	ast *Ast
}

// NewPrinter builds a Printer over ast.
func NewPrinter(ast *Ast) *Printer {
	return &Printer{ast: ast}
}

// Visit renders node at indentation level 0.
func (p *Printer) Visit(node Node) string {
	return p.print(node, 0)
}

func leadingIndent(indentLevel int) string {
	return stringutil.GenerateRollingString(" ", indentLevel*config.Int(config.IndentWidth))
}

// nodeText renders the node at idx at indent level 0, as if printed in
// isolation - this is how an expression embedded inline in a larger
// format string (an operand, a condition, a type annotation) is turned
// back into text, regardless of the indentation of its surroundings.
func (p *Printer) nodeText(idx NodeIdx) string {
	return p.print(p.ast.nodeAt(idx), 0)
}

func (p *Printer) print(node Node, indentLevel int) string {
	switch node.Kind {
	case NodeModule:
		var sb strings.Builder
		for _, idx := range node.Statements {
			sb.WriteString(p.print(p.ast.nodeAt(idx), indentLevel))
		}
		return sb.String()

	case NodeStatementDefinition:
		var colonPart, typePart string
		if node.HasColon {
			colonPart = p.ast.tokenText(node.Colon) + " "
		}
		if node.HasTy {
			typePart = p.nodeText(node.Ty)
		}
		return fmt.Sprintf("%s%s %s%s%s %s %s;\n",
			leadingIndent(indentLevel),
			p.ast.tokenText(node.KwTok),
			p.nodeText(node.LHS),
			colonPart, typePart,
			p.ast.tokenText(node.Eq),
			p.nodeText(node.RHS))

	case NodeStatementExpression:
		return fmt.Sprintf("%s%s;\n", leadingIndent(indentLevel), p.print(p.ast.nodeAt(node.Inner), indentLevel+1))

	case NodeExprIf:
		var elseStr strings.Builder
		if node.HasElseKw {
			elseStr.WriteString(p.ast.tokenText(node.ElseKw))
			elseStr.WriteByte(' ')
			if node.HasElseBlock {
				elseStr.WriteString(p.nodeText(node.ElseBlock))
			}
			if node.HasElseIf {
				elseStr.WriteString(p.nodeText(node.ElseIf))
			}
		}
		return fmt.Sprintf("%s %s %s %s",
			p.ast.tokenText(node.IfKw),
			p.nodeText(node.Cond),
			p.nodeText(node.ThenBlock),
			elseStr.String())

	case NodeExprInt, NodeExprIdent:
		return p.ast.tokenText(node.Tok)

	case NodeExprStringLit:
		return node.Decoded

	case NodeExprBinOp:
		return fmt.Sprintf("%s %s %s", p.nodeText(node.LHS), p.ast.tokenText(node.Op), p.nodeText(node.RHS))

	case NodeExprNeg:
		tok, _ := p.ast.Toks.Get(node.Op)
		assertTrue(tok.Kind == TokenMinus, fmt.Sprintf("BUG: unsupported unary operator `%s`", p.ast.tokenText(node.Op)))
		return "-" + p.nodeText(node.Operand)

	case NodeExprGrouped:
		return fmt.Sprintf("%s %s %s", p.ast.tokenText(node.LParen), p.nodeText(node.Inner), p.ast.tokenText(node.RParen))

	case NodeExprBlock:
		var sb strings.Builder
		for _, idx := range node.Statements {
			sb.WriteString(p.print(p.ast.nodeAt(idx), indentLevel+1))
		}
		return fmt.Sprintf("%s\n%s%s", p.ast.tokenText(node.LBrace), sb.String(), p.ast.tokenText(node.RBrace))

	case NodeExprReturn:
		var valuePart string
		if node.HasValue {
			valuePart = p.nodeText(node.Value)
		}
		return fmt.Sprintf("%s %s", p.ast.tokenText(node.ReturnKw), valuePart)

	case NodeAnnoType:
		return p.ast.tokenText(node.Tok)

	default:
		assertTrue(false, fmt.Sprintf("BUG: unhandled node kind %d in printer", node.Kind))
		return ""
	}
}

// Evaluator is a reference tree-walking interpreter over checked i64
// arithmetic, negation, grouping, `if` and `return`. Definitions, string
// literals, identifiers, blocks and comparison operators are explicitly
// out of scope - it only exists to
// prove the arena and operator precedence are wired correctly, not to be
// a complete runtime.
type Evaluator struct {
	ast *Ast
}

// NewEvaluator builds an Evaluator over ast.
func NewEvaluator(ast *Ast) *Evaluator {
	return &Evaluator{ast: ast}
}

// Visit evaluates node, returning an error string on overflow or on an
// unsupported construct.
func (e *Evaluator) Visit(node Node) (int64, error) {
	switch node.Kind {
	case NodeModule:
		if len(node.Statements) == 0 {
			return 0, nil
		}
		return e.Visit(e.ast.nodeAt(node.Statements[0]))

	case NodeExprIf:
		cond, err := e.Visit(e.ast.nodeAt(node.Cond))
		if err != nil {
			return 0, err
		}
		if cond != 0 {
			return e.Visit(e.ast.nodeAt(node.ThenBlock))
		}
		if node.HasElseBlock {
			return e.Visit(e.ast.nodeAt(node.ElseBlock))
		}
		if node.HasElseIf {
			return e.Visit(e.ast.nodeAt(node.ElseIf))
		}
		return 0, nil

	case NodeExprBlock:
		return 0, fmt.Errorf("evaluating a block is not supported")

	case NodeStatementExpression:
		return e.Visit(e.ast.nodeAt(node.Inner))

	case NodeStatementDefinition:
		return 0, fmt.Errorf("evaluating a definition is not supported")

	case NodeExprInt:
		text := e.ast.tokenText(node.Tok)
		v, err := strconv.ParseInt(text, 10, 64)
		assertTrue(err == nil, fmt.Sprintf("BUG: failed to parse i64 token `%s`: %v", text, err))
		return v, nil

	case NodeExprStringLit:
		return 0, fmt.Errorf("evaluating a string literal is not supported")

	case NodeExprIdent:
		return 0, fmt.Errorf("evaluating an identifier is not supported")

	case NodeExprBinOp:
		lhsStr := NewPrinter(e.ast).nodeText(node.LHS)
		rhsStr := NewPrinter(e.ast).nodeText(node.RHS)
		lhsValue, err := e.Visit(e.ast.nodeAt(node.LHS))
		if err != nil {
			return 0, err
		}
		rhsValue, err := e.Visit(e.ast.nodeAt(node.RHS))
		if err != nil {
			return 0, err
		}

		opTok, _ := e.ast.Toks.Get(node.Op)
		switch opTok.Kind {
		case TokenPlus:
			sum := lhsValue + rhsValue
			if (rhsValue > 0 && sum < lhsValue) || (rhsValue < 0 && sum > lhsValue) {
				return 0, fmt.Errorf("`%s` + `%s` overflows", lhsStr, rhsStr)
			}
			return sum, nil
		case TokenMinus:
			diff := lhsValue - rhsValue
			if (rhsValue < 0 && diff < lhsValue) || (rhsValue > 0 && diff > lhsValue) {
				return 0, fmt.Errorf("`%s` - `%s` overflows", lhsStr, rhsStr)
			}
			return diff, nil
		case TokenStar:
			if lhsValue == 0 || rhsValue == 0 {
				return 0, nil
			}
			product := lhsValue * rhsValue
			if product/rhsValue != lhsValue || (lhsValue == minI64 && rhsValue == -1) {
				return 0, fmt.Errorf("`%s` * `%s` overflows", lhsStr, rhsStr)
			}
			return product, nil
		case TokenSlash:
			if rhsValue == 0 || (lhsValue == minI64 && rhsValue == -1) {
				return 0, fmt.Errorf("`%s` / `%s` overflows", lhsStr, rhsStr)
			}
			return lhsValue / rhsValue, nil
		case TokenPercent:
			if rhsValue == 0 || (lhsValue == minI64 && rhsValue == -1) {
				return 0, fmt.Errorf("`%s` %% `%s` overflows", lhsStr, rhsStr)
			}
			return lhsValue % rhsValue, nil
		case TokenEqEq, TokenNotEq, TokenLt, TokenLtEq, TokenGt, TokenGtEq:
			return 0, fmt.Errorf("evaluating `%s` is not supported", e.ast.tokenText(node.Op))
		default:
			assertTrue(false, fmt.Sprintf("BUG: unsupported binary operator `%s`", e.ast.tokenText(node.Op)))
			return 0, nil
		}

	case NodeExprNeg:
		opTok, _ := e.ast.Toks.Get(node.Op)
		assertTrue(opTok.Kind == TokenMinus, fmt.Sprintf("BUG: unsupported unary operator `%s`", e.ast.tokenText(node.Op)))
		operandStr := operandText(e, node)
		v, err := strconv.ParseInt("-"+operandStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("BUG: failed to parse i64 token `%s`: %v", operandStr, err)
		}
		return v, nil

	case NodeExprGrouped:
		return e.Visit(e.ast.nodeAt(node.Inner))

	case NodeExprReturn:
		assertTrue(node.HasValue, "BUG: return without a value")
		return e.Visit(e.ast.nodeAt(node.Value))

	case NodeAnnoType:
		return 0, fmt.Errorf("evaluating a type annotation is not supported")

	default:
		assertTrue(false, fmt.Sprintf("BUG: unhandled node kind %d in evaluator", node.Kind))
		return 0, nil
	}
}

const minI64 = -1 << 63

// operandText is the raw text of a Negation's operand, the I64 token
// underneath it - it mirrors the original's reuse of printer output as
// the string being re-parsed with a `-` prefix.
func operandText(e *Evaluator, node Node) string {
	operand := e.ast.nodeAt(node.Operand)
	return e.ast.tokenText(operand.Tok)
}
