/*
 * llang
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 *
 * Recursive-descent statement parsing combined with precedence-climbing
 * expression parsing. Every parse function takes the index of its first
 * token and returns either a node plus the index just past it, a
 * "finished" signal (ran out of tokens at a point where that is legal),
 * or a ParseError - never both a node and an error.
 */

package parser

import "fmt"

// Ast is the result of parsing a CompilationUnit: the token stream, the
// node arena, and whatever errors were accumulated along the way. Error
// is empty on a clean parse.
type Ast struct {
	CU    *CompilationUnit
	Toks  Tokens
	Nodes *Nodes
	Error ParseError
}

// Diagnostics renders Error as caret-annotated text, or reports false if
// the parse had no errors.
func (a *Ast) Diagnostics() (string, bool) {
	if a.Error.IsEmpty() {
		return "", false
	}
	return a.Error.GetString(newRenderCtx(a.CU, a.Toks)), true
}

// Parse lexes and parses cu. A non-empty set of lexical errors always
// short-circuits parsing: there is no useful tree to build when parts of
// the token stream could not be classified.
func Parse(cu *CompilationUnit) *Ast {
	toks := Lex(cu)
	nodes := NewNodes(len(toks))

	ast := &Ast{CU: cu, Toks: toks, Nodes: nodes}

	if lexErr, ok := getLexErrors(toks); ok {
		ast.Error = NewSingleParseError(lexErr)
		// module root is still required by the arena invariant.
		nodes.Push(Node{Kind: NodeModule})
		return ast
	}

	parseModule(ast, 0)
	return ast
}

// step is the outcome of one parse function: either finished (ran out of
// input at a point where that is legal, e.g. end of module/block) or a
// node plus the token index just past it.
type step struct {
	finished bool
	node     Node
	next     TokenIdx
}

func nodeStep(node Node, next TokenIdx) (step, ParseError) {
	return step{node: node, next: next}, NoParseError()
}

func finishedStep() (step, ParseError) {
	return step{finished: true}, NoParseError()
}

func errStep(e ParseError) (step, ParseError) {
	return step{}, e
}

func unexpectedEof(msg string, ctxTokenIdx TokenIdx) (step, ParseError) {
	return errStep(NewSingleParseError(SingleParseError{
		Kind: SPEKUnexpectedEof, Msg: msg, CtxTokenIdx: ctxTokenIdx,
	}))
}

func unexpectedToken(msg string, ctxStartTokenIdx, errorTokenIdx TokenIdx) (step, ParseError) {
	return errStep(NewSingleParseError(SingleParseError{
		Kind: SPEKUnexpectedToken, Msg: msg, CtxStartTokenIdx: ctxStartTokenIdx, ErrorTokenIdx: errorTokenIdx,
	}))
}

func mismatchedParen(lparen, errorTokenIdx TokenIdx) (step, ParseError) {
	return errStep(NewSingleParseError(SingleParseError{
		Kind: SPEKMismatchedParentheses, LParen: lparen, ErrorTokenIdx: errorTokenIdx,
	}))
}

// parseModule drives the top-level statement loop: parse a statement,
// recover past it on error, repeat until the token stream is exhausted.
func parseModule(ast *Ast, nextTokenIdx TokenIdx) {
	var statements []NodeIdx
	err := NoParseError()

	for {
		s, e := parseStatement(ast, nextTokenIdx)
		if !e.IsEmpty() {
			err = err.AddNewError(e)
			nextTokenIdx = findRecoveryIdx(ast.Toks, nextTokenIdx)
			continue
		}
		if s.finished {
			break
		}
		statements = append(statements, ast.Nodes.Push(s.node))
		nextTokenIdx = s.next
	}

	ast.Error = err
	ast.Nodes.Push(Node{Kind: NodeModule, Statements: statements})
}

// mustFind scans forward from nextTokenIdx for a token matching match,
// reporting ctxStartTokenIdx as the error's context anchor if it is
// missing or the wrong kind.
func mustFind(toks Tokens, ctxStartTokenIdx, nextTokenIdx TokenIdx, errMsg string, match func(TokenKind) bool) (TokenIdx, ParseError) {
	idx, tok, ok := toks.NextNonBlank(nextTokenIdx)
	if !ok {
		_, e := unexpectedEof(errMsg, ctxStartTokenIdx)
		return 0, e
	}
	if match(tok.Kind) {
		return idx, NoParseError()
	}
	_, e := unexpectedToken(errMsg, ctxStartTokenIdx, idx)
	return 0, e
}

func findStartOfNonEmptyStatement(toks Tokens, nextTokenIdx TokenIdx) (TokenIdx, Token, bool) {
	for {
		idx, tok, ok := toks.NextNonBlank(nextTokenIdx)
		if !ok {
			return 0, Token{}, false
		}
		if tok.Kind == TokenSemiColon || tok.Kind == TokenComment {
			nextTokenIdx = idx + 1
			continue
		}
		return idx, tok, true
	}
}

func parseStatement(ast *Ast, nextTokenIdx TokenIdx) (step, ParseError) {
	idx, tok, ok := findStartOfNonEmptyStatement(ast.Toks, nextTokenIdx)
	if !ok {
		return finishedStep()
	}

	if tok.Kind == TokenKwLet || tok.Kind == TokenKwVar {
		return parseDefinitionStatement(ast, idx, tok)
	}
	return parseExpressionStatement(ast, idx)
}

func parseTypeFromColon(ast *Ast, colonTokenIdx TokenIdx) (step, ParseError) {
	const noTypeErr = "expected a type expression"

	idx, tok, ok := ast.Toks.NextNonBlank(colonTokenIdx + 1)
	if !ok {
		return unexpectedEof(noTypeErr, colonTokenIdx+1)
	}

	if tok.Kind == TokenIdentifier {
		return nodeStep(Node{Kind: NodeAnnoType, Tok: idx}, idx+1)
	}
	return unexpectedToken(noTypeErr, colonTokenIdx, idx)
}

// parseDefinitionStatement parses `let`/`var` lhs [: type] = rhs ; . The
// first token is the already-located `let`/`var` keyword.
func parseDefinitionStatement(ast *Ast, kwTokenIdx TokenIdx, kwTok Token) (step, ParseError) {
	noLhsErr := fmt.Sprintf("expect an expression after `%s` for a definition", kwTok.Kind)

	lhsStep, e := parseExpression(ast, kwTokenIdx+1, 0)
	if !e.IsEmpty() {
		return errStep(e.AddErrorContext(noLhsErr))
	}
	if lhsStep.finished {
		return unexpectedEof(noLhsErr, kwTokenIdx)
	}

	nextBeforeEq := lhsStep.next
	var colonTokenIdx TokenIdx
	hasColon := false
	var typeNodeIdx NodeIdx
	hasType := false

	if idx, tok, ok := ast.Toks.NextNonBlank(lhsStep.next); ok && tok.Kind == TokenColon {
		noTypeErr := fmt.Sprintf("expected a type expression after `%s`", TokenColon)
		typeStep, e := parseTypeFromColon(ast, idx)
		if !e.IsEmpty() {
			return errStep(e.AddErrorContext(noTypeErr))
		}
		if typeStep.finished {
			return unexpectedEof(noTypeErr, idx)
		}
		colonTokenIdx = idx
		hasColon = true
		typeNodeIdx = ast.Nodes.Push(typeStep.node)
		hasType = true
		nextBeforeEq = typeStep.next
	}

	eqErrMsg := fmt.Sprintf("expected definition format `%s ... %s ...`, but could not find `%s`", kwTok.Kind, TokenEq, TokenEq)
	eqTokenIdx, e := mustFind(ast.Toks, kwTokenIdx, nextBeforeEq, eqErrMsg, func(k TokenKind) bool { return k == TokenEq })
	if !e.IsEmpty() {
		return errStep(e)
	}

	noRhsErr := fmt.Sprintf("expect an expression after `%s` for a definition", TokenEq)
	rhsStep, e := parseExpression(ast, eqTokenIdx+1, 0)
	if !e.IsEmpty() {
		return errStep(e.AddErrorContext(noRhsErr))
	}
	if rhsStep.finished {
		return unexpectedEof(noRhsErr, kwTokenIdx)
	}

	semiErrMsg := fmt.Sprintf("statement must end with `%s`", TokenSemiColon)
	semiTokenIdx, e := mustFind(ast.Toks, kwTokenIdx, rhsStep.next, semiErrMsg, func(k TokenKind) bool { return k == TokenSemiColon })
	if !e.IsEmpty() {
		return errStep(e)
	}

	return nodeStep(Node{
		Kind:      NodeStatementDefinition,
		KwTok:     kwTokenIdx,
		LHS:       ast.Nodes.Push(lhsStep.node),
		Colon:     colonTokenIdx,
		HasColon:  hasColon,
		Ty:        typeNodeIdx,
		HasTy:     hasType,
		Eq:        eqTokenIdx,
		RHS:       ast.Nodes.Push(rhsStep.node),
	}, semiTokenIdx+1)
}

func parseExpressionStatement(ast *Ast, nextTokenIdx TokenIdx) (step, ParseError) {
	exprStep, e := parseExpression(ast, nextTokenIdx, 0)
	if !e.IsEmpty() {
		return errStep(e.AddErrorContext("this must be an expression"))
	}
	assertTrue(!exprStep.finished, "BUG: parse_expression should always return a node, empty statements must be filtered out before this")

	semiErrMsg := fmt.Sprintf("statement must end with `%s`", TokenSemiColon)
	semiTokenIdx, e := mustFind(ast.Toks, nextTokenIdx, exprStep.next, semiErrMsg, func(k TokenKind) bool { return k == TokenSemiColon })
	if !e.IsEmpty() {
		return errStep(e)
	}

	return nodeStep(Node{
		Kind:  NodeStatementExpression,
		Inner: ast.Nodes.Push(exprStep.node),
	}, semiTokenIdx+1)
}

// getPrecedence returns the binding power of a binary operator token.
// Every operator in this grammar is left-associative, so the caller
// always raises the minimum precedence by one before recursing into the
// right-hand side - there is no right-associative case to special-case.
func getPrecedence(k TokenKind) (int, bool) {
	switch k {
	case TokenEqEq, TokenNotEq, TokenLt, TokenLtEq, TokenGt, TokenGtEq:
		return 1, true
	case TokenPlus, TokenMinus:
		return 5, true
	case TokenStar, TokenSlash, TokenPercent:
		return 6, true
	default:
		return 0, false
	}
}

func isEndOfExpression(k TokenKind) bool {
	return k == TokenEq || k == TokenSemiColon || k == TokenRParen
}

func canShiftWithOp(toks Tokens, nextTokenIdx TokenIdx, minPrecedence int) (TokenIdx, Token, int, bool) {
	idx, tok, ok := toks.NextNonBlank(nextTokenIdx)
	if !ok || isEndOfExpression(tok.Kind) {
		return 0, Token{}, 0, false
	}
	prec, ok := getPrecedence(tok.Kind)
	if !ok || prec < minPrecedence {
		return 0, Token{}, 0, false
	}
	return idx, tok, prec + 1, true
}

// parseExpression parses an expression via precedence climbing. It
// returns finished only when called at the very start of a statement or
// block with nothing left to parse; once a primary has been parsed,
// running out of a right-hand side is always an UnexpectedEof error.
func parseExpression(ast *Ast, nextTokenIdx TokenIdx, minPrecedence int) (step, ParseError) {
	startIdx, startTok, ok := ast.Toks.NextNonBlank(nextTokenIdx)
	if !ok {
		return finishedStep()
	}

	if startTok.Kind == TokenKwIf {
		return parseIfExpression(ast, startIdx)
	}
	if startTok.Kind == TokenKwReturn {
		return parseReturnExpression(ast, startIdx)
	}

	lhsStep, e := parsePrimary(ast, startIdx, startTok)
	if !e.IsEmpty() {
		return errStep(e)
	}
	assertTrue(!lhsStep.finished, "BUG: parse_primary should always return a node")

	lhs := lhsStep.node
	next := lhsStep.next

	for {
		opIdx, opTok, nextMinPrec, ok := canShiftWithOp(ast.Toks, next, minPrecedence)
		if !ok {
			break
		}

		noRhsErr := fmt.Sprintf("operator `%s` must be followed by an expression", opTok.Kind)
		rhsStep, e := parseExpression(ast, opIdx+1, nextMinPrec)
		if !e.IsEmpty() {
			return errStep(e.AddErrorContext(noRhsErr))
		}
		if rhsStep.finished {
			return unexpectedEof(noRhsErr, opIdx)
		}

		lhsIdx := ast.Nodes.Push(lhs)
		rhsIdx := ast.Nodes.Push(rhsStep.node)
		lhs = Node{Kind: NodeExprBinOp, Op: opIdx, LHS: lhsIdx, RHS: rhsIdx}
		next = rhsStep.next
	}

	return nodeStep(lhs, next)
}

func parseReturnExpression(ast *Ast, returnKwTokenIdx TokenIdx) (step, ParseError) {
	noReturnExprErr := fmt.Sprintf("expected an expression after `%s`", TokenKwReturn)

	exprStep, e := parseExpression(ast, returnKwTokenIdx+1, 0)
	if !e.IsEmpty() {
		return errStep(e.AddErrorContext(noReturnExprErr))
	}
	if exprStep.finished {
		return unexpectedEof(noReturnExprErr, returnKwTokenIdx)
	}

	return nodeStep(Node{
		Kind:     NodeExprReturn,
		ReturnKw: returnKwTokenIdx,
		Value:    ast.Nodes.Push(exprStep.node),
		HasValue: true,
	}, exprStep.next)
}

func parseBlockExpression(ast *Ast, lbraceTokenIdx TokenIdx) (step, ParseError) {
	var statements []NodeIdx
	nextTokenIdx := lbraceTokenIdx + 1
	err := NoParseError()

	for {
		if idx, tok, ok := ast.Toks.NextNonBlank(nextTokenIdx); ok && tok.Kind == TokenRBrace {
			return nodeStep(Node{
				Kind:       NodeExprBlock,
				LBrace:     lbraceTokenIdx,
				Statements: statements,
				RBrace:     idx,
			}, idx+1)
		}

		s, e := parseStatement(ast, nextTokenIdx)
		if !e.IsEmpty() {
			err = err.AddNewError(e)
			nextTokenIdx = findRecoveryIdx(ast.Toks, nextTokenIdx)
			continue
		}
		if s.finished {
			err = err.AddNewError(NewSingleParseError(SingleParseError{
				Kind:        SPEKUnexpectedEof,
				Msg:         fmt.Sprintf("no matching `%s`", TokenRBrace),
				CtxTokenIdx: lbraceTokenIdx,
			}))
			break
		}
		statements = append(statements, ast.Nodes.Push(s.node))
		nextTokenIdx = s.next
	}

	return errStep(err)
}

func parseIfExpression(ast *Ast, ifKwTokenIdx TokenIdx) (step, ParseError) {
	noCondErr := fmt.Sprintf("expected a logical expression after `%s`", TokenKwIf)

	condStep, e := parseExpression(ast, ifKwTokenIdx+1, 0)
	if !e.IsEmpty() {
		return errStep(e.AddErrorContext(noCondErr))
	}
	if condStep.finished {
		return unexpectedEof(noCondErr, ifKwTokenIdx)
	}

	thenLBraceErr := fmt.Sprintf("expected a `%s` after `%s`", TokenLBrace, TokenKwIf)
	thenLBraceIdx, e := mustFind(ast.Toks, ifKwTokenIdx, condStep.next, thenLBraceErr, func(k TokenKind) bool { return k == TokenLBrace })
	if !e.IsEmpty() {
		return errStep(e)
	}

	const noValidBlockErr = "not a valid block"
	thenStep, e := parseBlockExpression(ast, thenLBraceIdx)
	if !e.IsEmpty() {
		return errStep(e.AddErrorContext(noValidBlockErr))
	}
	if thenStep.finished {
		return unexpectedEof(noValidBlockErr, ifKwTokenIdx)
	}

	condNodeIdx := ast.Nodes.Push(condStep.node)
	thenNodeIdx := ast.Nodes.Push(thenStep.node)

	elseIdx, elseTok, ok := ast.Toks.NextNonBlank(thenStep.next)
	if !ok || elseTok.Kind != TokenKwElse {
		return nodeStep(Node{
			Kind:      NodeExprIf,
			IfKw:      ifKwTokenIdx,
			Cond:      condNodeIdx,
			ThenBlock: thenNodeIdx,
		}, thenStep.next)
	}

	nothingAfterElseErr := fmt.Sprintf("expected `%s .. %s` or `%s` after `%s`", TokenLBrace, TokenRBrace, TokenKwIf, TokenKwElse)

	afterElseIdx, afterElseTok, ok := ast.Toks.NextNonBlank(elseIdx + 1)
	if !ok {
		return unexpectedEof(nothingAfterElseErr, elseIdx)
	}

	switch afterElseTok.Kind {
	case TokenKwIf:
		noElseIfErr := fmt.Sprintf("not a valid `%s %s` expression", TokenKwElse, TokenKwIf)
		elseIfStep, e := parseIfExpression(ast, afterElseIdx)
		if !e.IsEmpty() {
			return errStep(e.AddErrorContext(noElseIfErr))
		}
		if elseIfStep.finished {
			return unexpectedEof(noElseIfErr, elseIdx)
		}
		return nodeStep(Node{
			Kind:      NodeExprIf,
			IfKw:      ifKwTokenIdx,
			Cond:      condNodeIdx,
			ThenBlock: thenNodeIdx,
			ElseKw:    elseIdx,
			HasElseKw: true,
			ElseIf:    ast.Nodes.Push(elseIfStep.node),
			HasElseIf: true,
		}, elseIfStep.next)

	case TokenLBrace:
		noElseBlockErr := fmt.Sprintf("not a valid `%s %s` expression", TokenKwElse, TokenLBrace)
		elseBlockStep, e := parseBlockExpression(ast, afterElseIdx)
		if !e.IsEmpty() {
			return errStep(e.AddErrorContext(noElseBlockErr))
		}
		if elseBlockStep.finished {
			return unexpectedEof(noElseBlockErr, elseIdx)
		}
		return nodeStep(Node{
			Kind:         NodeExprIf,
			IfKw:         ifKwTokenIdx,
			Cond:         condNodeIdx,
			ThenBlock:    thenNodeIdx,
			ElseKw:       elseIdx,
			HasElseKw:    true,
			ElseBlock:    ast.Nodes.Push(elseBlockStep.node),
			HasElseBlock: true,
		}, elseBlockStep.next)

	default:
		return unexpectedToken(nothingAfterElseErr, elseIdx, afterElseIdx)
	}
}

func parsePrimary(ast *Ast, startTokenIdx TokenIdx, startTok Token) (step, ParseError) {
	switch startTok.Kind {
	case TokenI64:
		return nodeStep(Node{Kind: NodeExprInt, Tok: startTokenIdx}, startTokenIdx+1)
	case TokenIdentifier:
		return nodeStep(Node{Kind: NodeExprIdent, Tok: startTokenIdx}, startTokenIdx+1)
	case TokenMinus:
		// unary minus: chained signs like `--2` are rejected, not folded.
		return mustBeI64AfterDashSign(ast, startTokenIdx+1, startTokenIdx)
	case TokenLParen:
		return mustBeParenExpression(ast, startTokenIdx)
	case TokenStringLit:
		return nodeStep(Node{Kind: NodeExprStringLit, Tok: startTokenIdx, Decoded: startTok.Decoded}, startTokenIdx+1)
	default:
		return unexpectedToken("expected an expression", startTokenIdx, startTokenIdx)
	}
}

func mustBeI64AfterDashSign(ast *Ast, nextTokenIdx, dashTokenIdx TokenIdx) (step, ParseError) {
	numIdx, numTok, ok := ast.Toks.NextNonBlank(nextTokenIdx)
	if !ok {
		return unexpectedEof(fmt.Sprintf("expected a number after `%s`", TokenMinus), dashTokenIdx)
	}

	switch numTok.Kind {
	case TokenI64:
		operand := ast.Nodes.Push(Node{Kind: NodeExprInt, Tok: numIdx})
		return nodeStep(Node{Kind: NodeExprNeg, Op: dashTokenIdx, Operand: operand}, numIdx+1)
	case TokenMinus:
		return unexpectedToken(fmt.Sprintf("`%s` cannot be chained", TokenMinus), dashTokenIdx, numIdx)
	default:
		return unexpectedToken(fmt.Sprintf("expected a number after `%s`", TokenMinus), dashTokenIdx, numIdx)
	}
}

func mustBeParenExpression(ast *Ast, lparenTokenIdx TokenIdx) (step, ParseError) {
	exprStep, e := parseExpression(ast, lparenTokenIdx+1, 0)
	if !e.IsEmpty() {
		return errStep(e.AddErrorContext(fmt.Sprintf("not a valid expression between `%s%s`", TokenLParen, TokenRParen)))
	}
	if exprStep.finished {
		return unexpectedEof(fmt.Sprintf("nothing after `%s`", TokenLParen), lparenTokenIdx)
	}

	rparenIdx, rparenTok, ok := ast.Toks.NextNonBlank(exprStep.next)
	if !ok {
		return unexpectedEof(fmt.Sprintf("no matching `%s`", TokenRParen), lparenTokenIdx)
	}

	if rparenTok.Kind != TokenRParen {
		return mismatchedParen(lparenTokenIdx, rparenIdx)
	}

	return nodeStep(Node{
		Kind:   NodeExprGrouped,
		LParen: lparenTokenIdx,
		Inner:  ast.Nodes.Push(exprStep.node),
		RParen: rparenIdx,
	}, rparenIdx+1)
}
