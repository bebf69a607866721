/*
 * llang
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 *
 * Error recovery resyncs the token stream past the failing statement (its
 * next top-level `;`, or the end of a block it opens) so the parser can
 * keep collecting errors instead of stopping at the first one.
 */

package parser

// findNextBlockEnd scans forward counting brace nesting and returns the
// index of the `}` that closes the block opened by the token recovery
// started on.
func findNextBlockEnd(toks Tokens, nextIdx TokenIdx) (TokenIdx, bool) {
	blockLevel := 0
	for {
		idx, tok, ok := toks.NextNonBlank(nextIdx)
		if !ok {
			return 0, false
		}
		switch tok.Kind {
		case TokenLBrace:
			blockLevel++
		case TokenRBrace:
			blockLevel--
			if blockLevel == 0 {
				return idx, true
			}
		}
		nextIdx = idx + 1
	}
}

// findNextStatEnd scans forward for the end of the current statement: a
// top-level `;`, or the `}` that closes a brace opened along the way.
func findNextStatEnd(toks Tokens, nextIdx TokenIdx) (TokenIdx, bool) {
	blockLevel := 0
	for {
		idx, tok, ok := toks.NextNonBlank(nextIdx)
		if !ok {
			return 0, false
		}
		switch {
		case tok.Kind == TokenLBrace:
			blockLevel++
		case tok.Kind == TokenRBrace:
			blockLevel--
			if blockLevel == 0 {
				return idx, true
			}
		case tok.Kind == TokenSemiColon && blockLevel == 0:
			return idx, true
		}
		nextIdx = idx + 1
	}
}

/*
findRecoveryIdx resyncs after a parse error. If the token recovery starts
on opens a block (an `if` or a bare `{`), it skips to the matching `}`
and then, if followed directly by `else`, recurses from the token after
that `else` so an
entire if/else chain is skipped as a unit; otherwise it recurses past
the closing brace. For anything else it skips to the next top-level `;`
or block-closing `}` and resumes just past it.
*/
func findRecoveryIdx(toks Tokens, nextIdx TokenIdx) TokenIdx {
	idx, tok, ok := toks.NextNonBlank(nextIdx)
	if !ok {
		return nextIdx
	}
	nextIdx = idx

	switch tok.Kind {
	case TokenKwIf, TokenLBrace:
		rbraceIdx, ok := findNextBlockEnd(toks, nextIdx)
		if !ok {
			return toks.InvalidIdx()
		}
		elseIdx, elseTok, ok := toks.NextNonBlank(rbraceIdx + 1)
		if !ok {
			return toks.InvalidIdx()
		}
		if elseTok.Kind == TokenKwElse {
			return findRecoveryIdx(toks, elseIdx+1)
		}
		return findRecoveryIdx(toks, rbraceIdx+1)
	default:
		statEndIdx, ok := findNextStatEnd(toks, nextIdx)
		if !ok {
			return toks.InvalidIdx()
		}
		return statEndIdx + 1
	}
}
