/*
 * llang
 *
 * Internal invariant checks, following the teacher's use of
 * errorutil.AssertTrue for "this must never happen" conditions.
 */

package parser

import "devt.de/krotik/common/errorutil"

// assertTrue panics with msg if cond is false. Used for invariants which a
// correct lexer/parser can never violate (e.g. a span's start never comes
// after its end).
func assertTrue(cond bool, msg string) {
	errorutil.AssertTrue(cond, msg)
}
