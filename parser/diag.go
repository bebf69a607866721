/*
 * llang
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 *
 * Line-anchored caret rendering: given an optional context-start byte
 * index and an optional error byte span, render one caret frame per
 * source line the spans touch.
 */

package parser

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// LineIndex is a precomputed (line start byte index, line text) table
// used to slice the original buffer into caret-rendered frames.
type LineIndex struct {
	starts []ByteIdx
	lines  []string
}

// NewLineIndex splits cu's source into lines, keeping line terminators
// attached (mirroring `str::split_inclusive('\n')`).
func NewLineIndex(cu *CompilationUnit) *LineIndex {
	li := &LineIndex{}

	source := cu.Source()
	byteIdx := 0
	for len(source) > 0 {
		nl := strings.IndexByte(source, '\n')
		var line string
		if nl == -1 {
			line = source
			source = ""
		} else {
			line = source[:nl+1]
			source = source[nl+1:]
		}
		li.starts = append(li.starts, ByteIdx(byteIdx))
		li.lines = append(li.lines, line)
		byteIdx += len(line)
	}

	return li
}

func (li *LineIndex) getLine(startByteIdx ByteIdx) (lineNr int, line string, lineStart ByteIdx) {
	for i, s := range li.starts {
		nextStart := ByteIdx(1<<62 - 1)
		if i+1 < len(li.starts) {
			nextStart = li.starts[i+1]
		}
		if s <= startByteIdx && startByteIdx < nextStart {
			return i + 1, li.lines[i], s
		}
	}
	panic("BUG: no line found for byte index")
}

// caretFrame is one rendered line: the line text plus the widths (not
// byte/grapheme counts) of the leading gap, the context marker run, and
// the error marker run.
type caretFrame struct {
	lineNr       int
	line         string
	leadingWidth int
	ctxWidth     int
	errWidth     int
}

func (f caretFrame) render(sb *strings.Builder) {
	fmt.Fprintf(sb, "%5d|%s", f.lineNr, f.line)
	if !strings.HasSuffix(f.line, "\n") {
		sb.WriteByte('\n')
	}
	if f.line != "\n" {
		fmt.Fprintf(sb, "%5s|%s%s%s\n", "",
			strings.Repeat(" ", f.leadingWidth),
			strings.Repeat("~", f.ctxWidth),
			strings.Repeat("^", f.errWidth))
	}
}

// getDiags is the core multi-line-spanning algorithm: it locates the line
// containing the current start index, slices it into leading/ctx/error
// parts, and loops, carrying over whichever range extends past the
// current line, until both are consumed.
func (li *LineIndex) getDiags(ctxStartByteIdx *ByteIdx, errorByteSpan *ByteSpan, cu *CompilationUnit) []caretFrame {
	var frames []caretFrame

	for {
		var startByteIdx ByteIdx
		switch {
		case ctxStartByteIdx != nil && errorByteSpan != nil && *ctxStartByteIdx == errorByteSpan.Start:
			startByteIdx = errorByteSpan.Start
			ctxStartByteIdx = nil
		case ctxStartByteIdx != nil:
			startByteIdx = *ctxStartByteIdx
		case errorByteSpan != nil:
			startByteIdx = errorByteSpan.Start
		default:
			return frames
		}

		if int(startByteIdx) == len(cu.Source()) {
			return frames
		}

		lineNr, line, lineStartByteIdx := li.getLine(startByteIdx)

		var leadingStr, ctxStr, errStr string

		if ctxStartByteIdx != nil {
			realCtxStart := *ctxStartByteIdx
			leadingStr = line[:int(realCtxStart-lineStartByteIdx)]

			if errorByteSpan != nil {
				realErrSpan := *errorByteSpan
				errorStartIdx := int(realErrSpan.Start - lineStartByteIdx)
				errorEndIdx := int(realErrSpan.End - lineStartByteIdx)
				lineByteLen := len(line)

				if lineByteLen > errorStartIdx {
					ctxStr = line[len(leadingStr):errorStartIdx]
					ctxStartByteIdx = nil
					if lineByteLen > errorEndIdx {
						errStr = line[errorStartIdx : errorEndIdx+1]
						errorByteSpan = nil
					} else {
						errStr = line[errorStartIdx:]
						newStart := realErrSpan.Start + ByteIdx(len(errStr))
						errorByteSpan = &ByteSpan{Start: newStart, End: realErrSpan.End}
					}
				} else {
					ctxStr = line[len(leadingStr):]
					newCtxStart := realCtxStart + ByteIdx(len(ctxStr))
					ctxStartByteIdx = &newCtxStart
					errStr = ""
				}
			} else {
				ctxStr = line[len(leadingStr):]
				newCtxStart := realCtxStart + ByteIdx(len(ctxStr))
				ctxStartByteIdx = &newCtxStart
			}
		} else {
			realErrSpan := *errorByteSpan
			errorStartIdx := int(realErrSpan.Start - lineStartByteIdx)
			errorEndIdx := int(realErrSpan.End - lineStartByteIdx)
			lineByteLen := len(line)

			leadingStr = line[:errorStartIdx]
			if lineByteLen > errorEndIdx {
				errStr = line[errorStartIdx : errorEndIdx+1]
				errorByteSpan = nil
			} else {
				errStr = line[errorStartIdx:]
				newStart := realErrSpan.Start + ByteIdx(len(errStr))
				errorByteSpan = &ByteSpan{Start: newStart, End: realErrSpan.End}
			}
			ctxStr = ""
		}

		frames = append(frames, caretFrame{
			lineNr:       lineNr,
			line:         line,
			leadingWidth: uniseg.StringWidth(leadingStr),
			ctxWidth:     uniseg.StringWidth(ctxStr),
			errWidth:     uniseg.StringWidth(errStr),
		})
	}
}

func renderFrames(frames []caretFrame) string {
	var sb strings.Builder
	for _, f := range frames {
		f.render(&sb)
	}
	return sb.String()
}

// DiagWithError renders caret frames for a standalone error span.
func (li *LineIndex) DiagWithError(errByteSpan ByteSpan, cu *CompilationUnit) string {
	return renderFrames(li.getDiags(nil, &errByteSpan, cu))
}

// DiagWithCtx renders caret frames for a standalone context anchor.
func (li *LineIndex) DiagWithCtx(ctxStartByteIdx ByteIdx, cu *CompilationUnit) string {
	return renderFrames(li.getDiags(&ctxStartByteIdx, nil, cu))
}

// DiagWithCtxAndError renders context tildes up to where the error span
// begins, then error carets from there.
func (li *LineIndex) DiagWithCtxAndError(ctxStartByteIdx ByteIdx, errByteSpan ByteSpan, cu *CompilationUnit) string {
	return renderFrames(li.getDiags(&ctxStartByteIdx, &errByteSpan, cu))
}
