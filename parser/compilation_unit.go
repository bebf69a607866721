/*
 * llang
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"fmt"
	"os"
	"strings"

	"devt.de/krotik/common/fileutil"
	"github.com/rivo/uniseg"
)

/*
CompilationUnit owns a normalized source buffer and its grapheme-cluster
partition. It is immutable after construction: the lexer and parser read
it but never mutate it.
*/
type CompilationUnit struct {
	origin string
	source string

	// graphemes[i] is the byte span of the i-th grapheme cluster. The
	// graphemes array partitions the entire source: graphemes[i].End+1 ==
	// graphemes[i+1].Start for all i, and graphemes[0].Start == 0.
	graphemes []ByteSpan
}

// FromString builds a CompilationUnit from an in-memory string, normalizing
// CRLF line endings to LF and computing the grapheme-cluster partition.
func FromString(origin string, text string) *CompilationUnit {
	normalized := normalizeNewlines(text)
	return &CompilationUnit{
		origin:    origin,
		source:    normalized,
		graphemes: partitionGraphemes(normalized),
	}
}

// FromFile reads path and builds a CompilationUnit from its contents.
func FromFile(path string) (*CompilationUnit, error) {
	if !fileutil.PathExists(path) {
		return nil, fmt.Errorf("no such file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return FromString(path, string(data)), nil
}

func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r\n") {
		return text
	}
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func partitionGraphemes(source string) []ByteSpan {
	spans := make([]ByteSpan, 0, len(source))

	gr := uniseg.NewGraphemes(source)
	for gr.Next() {
		start, end := gr.Positions()
		spans = append(spans, ByteSpan{Start: ByteIdx(start), End: ByteIdx(end - 1)})
	}

	return spans
}

// Origin is the label used in diagnostic headers (file path or a caller
// supplied name for in-memory sources).
func (cu *CompilationUnit) Origin() string {
	return cu.origin
}

// Source is the normalized source text in full.
func (cu *CompilationUnit) Source() string {
	return cu.source
}

// Len is the number of graphemes in the source.
func (cu *CompilationUnit) Len() GraphemeIdx {
	return GraphemeIdx(len(cu.graphemes))
}

// ByteSpanOf returns the byte span of the grapheme at idx.
func (cu *CompilationUnit) ByteSpanOf(idx GraphemeIdx) (ByteSpan, bool) {
	if idx < 0 || int(idx) >= len(cu.graphemes) {
		return ByteSpan{}, false
	}
	return cu.graphemes[idx], true
}

// GetStrByteSpan returns the substring covered by a ByteSpan.
func (cu *CompilationUnit) GetStrByteSpan(span ByteSpan) (string, bool) {
	if span.Start < 0 || int(span.End) >= len(cu.source) || span.Start > span.End {
		return "", false
	}
	return cu.source[span.Start : span.End+1], true
}

// GetStrGrapheme returns the single grapheme at idx.
func (cu *CompilationUnit) GetStrGrapheme(idx GraphemeIdx) (string, bool) {
	bs, ok := cu.ByteSpanOf(idx)
	if !ok {
		return "", false
	}
	return cu.GetStrByteSpan(bs)
}

// GetStrGraphemeSpan returns the substring covered by a GraphemeSpan.
func (cu *CompilationUnit) GetStrGraphemeSpan(span GraphemeSpan) (string, bool) {
	startBS, ok := cu.ByteSpanOf(span.Start)
	if !ok {
		return "", false
	}
	endBS, ok := cu.ByteSpanOf(span.End)
	if !ok {
		return "", false
	}
	return cu.GetStrByteSpan(ByteSpan{Start: startBS.Start, End: endBS.End})
}

// ByteSpanOfGraphemeSpan converts a GraphemeSpan to the ByteSpan it covers.
func (cu *CompilationUnit) ByteSpanOfGraphemeSpan(span GraphemeSpan) (ByteSpan, bool) {
	startBS, ok := cu.ByteSpanOf(span.Start)
	if !ok {
		return ByteSpan{}, false
	}
	endBS, ok := cu.ByteSpanOf(span.End)
	if !ok {
		return ByteSpan{}, false
	}
	return ByteSpan{Start: startBS.Start, End: endBS.End}, true
}
