package diff

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aryann/difflib"

	"quill/pkg/schema"
)

type ChangeType int

const (
	Unchanged ChangeType = iota
	Added
	Removed
	Modified
)

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

type WordDelta struct {
	Op   Op
	Text string
}

type StringDiff struct {
	Old    string
	New    string
	Deltas []WordDelta
}

type FieldDiff struct {
	Path string
	Str  StringDiff
}

// ChapterDiff describes how one chapter of the manuscript departs from its
// outline entry.
type ChapterDiff struct {
	Number     int
	State      ChangeType
	FieldDiffs []FieldDiff
}

// Chapters compares the outline plan with the written chapters by number.
// Only chapters that were added, removed or retitled are returned.
func Chapters(outline schema.Outline, m schema.Manuscript) []ChapterDiff {
	planned := make(map[int]schema.ChapterStub, len(outline.Chapters))
	for _, ch := range outline.Chapters {
		planned[ch.Number] = ch
	}
	written := make(map[int]schema.Chapter, len(m.Chapters))
	for _, ch := range m.Chapters {
		written[ch.Number] = ch
	}

	var out []ChapterDiff
	for _, p := range outline.Chapters {
		w, ok := written[p.Number]
		if !ok {
			out = append(out, ChapterDiff{Number: p.Number, State: Removed})
			continue
		}
		fd := make([]FieldDiff, 0, 2)
		addFieldDiff := func(path, a, b string) {
			if normalize(a) == normalize(b) {
				return
			}
			fd = append(fd, FieldDiff{Path: path, Str: strDiff(a, b)})
		}
		addFieldDiff("Title", p.Title, w.Title)
		addFieldDiff("Subheading", p.Subheading, w.Subheading)
		if len(fd) > 0 {
			out = append(out, ChapterDiff{Number: p.Number, State: Modified, FieldDiffs: fd})
		}
	}
	for _, w := range m.Chapters {
		if _, ok := planned[w.Number]; !ok {
			out = append(out, ChapterDiff{
				Number:     w.Number,
				State:      Added,
				FieldDiffs: []FieldDiff{{Path: "Title", Str: strEq("", w.Title)}},
			})
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func strEq(a, b string) StringDiff {
	return StringDiff{Old: a, New: b, Deltas: []WordDelta{{Op: Insert, Text: b}}}
}

func strDiff(a, b string) StringDiff {
	if a == b {
		return StringDiff{Old: a, New: b, Deltas: []WordDelta{{Op: Equal, Text: a}}}
	}
	at := TokenizeWords(a)
	bt := TokenizeWords(b)
	recs := difflib.Diff(at, bt)
	deltas := make([]WordDelta, 0, len(recs))
	for _, r := range recs {
		switch r.Delta {
		case difflib.Common:
			deltas = append(deltas, WordDelta{Op: Equal, Text: r.Payload})
		case difflib.LeftOnly:
			deltas = append(deltas, WordDelta{Op: Delete, Text: r.Payload})
		case difflib.RightOnly:
			deltas = append(deltas, WordDelta{Op: Insert, Text: r.Payload})
		}
	}
	return StringDiff{Old: a, New: b, Deltas: coalesceSpaces(deltas)}
}

func coalesceSpaces(in []WordDelta) []WordDelta {
	out := make([]WordDelta, 0, len(in))
	flush := func(op Op, buf *strings.Builder) {
		if buf.Len() == 0 {
			return
		}
		out = append(out, WordDelta{Op: op, Text: buf.String()})
		buf.Reset()
	}
	var curOp Op = -1
	var buf strings.Builder
	for _, d := range in {
		if strings.TrimSpace(d.Text) == "" && d.Op == Equal {
			buf.WriteString(d.Text)
			continue
		}
		if curOp != d.Op && curOp != -1 {
			flush(curOp, &buf)
		}
		if curOp != d.Op {
			curOp = d.Op
		}
		buf.WriteString(d.Text)
	}
	flush(curOp, &buf)
	return out
}

// TokenizeWords splits s into runs of spaces, word characters and punctuation.
func TokenizeWords(s string) []string {
	var out []string
	var cur []rune
	kind := -1 // 0=space,1=word,2=punct
	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
	}
	for _, r := range s {
		k := 2
		switch {
		case unicode.IsSpace(r):
			k = 0
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' || r == '\'':
			k = 1
		}
		if kind == -1 {
			kind = k
		}
		if k != kind {
			flush()
			kind = k
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// Render shows a string diff inline, [-removed-] and {+inserted+}.
func Render(sd StringDiff) string {
	var b strings.Builder
	for _, d := range sd.Deltas {
		switch d.Op {
		case Equal:
			b.WriteString(d.Text)
		case Insert:
			fmt.Fprintf(&b, "{+%s+}", d.Text)
		case Delete:
			fmt.Fprintf(&b, "[-%s-]", d.Text)
		}
	}
	return b.String()
}

func (d ChapterDiff) String() string {
	tag := map[ChangeType]string{
		Added:     "[+]",
		Removed:   "[-]",
		Modified:  "[~]",
		Unchanged: "[=]",
	}[d.State]
	var parts []string
	for _, f := range d.FieldDiffs {
		parts = append(parts, f.Path+": "+Render(f.Str))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s chapter %d", tag, d.Number)
	}
	return fmt.Sprintf("%s chapter %d %s", tag, d.Number, strings.Join(parts, "; "))
}
