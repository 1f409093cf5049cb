// Package render splits a streamed model response into plain and thinking
// segments based on <thinking>/<think> tag pairs. The tags themselves never
// reach the caller. One Renderer serves one logical response; Feed may be
// called with arbitrarily fragmented chunks, including chunks that split a
// tag literal.
package render

import "strings"

type Kind int

const (
	Plain Kind = iota
	Thinking
)

func (k Kind) String() string {
	if k == Thinking {
		return "thinking"
	}
	return "plain"
}

// Segment is a contiguous run of rendered text in one state.
type Segment struct {
	Kind Kind
	Text string
}

// tags are checked in order; longer literals first so "</thinking>" wins
// over "</think>" at the same position.
var tags = []struct {
	literal string
	kind    Kind
}{
	{"</thinking>", Plain},
	{"<thinking>", Thinking},
	{"</think>", Plain},
	{"<think>", Thinking},
}

// Renderer is the two-state machine over the token stream. A trailing run
// that could still turn into a tag literal is held back until the next Feed
// or Flush decides it.
type Renderer struct {
	state Kind
	buf   string
}

func New() *Renderer {
	return &Renderer{state: Plain}
}

// State returns the current segmentation state.
func (r *Renderer) State() Kind {
	return r.state
}

// Feed consumes one chunk and returns the segments it completes. Consecutive
// text in the same state within a call is coalesced into one segment.
func (r *Renderer) Feed(chunk string) []Segment {
	r.buf += chunk

	var segs []Segment
	var acc strings.Builder

	emit := func() {
		if acc.Len() > 0 {
			segs = append(segs, Segment{Kind: r.state, Text: acc.String()})
			acc.Reset()
		}
	}

	for len(r.buf) > 0 {
		i := strings.IndexByte(r.buf, '<')
		if i < 0 {
			acc.WriteString(r.buf)
			r.buf = ""
			break
		}
		acc.WriteString(r.buf[:i])
		r.buf = r.buf[i:]

		if lit, kind, ok := matchTag(r.buf); ok {
			emit()
			r.state = kind
			r.buf = r.buf[len(lit):]
			continue
		}
		if tagPrefix(r.buf) {
			// Possibly a tag split across chunks; wait for more input.
			break
		}
		// A '<' that cannot start any tag is ordinary text.
		acc.WriteByte('<')
		r.buf = r.buf[1:]
	}

	emit()
	return segs
}

// Flush ends the stream, returning any held-back text as a segment in the
// current state. An unclosed opening tag simply leaves that text thinking.
func (r *Renderer) Flush() []Segment {
	if r.buf == "" {
		return nil
	}
	seg := Segment{Kind: r.state, Text: r.buf}
	r.buf = ""
	return []Segment{seg}
}

func matchTag(s string) (literal string, kind Kind, ok bool) {
	for _, t := range tags {
		if strings.HasPrefix(s, t.literal) {
			return t.literal, t.kind, true
		}
	}
	return "", Plain, false
}

// tagPrefix reports whether s is a proper prefix of some tag literal, i.e.
// more input could still complete a tag.
func tagPrefix(s string) bool {
	for _, t := range tags {
		if len(s) < len(t.literal) && strings.HasPrefix(t.literal, s) {
			return true
		}
	}
	return false
}
