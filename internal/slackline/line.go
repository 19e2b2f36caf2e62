package slackline

// line is the growable byte vector behind a SlackLine. insert and remove are
// the only places bytes are shifted.
type line []byte

// insert splices p into l at byte offset at, moving the tail right.
func (l *line) insert(at int, p []byte) {
	n := len(*l)
	*l = append(*l, p...)
	copy((*l)[at+len(p):], (*l)[at:n])
	copy((*l)[at:], p)
}

// remove drops n bytes starting at offset at, moving the tail left.
func (l *line) remove(at, n int) {
	copy((*l)[at:], (*l)[at+n:])
	*l = (*l)[:len(*l)-n]
}

// prevStart returns the offset of the codepoint that ends at off.
func (l line) prevStart(off int) int {
	i := off - 1
	for i > 0 && isContinuation(l[i]) {
		i--
	}
	return i
}

// nextEnd returns the offset just past the codepoint that starts at off.
func (l line) nextEnd(off int) int {
	i := off + 1
	for i < len(l) && isContinuation(l[i]) {
		i++
	}
	return i
}

func isContinuation(b byte) bool { return b&0xC0 == 0x80 }

// seqLen reports the encoded length announced by a UTF-8 leading byte, or 0
// when b cannot start a sequence.
func seqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	}
	return 0
}
