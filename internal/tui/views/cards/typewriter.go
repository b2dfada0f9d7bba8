package cards

const defaultTypeInterval = 30 // milliseconds per rune

// Typewriter reveals a string one rune at a time. Every Start and Fill
// bumps a revision; advance ticks carry the revision they were scheduled
// for, so ticks left over from a superseded reveal die silently.
type Typewriter struct {
	runes  []rune
	pos    int
	rev    int
	active bool
}

// Start begins revealing text from the first rune and returns the revision
// the advance ticks must carry.
func (t *Typewriter) Start(text string) int {
	t.runes = []rune(text)
	t.pos = 0
	t.rev++
	t.active = len(t.runes) > 0
	return t.rev
}

// Advance steps the reveal one rune and reports whether another tick should
// be scheduled. Stale revisions and finished reveals return false.
func (t *Typewriter) Advance(rev int) bool {
	if rev != t.rev || !t.active {
		return false
	}
	t.pos++
	if t.pos >= len(t.runes) {
		t.pos = len(t.runes)
		t.active = false
		return false
	}
	return true
}

// Fill sets the full text with no animation, stranding any reveal in
// flight.
func (t *Typewriter) Fill(text string) {
	t.runes = []rune(text)
	t.pos = len(t.runes)
	t.rev++
	t.active = false
}

// Partial returns the revealed prefix.
func (t *Typewriter) Partial() string { return string(t.runes[:t.pos]) }

// Text returns the full target text.
func (t *Typewriter) Text() string { return string(t.runes) }

// Done reports whether the full text is revealed.
func (t *Typewriter) Done() bool { return t.pos >= len(t.runes) }

// Active reports whether a reveal is in progress.
func (t *Typewriter) Active() bool { return t.active }

// Revision returns the current revision. Ticks carrying an older one are
// stale.
func (t *Typewriter) Revision() int { return t.rev }
