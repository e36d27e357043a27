package chunk

// Origin is the source position of a chunk, fixed at tokenization time and
// never mutated afterward.
type Origin struct {
	Line        int
	ColumnStart int
	ColumnEnd   int
}

// ID is a stable handle into a List's arena. It survives insertions and
// removals elsewhere in the list, which is the point of using an arena
// instead of raw pointers.
type ID int32

// NoID means "no chunk".
const NoID ID = -1

// Chunk is the sole in-memory entity of the pipeline.
type Chunk struct {
	Kind       Kind
	ParentKind Kind
	Origin     Origin
	Flags      Flags
	Level      int // nesting depth across all bracket kinds
	BraceLevel int // nesting depth across {} and virtual braces only
	PPLevel    int // nesting depth across #if/#endif
	Text       string
	Scope      string

	prev, next ID
}

// List is an arena-backed doubly-linked sequence of chunks for one file.
// prev/next are integer handles rather than pointers so the arena can be
// grown, copied, or indexed without invalidating anything held elsewhere.
type List struct {
	arena []Chunk
	head  ID
	tail  ID
}

// NewList returns an empty chunk list sized for roughly n tokens.
func NewList(n int) *List {
	l := &List{head: NoID, tail: NoID}
	if n > 0 {
		l.arena = make([]Chunk, 0, n)
	}
	return l
}

// Len returns the number of chunks, including ones logically removed from
// the prev/next chain but not yet compacted (there are none in this
// implementation: Remove physically unlinks and the arena slot is simply
// never visited again).
func (l *List) Len() int { return len(l.arena) }

// Head returns the ID of the first chunk, or NoID if the list is empty.
func (l *List) Head() ID { return l.head }

// Tail returns the ID of the last chunk, or NoID if the list is empty.
func (l *List) Tail() ID { return l.tail }

// At dereferences a handle. Callers must not retain the returned pointer
// across a mutation that could reallocate the arena (Append does not
// reallocate past the point a pointer was taken only if no further Appends
// happen first) — prefer re-fetching via At after any mutation.
func (l *List) At(id ID) *Chunk {
	if id == NoID {
		return nil
	}
	return &l.arena[id]
}

// Next returns the handle following id, or NoID at the end of the list.
func (l *List) Next(id ID) ID {
	if id == NoID {
		return NoID
	}
	return l.arena[id].next
}

// Prev returns the handle preceding id, or NoID at the start of the list.
func (l *List) Prev(id ID) ID {
	if id == NoID {
		return NoID
	}
	return l.arena[id].prev
}

// Append adds c to the end of the list and returns its new handle.
func (l *List) Append(c Chunk) ID {
	c.prev = l.tail
	c.next = NoID
	id := ID(len(l.arena))
	l.arena = append(l.arena, c)
	if l.tail != NoID {
		l.arena[l.tail].next = id
	} else {
		l.head = id
	}
	l.tail = id
	return id
}

// InsertAfter splices a new chunk in after "after" and returns its handle.
// Used by the frame tracker to insert virtual braces.
func (l *List) InsertAfter(after ID, c Chunk) ID {
	nextID := l.Next(after)
	c.prev = after
	c.next = nextID
	id := ID(len(l.arena))
	l.arena = append(l.arena, c)
	if after != NoID {
		l.arena[after].next = id
	} else {
		l.head = id
	}
	if nextID != NoID {
		l.arena[nextID].prev = id
	} else {
		l.tail = id
	}
	return id
}

// Remove physically unlinks id from the chain. The arena slot is retained
// (handles elsewhere remain valid integers) but is no longer reachable by
// traversal.
func (l *List) Remove(id ID) {
	c := l.arena[id]
	if c.prev != NoID {
		l.arena[c.prev].next = c.next
	} else {
		l.head = c.next
	}
	if c.next != NoID {
		l.arena[c.next].prev = c.prev
	} else {
		l.tail = c.prev
	}
}

// Each calls fn for every chunk in source order.
func (l *List) Each(fn func(id ID, c *Chunk)) {
	for id := l.head; id != NoID; id = l.arena[id].next {
		fn(id, &l.arena[id])
	}
}

// NextSkipPreproc returns the next chunk after id that does not carry
// InPreproc, skipping over an entire preprocessor region in one step. It is
// a plain iterator rather than a recursive method, so a long run of
// preprocessor chunks can't blow the stack.
func (l *List) NextSkipPreproc(id ID) ID {
	for n := l.Next(id); n != NoID; n = l.Next(n) {
		if !l.arena[n].Flags.Has(InPreproc) {
			return n
		}
	}
	return NoID
}

// NextNonTrivial returns the next chunk after id that is neither a newline
// nor NL_CONT nor discarded whitespace — the "nearest non-newline neighbour"
// used throughout the re-labeler.
func (l *List) NextNonTrivial(id ID) ID {
	for n := l.Next(id); n != NoID; n = l.Next(n) {
		k := l.arena[n].Kind
		if k != KindNewline && k != KindNLCont && k != KindWhitespace {
			return n
		}
	}
	return NoID
}

// PrevNonTrivial is the backward counterpart of NextNonTrivial.
func (l *List) PrevNonTrivial(id ID) ID {
	for p := l.Prev(id); p != NoID; p = l.Prev(p) {
		k := l.arena[p].Kind
		if k != KindNewline && k != KindNLCont && k != KindWhitespace {
			return p
		}
	}
	return NoID
}
