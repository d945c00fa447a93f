package binnie

// TemplateBuffer is an append-only FIFO of binnedReads, indexed by
// template identity, that links same-template reads into mate-chains
// and lazily enforces bin agreement across a chain (§4.3). Reads are
// stored in an arena addressed by handle rather than by pointer, so the
// chain links (prev/next) and the FIFO order are both just integer
// indices — there is no possibility of a dangling native pointer
// outliving its buffer (spec §9's memory-safety redesign note).
type TemplateBuffer struct {
	arena []binnedRead
	fifo  []handle

	// chainTail maps a template identity to the handle of the most
	// recently appended link in its chain, so enqueue can find the tail
	// in O(1) instead of walking from a separately-tracked head.
	chainHead map[TemplateIdentity]handle
	chainTail map[TemplateIdentity]handle
}

func NewTemplateBuffer() *TemplateBuffer {
	return &TemplateBuffer{
		chainHead: make(map[TemplateIdentity]handle),
		chainTail: make(map[TemplateIdentity]handle),
	}
}

func (b *TemplateBuffer) at(h handle) *binnedRead { return &b.arena[h] }

// Size returns the number of reads currently buffered (FIFO length).
func (b *TemplateBuffer) Size() int { return len(b.fifo) }

// Contains reports whether a mate-chain already exists for ident (I1).
func (b *TemplateBuffer) Contains(ident TemplateIdentity) bool {
	_, ok := b.chainHead[ident]
	return ok
}

// Enqueue inserts r, honouring I1-I4. It returns a fatal
// UnexpectedMates error if the existing chain's expected mate count was
// already known to be 0 and a further genuine mate arrives.
func (b *TemplateBuffer) Enqueue(r *binnedRead) *Error {
	h := handle(len(b.arena))
	b.arena = append(b.arena, *r)
	b.fifo = append(b.fifo, h)

	tail, exists := b.chainTail[r.ident]
	if !exists {
		b.arena[h].prev = noHandle
		b.arena[h].next = noHandle
		b.chainHead[r.ident] = h
		b.chainTail[r.ident] = h
		return nil
	}

	head := b.chainHead[r.ident]
	if b.at(head).expectedMates == 0 {
		return newReadError(ErrUnexpectedMates, r.ident.ReadGroup, r.ident.QName, nil,
			"enqueue: template already reported 0 expected mates but another mate arrived")
	}

	disagree := false
	for cur := head; cur != noHandle; cur = b.at(cur).next {
		link := b.at(cur)
		link.observedMates++
		if link.expectedMates < 0 && b.arena[h].expectedMates >= 0 {
			link.expectedMates = b.arena[h].expectedMates
		} else if b.arena[h].expectedMates < 0 && link.expectedMates >= 0 {
			b.arena[h].expectedMates = link.expectedMates
		}
		if link.bin != r.bin {
			disagree = true
		}
	}

	b.arena[tail].next = h
	b.arena[h].prev = tail
	b.arena[h].next = noHandle
	b.chainTail[r.ident] = h

	if disagree {
		for cur := head; cur != noHandle; cur = b.at(cur).next {
			b.at(cur).bin = Remap
		}
	}
	return nil
}

// PeekFront returns the FIFO head without removing it, or false if the
// buffer is empty.
func (b *TemplateBuffer) PeekFront() (*binnedRead, bool) {
	if len(b.fifo) == 0 {
		return nil, false
	}
	return b.at(b.fifo[0]), true
}

// PopFront removes and returns the FIFO head, unlinking it from its
// mate-chain and releasing the chain's bookkeeping once the chain is
// empty.
func (b *TemplateBuffer) PopFront() (*binnedRead, *Error) {
	if len(b.fifo) == 0 {
		return nil, newError(ErrBufferRemove, "pop_front called on empty buffer")
	}
	h := b.fifo[0]
	b.fifo = b.fifo[1:]
	r := b.at(h)
	ident := r.ident

	if r.next != noHandle {
		b.at(r.next).prev = noHandle
		b.chainHead[ident] = r.next
	} else {
		delete(b.chainHead, ident)
		delete(b.chainTail, ident)
	}
	return r, nil
}
