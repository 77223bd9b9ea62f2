package kernel

// SEMD is a semaphore descriptor: the semaphore's address identity and the
// queue of processes blocked on it.
type SEMD struct {
	addr  *int32
	procQ Queue
}

// SemPool is the Active Semaphore List together with its free pool of
// descriptors. The original nucleus keeps the ASL as a singly linked list
// sorted by semaphore address, bracketed by MaxInt/LeastInt sentinels, so
// that insertion/lookup can stop early at a boundary. That sort order only
// exists to make a C linked-list scan terminate early; a Go map already
// gives O(1) lookup by semaphore identity and satisfies the same
// invariant ("a SEMD is on the ASL if and only if its process queue is
// non-empty") without reproducing the original's unfinished
// findSemaphore/insertSemaphore, so SemPool is backed by a map from
// semaphore address to descriptor index.
type SemPool struct {
	arena *arena[SEMD]
	index map[*int32]int
}

func NewSemPool(procs *ProcPool) *SemPool {
	return &SemPool{
		arena: newArena[SEMD](MaxProc),
		index: make(map[*int32]int, MaxProc),
	}
}

func (sp *SemPool) find(semAdd *int32) (int, bool) {
	idx, ok := sp.index[semAdd]
	return idx, ok
}

// InsertBlocked enqueues p on semAdd's blocked queue, allocating a fresh
// SEMD if semAdd isn't already active. It returns false on success, and
// true if the semaphore pool is exhausted (mirroring insertBlocked's
// inverted boolean: "return TRUE" means allocation failed).
func (sp *SemPool) InsertBlocked(procs *ProcPool, semAdd *int32, p PID) bool {
	idx, ok := sp.find(semAdd)
	if !ok {
		newIdx, allocated := sp.arena.alloc()
		if !allocated {
			return true
		}
		s := sp.arena.at(newIdx)
		s.addr = semAdd
		s.procQ = Queue{}
		sp.index[semAdd] = newIdx
		idx = newIdx
	}
	s := sp.arena.at(idx)
	procs.InsertQueue(&s.procQ, p)
	procs.Get(p).SemAdd = semAdd
	return false
}

// RemoveBlocked dequeues and returns the head of semAdd's blocked queue. If
// the queue becomes empty, the descriptor is retired from the ASL back to
// the free pool. Returns NoPID if semAdd is not on the ASL.
func (sp *SemPool) RemoveBlocked(procs *ProcPool, semAdd *int32) PID {
	idx, ok := sp.find(semAdd)
	if !ok {
		return NoPID
	}
	s := sp.arena.at(idx)
	p := procs.RemoveQueue(&s.procQ)
	if p != NoPID {
		procs.Get(p).SemAdd = nil
	}
	if procs.EmptyQueue(&s.procQ) {
		delete(sp.index, semAdd)
		sp.arena.release(idx)
	}
	return p
}

// OutBlocked removes p from the blocked queue of its own recorded
// semaphore (p.SemAdd), retiring the SEMD if its queue becomes empty.
// Returns NoPID if p does not appear there — an error condition in the
// original's contract (SYS2 terminating a blocked descendant).
func (sp *SemPool) OutBlocked(procs *ProcPool, p PID) PID {
	pcb := procs.Get(p)
	if pcb.SemAdd == nil {
		return NoPID
	}
	idx, ok := sp.find(pcb.SemAdd)
	if !ok {
		return NoPID
	}
	s := sp.arena.at(idx)
	out := procs.OutQueue(&s.procQ, p)
	if out == NoPID {
		return NoPID
	}
	pcb.SemAdd = nil
	if procs.EmptyQueue(&s.procQ) {
		delete(sp.index, s.addr)
		sp.arena.release(idx)
	}
	return out
}

// HeadBlocked returns (without removing) the head of semAdd's blocked
// queue, or NoPID if semAdd is not active or its queue is empty.
func (sp *SemPool) HeadBlocked(procs *ProcPool, semAdd *int32) PID {
	idx, ok := sp.find(semAdd)
	if !ok {
		return NoPID
	}
	return procs.HeadQueue(&sp.arena.at(idx).procQ)
}

// SemSnapshot is one active SEMD, flattened for debug tooling (cmd/pandos
// sema) rather than anything the nucleus itself needs.
type SemSnapshot struct {
	Addr    *int32
	Waiting []PID
}

// Active lists every SEMD currently on the ASL together with its blocked
// queue, in descriptor slot order.
func (sp *SemPool) Active(procs *ProcPool) []SemSnapshot {
	idxs := sp.arena.active()
	out := make([]SemSnapshot, 0, len(idxs))
	for _, idx := range idxs {
		s := sp.arena.at(idx)
		var waiting []PID
		head := procs.HeadQueue(&s.procQ)
		if head != NoPID {
			cur := head
			for {
				waiting = append(waiting, cur)
				cur = procs.Get(cur).next
				if cur == head {
					break
				}
			}
		}
		out = append(out, SemSnapshot{Addr: s.addr, Waiting: waiting})
	}
	return out
}
