package kernel

import "pandos/internal/hardware"

// PID identifies a process: an index into a ProcPool's arena. NoPID is the
// null process handle, the index-based analogue of a NULL pcb_PTR.
type PID int

const NoPID PID = -1

// PCB is a process control block: processor state, accounting, blocking
// status, and the process-queue/process-tree links, all addressed by PID
// rather than pointer.
type PCB struct {
	// process-queue links (ready queue, or a semaphore's blocked queue)
	next, prev PID

	// process-tree links
	parent, child, nextSib, prevSib PID

	State   hardware.ProcessorState
	Time    int64  // accumulated CPU time, in simulated microseconds
	SemAdd  *int32 // non-nil iff blocked on a semaphore
	Support *SupportStruct
}

// ProcPool is the fixed-size pool of MaxProc PCBs processes are allocated
// from and returned to.
type ProcPool struct {
	arena *arena[PCB]
}

func NewProcPool() *ProcPool {
	return &ProcPool{arena: newArena[PCB](MaxProc)}
}

// Alloc removes a PCB from the free pool, giving every field its zero/NULL
// initial value (matching allocPcb's "pcbs get reused, so no previous value
// may persist" requirement) and returns its PID. ok is false if the pool is
// exhausted.
func (pp *ProcPool) Alloc() (PID, bool) {
	idx, ok := pp.arena.alloc()
	if !ok {
		return NoPID, false
	}
	pid := PID(idx)
	pcb := pp.arena.at(idx)
	pcb.next, pcb.prev = NoPID, NoPID
	pcb.parent, pcb.child, pcb.nextSib, pcb.prevSib = NoPID, NoPID, NoPID, NoPID
	return pid, true
}

// Free returns a PCB to the pool. The caller must first have removed it
// from any process queue and process tree it belonged to.
func (pp *ProcPool) Free(p PID) {
	pp.arena.release(int(p))
}

func (pp *ProcPool) Get(p PID) *PCB {
	if p == NoPID {
		return nil
	}
	return pp.arena.at(int(p))
}

// Active lists every currently-allocated PID, for debug tooling (cmd/pandos
// ps) rather than anything the nucleus itself needs.
func (pp *ProcPool) Active() []PID {
	idxs := pp.arena.active()
	out := make([]PID, len(idxs))
	for i, idx := range idxs {
		out[i] = PID(idx)
	}
	return out
}

// Queue is a tail-pointer handle onto a circular, doubly linked process
// queue threaded through PCB.next/PCB.prev. The zero Queue is empty.
type Queue struct {
	tail     PID
	nonEmpty bool // tail is meaningful only when set
}

func (pp *ProcPool) EmptyQueue(q *Queue) bool {
	return !q.nonEmpty
}

// InsertQueue appends p to the tail of q.
func (pp *ProcPool) InsertQueue(q *Queue, p PID) {
	node := pp.Get(p)
	if pp.EmptyQueue(q) {
		node.next, node.prev = p, p
		q.tail = p
		q.nonEmpty = true
		return
	}
	tail := pp.Get(q.tail)
	head := tail.next
	node.next = head
	node.prev = q.tail
	pp.Get(head).prev = p
	tail.next = p
	q.tail = p
}

// RemoveQueue removes and returns the head of q, or NoPID if q is empty.
func (pp *ProcPool) RemoveQueue(q *Queue) PID {
	if pp.EmptyQueue(q) {
		return NoPID
	}
	tail := pp.Get(q.tail)
	head := tail.next
	if head == q.tail {
		// sole element
		pp.Get(head).next, pp.Get(head).prev = NoPID, NoPID
		q.tail = NoPID
		q.nonEmpty = false
		return head
	}
	headNode := pp.Get(head)
	newHead := headNode.next
	tail.next = newHead
	pp.Get(newHead).prev = q.tail
	headNode.next, headNode.prev = NoPID, NoPID
	return head
}

// HeadQueue returns the head of q without removing it, or NoPID if empty.
func (pp *ProcPool) HeadQueue(q *Queue) PID {
	if pp.EmptyQueue(q) {
		return NoPID
	}
	return pp.Get(q.tail).next
}

// OutQueue removes p from q wherever it sits in the ring, returning p, or
// NoPID if p is not found in q.
func (pp *ProcPool) OutQueue(q *Queue, p PID) PID {
	if pp.EmptyQueue(q) {
		return NoPID
	}
	head := pp.Get(q.tail).next
	cur := head
	for i := 0; i < MaxProc; i++ {
		if cur == p {
			node := pp.Get(cur)
			if node.next == cur {
				// sole element in the ring
				q.tail = NoPID
				q.nonEmpty = false
			} else {
				pp.Get(node.prev).next = node.next
				pp.Get(node.next).prev = node.prev
				if cur == q.tail {
					q.tail = node.prev
				}
			}
			node.next, node.prev = NoPID, NoPID
			return p
		}
		cur = pp.Get(cur).next
		if cur == head {
			break
		}
	}
	return NoPID
}

// ---- process tree ----

func (pp *ProcPool) EmptyChild(p PID) bool {
	return pp.Get(p).child == NoPID
}

// InsertChild makes p a child of parent, pushing it onto parent's child
// stack (mirrors insertChild's "treat p_child as a stack" discipline).
func (pp *ProcPool) InsertChild(parent, p PID) {
	pr := pp.Get(parent)
	node := pp.Get(p)
	node.parent = parent
	node.prevSib = NoPID
	node.nextSib = pr.child
	if pr.child != NoPID {
		pp.Get(pr.child).prevSib = p
	}
	pr.child = p
}

// RemoveChild detaches and returns p's first (most recently inserted)
// child, or NoPID if p has none.
func (pp *ProcPool) RemoveChild(p PID) PID {
	pr := pp.Get(p)
	first := pr.child
	if first == NoPID {
		return NoPID
	}
	firstNode := pp.Get(first)
	pr.child = firstNode.nextSib
	if pr.child != NoPID {
		pp.Get(pr.child).prevSib = NoPID
	}
	firstNode.parent, firstNode.nextSib = NoPID, NoPID
	return first
}

// OutChild detaches p from its parent's child list regardless of its
// position, returning p, or NoPID if p has no parent.
func (pp *ProcPool) OutChild(p PID) PID {
	node := pp.Get(p)
	if node.parent == NoPID {
		return NoPID
	}
	parent := pp.Get(node.parent)
	if node.prevSib == NoPID {
		parent.child = node.nextSib
	} else {
		pp.Get(node.prevSib).nextSib = node.nextSib
	}
	if node.nextSib != NoPID {
		pp.Get(node.nextSib).prevSib = node.prevSib
	}
	node.parent, node.nextSib, node.prevSib = NoPID, NoPID, NoPID
	return p
}
