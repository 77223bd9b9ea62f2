package hardware

import "sort"

// tlbEntry is one simulated TLB slot.
type tlbEntry struct {
	entryHi, entryLo uint32
	valid            bool
}

// Sim is a deterministic, host-process-local BIOS implementation. It
// stands in for the real MMIO-bound machine the original nucleus runs on —
// that binding is an out-of-scope external collaborator (there is no real
// UMPS3 bus to attach to here) — so Sim is the only non-test BIOS
// implementation in this repository, used by `pandos` and the boot tests;
// the kernel and support package tests use their own fakeBIOS instead.
// Control-transfer primitives (LDST/LDCXT/HALT/PANIC) are injected as
// callbacks so this package stays free of any dependency on the kernel or
// process model that drives it.
type Sim struct {
	bus    BusArea
	status uint32
	plt    uint32
	tod    uint64
	tlb    []tlbEntry

	onLDST  func(*ProcessorState)
	onLDCXT func(Context)
	onHalt  func()
	onPanic func(string)
	onWait  func()
}

// NewSim builds a Sim with tlbSize TLB slots. The control-transfer
// callbacks are supplied by whoever owns the process/goroutine model
// (internal/boot); none of them may be nil.
func NewSim(tlbSize int, onLDST func(*ProcessorState), onLDCXT func(Context), onHalt func(), onPanic func(string), onWait func()) *Sim {
	return &Sim{
		tlb:     make([]tlbEntry, tlbSize),
		onLDST:  onLDST,
		onLDCXT: onLDCXT,
		onHalt:  onHalt,
		onPanic: onPanic,
		onWait:  onWait,
	}
}

func (s *Sim) Bus() *BusArea { return &s.bus }

func (s *Sim) GetStatus() uint32  { return s.status }
func (s *Sim) SetStatus(v uint32) { s.status = v }

func (s *Sim) LoadPLT(us uint32) { s.plt = us }
func (s *Sim) ReadPLT() uint32   { return s.plt }

func (s *Sim) ReadTOD() uint64 { return s.tod }

// Advance moves the simulated clock forward by us microseconds, decrementing
// the PLT countdown. It is not part of the BIOS interface — the process
// harness in internal/boot calls it directly to model elapsed CPU time,
// since there is no real instruction stream to count cycles from.
func (s *Sim) Advance(us uint32) {
	s.tod += uint64(us)
	if s.plt > us {
		s.plt -= us
	} else {
		s.plt = 0
	}
}

func (s *Sim) TLBClear() {
	for i := range s.tlb {
		s.tlb[i] = tlbEntry{}
	}
}

func (s *Sim) TLBProbe(entryHi uint32) (int, bool) {
	for i, e := range s.tlb {
		if e.valid && e.entryHi == entryHi {
			return i, true
		}
	}
	return -1, false
}

func (s *Sim) TLBRead(index int) (uint32, uint32) {
	e := s.tlb[index]
	return e.entryHi, e.entryLo
}

func (s *Sim) TLBWriteRandom(entryHi, entryLo uint32) {
	// Prefer an empty slot so repeated refills don't needlessly evict an
	// entry another process still depends on; fall back to the lowest
	// slot index, a deterministic stand-in for the hardware's "random"
	// replacement that keeps test traces reproducible.
	slots := make([]int, 0, len(s.tlb))
	for i, e := range s.tlb {
		if !e.valid {
			slots = []int{i}
			break
		}
		slots = append(slots, i)
	}
	sort.Ints(slots)
	idx := slots[0]
	s.tlb[idx] = tlbEntry{entryHi: entryHi, entryLo: entryLo, valid: true}
}

func (s *Sim) LDST(state *ProcessorState)  { s.onLDST(state) }
func (s *Sim) LDCXT(ctx Context)           { s.onLDCXT(ctx) }
func (s *Sim) HALT()                       { s.onHalt() }
func (s *Sim) PANIC(reason string)         { s.onPanic(reason) }
func (s *Sim) WAIT()                       { s.onWait() }
