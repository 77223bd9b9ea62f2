package kernel

import "pandos/internal/hardware"

// fakeBIOS is a minimal, fully synchronous stand-in for the simulated
// machine: no goroutines, no actual timers, just enough bookkeeping for
// the kernel package's tests to assert what the nucleus asked the BIOS to
// do. LDST/LDCXT record their argument instead of transferring control,
// since these tests drive handlers directly rather than running a whole
// Machine.
type fakeBIOS struct {
	bus hardware.BusArea

	status uint32
	plt    uint32
	tod    uint64

	halted    bool
	panicReason string
	waited    bool

	ldstStates []*hardware.ProcessorState
	ldcxtCtxs  []hardware.Context
}

func newFakeBIOS() *fakeBIOS {
	return &fakeBIOS{}
}

func (f *fakeBIOS) Bus() *hardware.BusArea { return &f.bus }

func (f *fakeBIOS) GetStatus() uint32     { return f.status }
func (f *fakeBIOS) SetStatus(v uint32)    { f.status = v }

func (f *fakeBIOS) LoadPLT(us uint32) { f.plt = us }
func (f *fakeBIOS) ReadPLT() uint32   { return f.plt }

func (f *fakeBIOS) ReadTOD() uint64 { return f.tod }

func (f *fakeBIOS) TLBClear()                                          {}
func (f *fakeBIOS) TLBProbe(entryHi uint32) (int, bool)                { return 0, false }
func (f *fakeBIOS) TLBRead(index int) (uint32, uint32)                 { return 0, 0 }
func (f *fakeBIOS) TLBWriteRandom(entryHi, entryLo uint32)             {}

func (f *fakeBIOS) LDST(state *hardware.ProcessorState) {
	f.ldstStates = append(f.ldstStates, state)
}

func (f *fakeBIOS) LDCXT(ctx hardware.Context) {
	f.ldcxtCtxs = append(f.ldcxtCtxs, ctx)
}

func (f *fakeBIOS) HALT()              { f.halted = true }
func (f *fakeBIOS) PANIC(reason string) { f.panicReason = reason }
func (f *fakeBIOS) WAIT()              { f.waited = true }

// advanceTOD moves the simulated clock forward by us microseconds, the
// hook tests use to make CPU-time accounting observable.
func (f *fakeBIOS) advanceTOD(us uint64) { f.tod += us }
