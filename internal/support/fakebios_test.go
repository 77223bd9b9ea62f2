package support

import "pandos/internal/hardware"

// fakeBIOS is the support package's own minimal BIOS stand-in, matching
// internal/kernel's test fake in spirit: no real timers or TLB, just
// enough state for Handler's tests to observe what it asked for.
type fakeBIOS struct {
	bus hardware.BusArea
	tod uint64

	tlbCleared   int
	tlbWrites    []struct{ entryHi, entryLo uint32 }
}

func newFakeBIOS() *fakeBIOS { return &fakeBIOS{} }

func (f *fakeBIOS) Bus() *hardware.BusArea { return &f.bus }

func (f *fakeBIOS) GetStatus() uint32  { return 0 }
func (f *fakeBIOS) SetStatus(v uint32) {}

func (f *fakeBIOS) LoadPLT(us uint32) {}
func (f *fakeBIOS) ReadPLT() uint32   { return 0 }

func (f *fakeBIOS) ReadTOD() uint64 { return f.tod }

func (f *fakeBIOS) TLBClear() { f.tlbCleared++ }
func (f *fakeBIOS) TLBProbe(entryHi uint32) (int, bool) { return 0, false }
func (f *fakeBIOS) TLBRead(index int) (uint32, uint32)  { return 0, 0 }
func (f *fakeBIOS) TLBWriteRandom(entryHi, entryLo uint32) {
	f.tlbWrites = append(f.tlbWrites, struct{ entryHi, entryLo uint32 }{entryHi, entryLo})
}

func (f *fakeBIOS) LDST(state *hardware.ProcessorState) {}
func (f *fakeBIOS) LDCXT(ctx hardware.Context)           {}

func (f *fakeBIOS) HALT()               {}
func (f *fakeBIOS) PANIC(reason string) {}
func (f *fakeBIOS) WAIT()               {}
