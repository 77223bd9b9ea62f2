package hardware

// BIOS is the trait-style façade over every privileged machine primitive
// the nucleus depends on but does not itself implement: context switches,
// interrupt masking, the TLB, and machine halt/panic/wait. Modeled after
// the Coprocessor interface pattern (LoadWord/StoreWord as the seam between
// CPU and COP0) — here the seam sits between the kernel and the simulated
// machine.
type BIOS interface {
	// Bus exposes the device-register/TOD/interval-timer area.
	Bus() *BusArea

	// GetStatus/SetStatus read and write the processor Status register.
	GetStatus() uint32
	SetStatus(v uint32)

	// LoadPLT (re)arms the Processor Local Timer with a microsecond
	// countdown; ReadPLT returns microseconds remaining.
	LoadPLT(us uint32)
	ReadPLT() uint32

	// ReadTOD returns the simulated time-of-day clock, in microseconds
	// since boot.
	ReadTOD() uint64

	// TLBClear, TLBProbe, TLBRead and TLBWriteRandom model the four TLB
	// instructions (TLBCLR/TLBP/TLBR/TLBWR).
	TLBClear()
	TLBProbe(entryHi uint32) (index int, hit bool)
	TLBRead(index int) (entryHi, entryLo uint32)
	TLBWriteRandom(entryHi, entryLo uint32)

	// LDST transfers control to the given saved state; LDCXT transfers
	// control to a pass-up-or-die resume context. Both are control
	// transfers: the caller should treat them as not returning to the
	// current logical flow (the next code to run is whatever these
	// invoke).
	LDST(state *ProcessorState)
	LDCXT(ctx Context)

	// HALT, PANIC and WAIT are the three ways a Pandos machine can stop
	// running instructions.
	HALT()
	PANIC(reason string)
	WAIT()
}
