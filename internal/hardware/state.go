// Package hardware models the privileged machine state Pandos runs on: the
// saved trap state, the device-register bus, and the BIOS primitives a
// kernel uses to switch contexts, mask interrupts, and drive the TLB. It
// corresponds to the "Hardware / BIOS" external collaborator of the nucleus
// and support layers — nothing in here knows about processes, semaphores,
// or syscalls.
package hardware

// StateRegCount is the number of general-purpose registers saved per trap,
// matching the BIOS-defined saved-state layout (every GPR except $zero and
// $k0/$k1, plus HI and LO).
const StateRegCount = 31

// Register indices into ProcessorState.Reg.
const (
	RegAT = iota
	RegV0
	RegV1
	RegA0
	RegA1
	RegA2
	RegA3
	RegT0
	RegT1
	RegT2
	RegT3
	RegT4
	RegT5
	RegT6
	RegT7
	RegS0
	RegS1
	RegS2
	RegS3
	RegS4
	RegS5
	RegS6
	RegS7
	RegT8
	RegT9
	RegGP
	RegSP
	RegFP
	RegRA
	RegHI
	RegLO
)

// ProcessorState is the BIOS-saved trap state: the three exception
// coprocessor registers plus the saved PC and general register file. It is
// the unit LDST/LDCXT and the TLB-refill/exception handlers operate on.
type ProcessorState struct {
	EntryHi uint32
	Cause   uint32
	Status  uint32
	PC      uint32
	Reg     [StateRegCount]uint32
}

func (s *ProcessorState) A0() uint32 { return s.Reg[RegA0] }
func (s *ProcessorState) A1() uint32 { return s.Reg[RegA1] }
func (s *ProcessorState) A2() uint32 { return s.Reg[RegA2] }
func (s *ProcessorState) A3() uint32 { return s.Reg[RegA3] }
func (s *ProcessorState) V0() uint32 { return s.Reg[RegV0] }
func (s *ProcessorState) SP() uint32 { return s.Reg[RegSP] }

func (s *ProcessorState) SetV0(v uint32) { s.Reg[RegV0] = v }
func (s *ProcessorState) SetPC(pc uint32) {
	s.PC = pc
}

// Advance moves PC past the trapping instruction, the BIOS behavior for
// non-faulting traps (SYSCALL, BREAK) that must not be re-executed.
func (s *ProcessorState) Advance() { s.PC += 4 }

// CopyFrom overwrites s field-by-field from src, used when snapshotting a
// saved exception state into a process's own state_t on entry to the
// nucleus.
func (s *ProcessorState) CopyFrom(src *ProcessorState) { *s = *src }

// Context is a minimal resume context used by the pass-up-or-die
// mechanism: a stack pointer, a status word, and a PC to jump to. It models
// LDCXT's three-word argument.
type Context struct {
	StackPtr uint32
	Status   uint32
	PC       uint32
}


// Exception classes, decoded out of Cause.ExcCode (bits 2-6).
const (
	ExcInterrupt  = 0
	ExcTLBModify  = 1
	ExcTLBLoad    = 2
	ExcTLBStore   = 3
	ExcAddrErrLd  = 4
	ExcAddrErrSt  = 5
	ExcBusErrInst = 6
	ExcBusErrData = 7
	ExcSyscall    = 8
	ExcBreakpoint = 9
	ExcReserved   = 10
	ExcCopUnusabl = 11
	ExcOverflow   = 12
)

const (
	causeExcCodeShift = 2
	causeExcCodeMask  = 0x1F
)

// ExcCode extracts the exception-code field from a saved Cause register.
func ExcCode(cause uint32) int {
	return int((cause >> causeExcCodeShift) & causeExcCodeMask)
}

// IsTLBException reports whether code is one of the three TLB exception
// classes, which the nucleus passes up as page faults rather than to the
// general exception handler.
func IsTLBException(code int) bool {
	return code >= ExcTLBModify && code <= ExcTLBStore
}

// Status register bit positions relevant to the nucleus: interrupts enabled
// (IEc), previous/old interrupt-enable bits, kernel/user mode, and the
// per-line interrupt mask.
const (
	StatusIEc   = 1 << 0
	StatusKUc   = 1 << 1
	StatusIEp   = 1 << 2
	StatusKUp   = 1 << 3
	StatusIEo   = 1 << 4
	StatusKUo   = 1 << 5
	StatusIntMaskShift = 8
	StatusIntMaskAll   = 0xFF << StatusIntMaskShift
	StatusTE    = 1 << 27 // local timer (PLT) enable
)

// Cause register bits for the two non-device interrupt lines (PLT and the
// system-wide interval timer). Device lines 3-7 sit at bits 11-15, one per
// line; which device on a line raised the interrupt is read off
// BusArea.InterruptPending.
const (
	CausePLTInterrupt   = 1 << (StatusIntMaskShift + 1)
	CauseClockInterrupt = 1 << (StatusIntMaskShift + 2)
)
