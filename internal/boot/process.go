package boot

import (
	"pandos/internal/hardware"
	"pandos/internal/kernel"
	"pandos/internal/support"
)

// ProcessHandle is the only way a process body reaches the machine it runs
// on: nucleus syscalls 1-8, the support-level façade syscalls 9-13, a
// page-fault stand-in, and a way to account for simulated CPU time. Every
// testprogs body receives one and uses nothing else.
type ProcessHandle struct {
	pid kernel.PID
	m   *Machine
}

// Syscall issues syscall num with arguments a1-a3 and returns whatever the
// callee places in v0. Syscalls 1-8 go through the real nucleus dispatch —
// Current is blocked, rescheduled, or answered immediately exactly as
// dispatch.go/syscall.go/interrupt.go describe. Syscalls 9-13 are answered
// directly by the support level on this same goroutine: there is no literal
// hardware mode switch to model (see the package doc comment), so
// support.Handler.HandleUserSyscall runs synchronously here rather than
// bouncing through the event loop, though it may itself recurse into a real
// blocking Syscall(1..8) call for anything that actually needs the
// scheduler's attention (SYS9's V/terminate, SYS11-13's device waits).
func (h *ProcessHandle) Syscall(num, a1, a2, a3 uint32) uint32 {
	if num >= kernel.SYS1 && num <= kernel.SYS8 {
		return h.m.syscall(h.pid, num, a1, a2, a3)
	}

	supp := h.support()
	saved := &supp.ExceptState[kernel.GeneralException]
	saved.Reg[hardware.RegA0] = num
	saved.Reg[hardware.RegA1] = a1
	saved.Reg[hardware.RegA2] = a2
	saved.Reg[hardware.RegA3] = a3
	return h.m.Supp.HandleUserSyscall(h, supp)
}

// AccessPage is the Go-idiomatic stand-in for "the memory reference that
// would have TLB-faulted": a process body calls it before touching a page
// it knows (from testprogs bookkeeping, not a real address space) may not
// be resident. A page whose entry is already valid would not have faulted,
// so it returns SuccessCode without running the pager; otherwise it runs
// the pager synchronously on this goroutine, the same reasoning as the
// 9-13 branch of Syscall above.
func (h *ProcessHandle) AccessPage(vpn uint32, write bool) uint32 {
	supp := h.support()
	if vpn < kernel.EntriesPerPage && supp.PageTable[vpn].EntryLo&support.ValidBit != 0 {
		return kernel.SuccessCode
	}
	saved := &supp.ExceptState[kernel.PageFaultException]
	saved.EntryHi = vpn<<12 | uint32(supp.ASID)<<6
	if write {
		saved.Cause = uint32(hardware.ExcTLBStore) << 2
	} else {
		saved.Cause = uint32(hardware.ExcTLBLoad) << 2
	}
	return h.m.Supp.HandlePageFault(h, supp)
}

// Tick accounts for units microseconds of simulated CPU work, the
// cooperative replacement for instruction-by-instruction PLT decrementing.
// A testprogs body should call it periodically during any CPU-bound loop.
func (h *ProcessHandle) Tick(units uint32) {
	h.m.tick(h.pid, units)
}

// Spawn creates a child process running body, with the given initial
// processor state and (for a user/VM process) support structure. It
// reports the new PID, or ok=false if the process table was full.
func (h *ProcessHandle) Spawn(state hardware.ProcessorState, supp *kernel.SupportStruct, body func(*ProcessHandle)) (kernel.PID, bool) {
	return h.m.spawn(h.pid, state, supp, body)
}

// RegisterBuffer hands back a handle suitable as the a1 argument to
// SYS11/SYS12/SYS13 — see support.Handler.RegisterBuffer.
func (h *ProcessHandle) RegisterBuffer(buf []byte) uint32 {
	return h.m.Supp.RegisterBuffer(buf)
}

// WriteWord and ReadWord stand in for a direct memory reference against a
// page the caller has already faulted in with AccessPage. offset is a word
// index within the page, not a byte address.
func (h *ProcessHandle) WriteWord(vpn uint32, offset int, value uint32) {
	h.m.Supp.WriteWord(h.support(), int(vpn), offset, value)
}

func (h *ProcessHandle) ReadWord(vpn uint32, offset int) uint32 {
	return h.m.Supp.ReadWord(h.support(), int(vpn), offset)
}

// IllegalAccess stands in for a memory reference outside kuseg — the
// support level treats it as a fatal program trap. The process is
// terminated (SYS2) as a side effect of calling it; the call then returns,
// and a testprogs body makes it its last action, the same way indexing off
// the end of an instruction stream would be a bug in the calling body
// rather than something to recover from.
func (h *ProcessHandle) IllegalAccess() uint32 {
	return h.m.Supp.IllegalAccess(h, h.support())
}

func (h *ProcessHandle) support() *kernel.SupportStruct {
	return h.m.K.Procs.Get(h.pid).Support
}
