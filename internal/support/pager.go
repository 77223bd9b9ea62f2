package support

import (
	"pandos/internal/hardware"
	"pandos/internal/kernel"
)

// Syscaller is what a user process's own execution context offers the
// support level: a way to issue nucleus syscalls 1-8 on its own behalf.
// internal/boot's process handles implement it; tests can fake it.
type Syscaller interface {
	Syscall(num, a1, a2, a3 uint32) uint32
}

// Handler is the VM-support layer: the TLB/pager half (HandlePageFault,
// grounded on vmSupport.c's vmTlbHandler) and the user-syscall façade half
// (HandleUserSyscall, in syscall.go).
type Handler struct {
	Kernel *kernel.Kernel
	Pool   *SwapPool
	Flash  *Flash

	// buffers backs RegisterBuffer/SYS11-13: since a process body here is a
	// Go closure sharing no address space with the support level, a user
	// syscall's "virtual address" argument is instead a handle into this
	// registry, the same adaptation RegisterSpec makes for SYS1.
	buffers map[uint32][]byte
	nextBuf uint32
}

func NewHandler(k *kernel.Kernel, pool *SwapPool, flash *Flash) *Handler {
	return &Handler{Kernel: k, Pool: pool, Flash: flash, buffers: make(map[uint32][]byte)}
}

// RegisterBuffer hands back a handle a process body can pass as the a1
// argument to SYS11/12/13; for a read syscall, buf's contents after the
// call are the characters received.
func (h *Handler) RegisterBuffer(buf []byte) uint32 {
	h.nextBuf++
	id := h.nextBuf
	h.buffers[id] = buf
	return id
}

func (h *Handler) buffer(handle uint32) ([]byte, bool) {
	b, ok := h.buffers[handle]
	return b, ok
}

// HandlePageFault is vmTlbHandler: it resolves a missing page, possibly
// evicting and writing back whatever else occupies the FIFO-selected
// frame, reads the faulting page in from flash, updates both the owning
// process's page table and the TLB, and resumes the process at the
// faulting instruction. proc is the faulting process's own Syscaller,
// used to serialize against every other pager invocation (SYS3/4 on
// SwapSemHandle) and to block for the simulated flash I/O (SYS5).
func (h *Handler) HandlePageFault(proc Syscaller, supp *kernel.SupportStruct) uint32 {
	saved := &supp.ExceptState[kernel.PageFaultException]

	if hardware.ExcCode(saved.Cause) == TLBModExcCode {
		return h.programTrap(proc, supp)
	}

	vpn := pageNumber(saved.EntryHi)
	if vpn >= kernel.EntriesPerPage {
		return h.programTrap(proc, supp)
	}

	proc.Syscall(kernel.SYS3, SwapSemHandle, 0, 0)

	frameIdx := h.Pool.SelectVictim()
	frame := h.Pool.Frame(frameIdx)

	if frame.ASID != EmptyFrame {
		h.Kernel.BIOS.TLBClear()
		if frame.Owner.EntryLo&DirtyBit != 0 {
			h.Flash.Write(frame.ASID, frame.PgNo, &frame.bytes)
			proc.Syscall(kernel.SYS5, uint32(hardware.LineFlash), uint32(frame.ASID-1), 0)
		}
		frame.Owner.EntryLo &^= ValidBit
	}

	h.Flash.Read(supp.ASID, vpn, &frame.bytes)
	proc.Syscall(kernel.SYS5, uint32(hardware.LineFlash), uint32(supp.ASID-1), 1)

	frame.ASID = supp.ASID
	frame.PgNo = vpn
	frame.Owner = &supp.PageTable[vpn]

	entryHi := (uint32(vpn) << 12) | uint32(supp.ASID)<<6
	entryLo := (uint32(frameIdx) << 12) | ValidBit | DirtyBit
	supp.PageTable[vpn].EntryHi = entryHi
	supp.PageTable[vpn].EntryLo = entryLo
	h.Kernel.BIOS.TLBWriteRandom(entryHi, entryLo)

	proc.Syscall(kernel.SYS4, SwapSemHandle, 0, 0)

	return kernel.SuccessCode
}

// programTrap answers an unrecoverable exception (a TLB-Modification
// exception, or a reference past the end of the page table) the same way
// the original's uproc_TerminateUProc does: terminate the offending process
// via the SYS9 path. It releases nothing; no caller holds the swap mutex
// when it runs.
func (h *Handler) programTrap(proc Syscaller, supp *kernel.SupportStruct) uint32 {
	return h.terminateUProc(proc)
}

// pageNumber extracts the faulting VPN out of a saved EntryHi value.
func pageNumber(entryHi uint32) int {
	return int(entryHi>>12) & (kernel.EntriesPerPage - 1)
}

// WriteWord and ReadWord stand in for an ordinary LW/SW against a resident
// page: callers fault the page in first via AccessPage, then read or write
// straight into the swap-pool frame currently backing it. There is no
// literal address space to index here (see the boot package doc comment),
// so these take the page-table slot itself rather than a virtual address.
func (h *Handler) WriteWord(supp *kernel.SupportStruct, vpn, offset int, value uint32) {
	frame := h.Pool.Frame(frameIndex(supp.PageTable[vpn].EntryLo))
	frame.putWord(offset, value)
	supp.PageTable[vpn].EntryLo |= DirtyBit
}

func (h *Handler) ReadWord(supp *kernel.SupportStruct, vpn, offset int) uint32 {
	frame := h.Pool.Frame(frameIndex(supp.PageTable[vpn].EntryLo))
	return frame.word(offset)
}

func frameIndex(entryLo uint32) int {
	return int(entryLo >> 12)
}

// IllegalAccess answers a reference outside kuseg the way the original's
// generalExceptionHandler default case does: an address error is not one of
// SYS9-13, so it is a fatal program trap like any other unrecognized
// exception, which ends the process through the same path as SYS9.
func (h *Handler) IllegalAccess(proc Syscaller, supp *kernel.SupportStruct) uint32 {
	return h.programTrap(proc, supp)
}
