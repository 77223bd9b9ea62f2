package kernel

import "pandos/internal/hardware"

// PTE is one page table entry: the EntryHi/EntryLo pair the TLB-refill
// handler loads directly into the TLB on a miss.
type PTE struct {
	EntryHi uint32
	EntryLo uint32
}

// Exception-state slot indices, used to pick between the two saved
// exception states/contexts a support structure carries: one for TLB
// exceptions, one for every other (general) exception.
const (
	PageFaultException = 0
	GeneralException   = 1
)

// SupportStruct is a process's support structure: the record the support
// level needs to resolve page faults and field syscalls 9-13 on a user
// process's behalf once the nucleus has passed up control. It is defined
// here, rather than in internal/support, because a PCB holds a pointer to
// one directly (mirroring support_t being declared in the nucleus's own
// types.h alongside pcb_t) — internal/support supplies the behavior that
// operates on it.
type SupportStruct struct {
	ASID int

	ExceptState   [2]hardware.ProcessorState
	ExceptContext [2]hardware.Context

	PageTable [EntriesPerPage]PTE

	// Per-exception-type kernel stacks used while the support level
	// handles a TLB or general exception passed up from the nucleus.
	TLBStack     [500]byte
	GeneralStack [500]byte
}
