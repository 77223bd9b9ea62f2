// Package support implements the VM-support layer: the Pager (TLB
// exception handling and FIFO swap-pool replacement) and the user-level
// syscall façade (SYS9-13) that sit on top of the nucleus's SYS1-8.
package support

import "pandos/internal/kernel"

const (
	// MaxFrameCount is the Swap Pool size: two frames per user process,
	// matching the original's 2*UPROCMAX sizing rule.
	MaxFrameCount = 2 * kernel.UprocMax

	// PageSize is the simulated page size in bytes.
	PageSize = 4096

	// EmptyFrame marks an unoccupied swap-pool frame (no owning ASID).
	EmptyFrame = -1

	// TLB exception code for a TLB-Modification exception, which is
	// always a program trap rather than a refill.
	TLBModExcCode = 1

	// Page-table EntryLo bit positions.
	ValidBit = 1 << 9
	DirtyBit = 1 << 10

	MaxStrLen = 128

	// KUSeg is the start of user-mode virtual address space. The SYS11-13
	// façade takes registered buffer handles rather than addresses, so
	// nothing checks an address against it.
	KUSeg = 0x80000000

	// WriteCharCmd is the device command value that asks a terminal or
	// printer to transmit/print a single character placed in Data0/Data1.
	WriteCharCmd = 2

	// DevStatusMask isolates the low byte of a completed device's status
	// word, which a terminal/printer write loop compares against
	// hardware.DevStatusReady to detect a transmission error.
	DevStatusMask = 0xFF
)

// Well-known semaphore handles shared by every Handler/testprogs instance,
// resolved through Kernel.userSemAddr (see internal/kernel/syscall.go).
const (
	SwapSemHandle   uint32 = 0xFFFF0001
	MasterSemHandle uint32 = 0xFFFF0002
	PrinterSemBase  uint32 = 0xFFFF1000 // + line<<8 + ASID for a process's printer/terminal mutex
)
