package kernel

// Compile-time kernel constants, grounded directly on the original
// nucleus's const.h.
const (
	// MaxProc is the maximum number of concurrently existing processes.
	MaxProc = 20

	// MaxInt/LeastInt are the original's ASL sentinel bounds. The map-backed
	// SemPool needs no sentinels, and nothing in this package uses them.
	MaxInt   = 0x0FFFFFFF
	LeastInt = 0x00000000

	// MaxIODevices is the number of I/O device semaphores (disk, flash,
	// network, printer, terminal — 8 per line, 5 lines, plus 8 more for the
	// terminals' transmit side, which has its own semaphore). One extra
	// semaphore beyond this, at index PseudoClockIndex, backs the
	// pseudo-clock (interval timer) "device".
	MaxIODevices    = 48
	MaxDeviceCount  = MaxIODevices + 1
	PseudoClockIndex = MaxDeviceCount - 1

	// InitialProcCount, InitialSoftBlockCount, InitialDeviceSemaphore and
	// InitialAccumulatedTime are the boot-time values of procCnt,
	// softBlockCnt, every entry of the device-semaphore array, and a
	// freshly instantiated process's CPU-time accumulator.
	InitialProcCount       = 0
	InitialSoftBlockCount  = 0
	InitialDeviceSemaphore = 0
	InitialAccumulatedTime = 0

	// SemaphoreThreshold is the lower bound at which a V operation
	// unblocks a waiting process and removes its SEMD from the ASL.
	SemaphoreThreshold = 0

	// InitialIntervalTimer and InitialPLT are the boot-time load values for
	// the system-wide interval timer (100ms) and a process's local timer
	// slice (5ms), both in microseconds.
	InitialIntervalTimer = 100_000
	InitialPLT           = 5_000

	// EntriesPerPage is the number of entries in a process's page table.
	EntriesPerPage = 32

	// UprocMax is how many user processes the support layer instantiates.
	UprocMax = 8

	// EmptyFrame marks a swap-pool frame as unoccupied (no owning ASID).
	EmptyFrame = -1
)

// Syscall numbers 1-8 are kernel/nucleus syscalls; 9-13 (defined in
// internal/support) are the user-level VM-support façade layered on top of
// SYS2/SYS3/SYS4/SYS5.
const (
	SYS1 = 1 // CREATEPROCESS
	SYS2 = 2 // TERMINATEPROCESS
	SYS3 = 3 // PASSEREN
	SYS4 = 4 // VERHOGEN
	SYS5 = 5 // WAITIO
	SYS6 = 6 // GETCPUTIME
	SYS7 = 7 // WAITCLOCK
	SYS8 = 8 // GETSUPPORTPTR
)

// Return codes placed in v0 by the nucleus syscalls.
const (
	ErrorCode   = -1
	SuccessCode = 0
)
