package kernel

import (
	"pandos/internal/hardware"

	"github.com/sirupsen/logrus"
)

// Kernel bundles every piece of nucleus-owned mutable state that the
// original module kept as file-scope globals (currentProc, ReadyQueue,
// procCnt, softBlockCnt, deviceSemaphores, start_tod) into a single value
// threaded through every handler, rather than reaching for package-level
// variables — the "no global mutable state" shape used throughout this
// repository.
type Kernel struct {
	Procs *ProcPool
	Sems  *SemPool
	BIOS  hardware.BIOS

	Ready          Queue
	Current        PID
	ProcCount      int
	SoftBlockCount int
	DeviceSem      [MaxDeviceCount]int32

	// StartTOD is the TOD reading taken the instant Current was last
	// dispatched; every CPU-time charge is (now - StartTOD).
	StartTOD uint64

	// specs is the registry sysCreateProcess resolves its handle argument
	// against — see RegisterSpec.
	specs    map[uint32]*ProcessSpec
	nextSpec uint32

	// userSems backs semAddrFromHandle for semaphore handles outside the
	// device-semaphore range: each distinct handle value is given a
	// stable *int32 cell the first time it's seen.
	userSems map[uint32]*int32

	Log *logrus.Entry
}

// ProcessSpec is what SYS1 needs to bring a new process to life: its
// initial processor state and (optional) support structure. The real
// nucleus receives these as raw pointers into the caller's address space
// (a1/a2); since process bodies here are Go closures with no shared
// address space with the kernel, internal/boot registers a spec and hands
// the resulting opaque handle to ProcessHandle.Syscall as a1 instead.
type ProcessSpec struct {
	State   hardware.ProcessorState
	Support *SupportStruct
}

func NewKernel(bios hardware.BIOS, log *logrus.Entry) *Kernel {
	procs := NewProcPool()
	return &Kernel{
		Procs:   procs,
		Sems:    NewSemPool(procs),
		BIOS:    bios,
		Current: NoPID,
		specs:    make(map[uint32]*ProcessSpec),
		userSems: make(map[uint32]*int32),
		Log:      log,
	}
}

// userSemAddr returns a stable semaphore cell for a user-defined (non
// device) semaphore handle, allocating one the first time handle is seen.
func (k *Kernel) userSemAddr(handle uint32) *int32 {
	if addr, ok := k.userSems[handle]; ok {
		return addr
	}
	v := new(int32)
	k.userSems[handle] = v
	return v
}

// DeviceSemAddr returns the semaphore address for deviceSemaphores[idx],
// suitable for use as a SEMD key.
func (k *Kernel) DeviceSemAddr(idx int) *int32 {
	return &k.DeviceSem[idx]
}

// RegisterSpec stores spec and returns a handle a process body can later
// pass to Syscall(SYS1, handle, 0, 0).
func (k *Kernel) RegisterSpec(spec *ProcessSpec) uint32 {
	k.nextSpec++
	h := k.nextSpec
	k.specs[h] = spec
	return h
}

func (k *Kernel) takeSpec(handle uint32) (*ProcessSpec, bool) {
	s, ok := k.specs[handle]
	if ok {
		delete(k.specs, handle)
	}
	return s, ok
}

// chargeCurrent folds elapsed time since StartTOD into Current's
// accumulated CPU time and resets StartTOD to now.
func (k *Kernel) chargeCurrent() {
	if k.Current == NoPID {
		return
	}
	now := k.BIOS.ReadTOD()
	k.Procs.Get(k.Current).Time += int64(now - k.StartTOD)
	k.StartTOD = now
}

// resumeCurrent re-arms StartTOD and transfers control to Current via
// LDST — the Go-model analogue of switchContext/LDST.
func (k *Kernel) resumeCurrent() {
	k.StartTOD = k.BIOS.ReadTOD()
	k.BIOS.LDST(&k.Procs.Get(k.Current).State)
}
