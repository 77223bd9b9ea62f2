package kernel

import "pandos/internal/hardware"

// handleSyscall is sysTrapH's entry point. Every syscall case below
// returns (or recurses into the scheduler) on its own — unlike the
// original's switch statement, which is missing every `break` and falls
// through every case in sequence, this dispatch treats each syscall
// exclusively.
func (k *Kernel) handleSyscall(saved *hardware.ProcessorState) {
	saved.Advance() // never re-execute the SYSCALL instruction itself
	cur := k.Procs.Get(k.Current)
	cur.State.CopyFrom(saved)

	if cur.State.Status&hardware.StatusKUc != 0 {
		// a SYSCALL issued from user mode is reserved for 9-13 (the
		// support-level façade); the nucleus only answers 1-8, and a user
		// process asking for one of those is treated as a program trap.
		k.reservedInstructionTrap()
		return
	}

	sysNum := cur.State.A0()
	if sysNum < SYS1 || sysNum > SYS8 {
		k.reservedInstructionTrap()
		return
	}

	switch sysNum {
	case SYS1:
		k.sysCreateProcess(cur.State.A1())
	case SYS2:
		pid := k.Current
		k.terminateProcess(pid)
		k.Current = NoPID
		k.Scheduler()
	case SYS3:
		k.sysWait(semAddrFromHandle(k, cur.State.A1()))
	case SYS4:
		k.sysSignal(semAddrFromHandle(k, cur.State.A1()))
	case SYS5:
		k.sysWaitForIO(int(cur.State.A1()), int(cur.State.A2()), cur.State.A3() != 0)
	case SYS6:
		k.sysGetCPUTime()
	case SYS7:
		k.sysWaitForClock()
	case SYS8:
		k.sysGetSupportData()
	}
}

func (k *Kernel) reservedInstructionTrap() {
	cur := k.Procs.Get(k.Current)
	cur.State.Cause = uint32(hardware.ExcReserved) << 2
	k.passUpOrDie(GeneralException, &cur.State)
}

// semAddrFromHandle resolves a user-syscall semaphore argument. User
// syscalls pass device-semaphore handles as a small 1-based index into
// Kernel.DeviceSem; any other value is treated as a private (user-defined)
// semaphore identified by that numeric value alone, keyed through a side
// table so distinct handles never alias the same *int32.
func semAddrFromHandle(k *Kernel, handle uint32) *int32 {
	if handle >= 1 && int(handle) <= MaxDeviceCount {
		return k.DeviceSemAddr(int(handle) - 1)
	}
	return k.userSemAddr(handle)
}

// blockCurr charges Current's CPU time, then blocks it on sem.
func (k *Kernel) blockCurr(sem *int32) {
	k.chargeCurrent()
	k.Sems.InsertBlocked(k.Procs, sem, k.Current)
	k.Current = NoPID
}

// sysCreateProcess handles SYS1: it resolves the registered spec, attempts
// to allocate a PCB, and on success makes the new process a child of
// Current and appends it to the Ready Queue. Unlike the original, which
// returns 0 on success and leaves the caller to learn its child's pid some
// other way, this returns the new pid itself in v0 — internal/boot has no
// shared address space to stash a pointer into, so the pid is the only
// handle it can hand back to the spawning goroutine.
func (k *Kernel) sysCreateProcess(specHandle uint32) {
	cur := k.Procs.Get(k.Current)
	errorV0 := int32(ErrorCode)
	spec, found := k.takeSpec(specHandle)
	if !found {
		cur.State.SetV0(uint32(errorV0))
		k.finishSyscall()
		return
	}
	newPID, ok := k.Procs.Alloc()
	if !ok {
		cur.State.SetV0(uint32(errorV0))
		k.finishSyscall()
		return
	}
	newPCB := k.Procs.Get(newPID)
	newPCB.State.CopyFrom(&spec.State)
	newPCB.Support = spec.Support
	newPCB.Time = InitialAccumulatedTime
	newPCB.SemAdd = nil
	k.Procs.InsertChild(k.Current, newPID)
	k.Procs.InsertQueue(&k.Ready, newPID)
	k.ProcCount++
	cur.State.SetV0(uint32(newPID))
	k.finishSyscall()
}

// terminateProcess implements SYS2 and the "die" half of pass-up-or-die:
// recursively terminate every descendant of proc, detach proc from
// whichever structure it's in (tree/ASL/Ready Queue), then free it.
func (k *Kernel) terminateProcess(proc PID) {
	p := k.Procs.Get(proc)
	for !k.Procs.EmptyChild(proc) {
		k.terminateProcess(k.Procs.RemoveChild(proc))
	}

	switch {
	case proc == k.Current:
		k.Procs.OutChild(proc)
	case p.SemAdd != nil:
		sem := p.SemAdd
		k.Sems.OutBlocked(k.Procs, proc)
		if k.isDeviceSemaphore(sem) {
			k.SoftBlockCount--
		} else {
			*sem++
		}
	default:
		k.Procs.OutQueue(&k.Ready, proc)
	}

	p.Support = nil
	k.Procs.Free(proc)
	k.ProcCount--
}

func (k *Kernel) isDeviceSemaphore(sem *int32) bool {
	for i := range k.DeviceSem {
		if &k.DeviceSem[i] == sem {
			return true
		}
	}
	return false
}

// sysWait handles SYS3 (P / Passeren).
func (k *Kernel) sysWait(sem *int32) {
	*sem--
	if *sem < SemaphoreThreshold {
		k.blockCurr(sem)
		k.Scheduler()
		return
	}
	k.finishSyscall()
}

// sysSignal handles SYS4 (V / Verhogen).
func (k *Kernel) sysSignal(sem *int32) {
	*sem++
	if *sem <= SemaphoreThreshold {
		unblocked := k.Sems.RemoveBlocked(k.Procs, sem)
		if unblocked != NoPID {
			k.Procs.InsertQueue(&k.Ready, unblocked)
		}
	}
	k.finishSyscall()
}

// sysWaitForIO handles SYS5: block Current on the semaphore for the named
// (line, device) pair, splitting read/write terminal semaphores the way
// the device-semaphore array is laid out (read semaphore at index, write
// semaphore DevPerLine higher).
func (k *Kernel) sysWaitForIO(lineNum, deviceNum int, wantsRead bool) {
	index := (lineNum-hardware.LineDisk)*hardware.DevPerLine + deviceNum
	if lineNum == hardware.LineTerminal && !wantsRead {
		index += hardware.DevPerLine
	}
	k.SoftBlockCount++
	sem := k.DeviceSemAddr(index)
	*sem--
	k.blockCurr(sem)
	k.Scheduler()
}

// sysGetCPUTime handles SYS6: report Current's accumulated CPU time,
// including time elapsed since it was last dispatched.
func (k *Kernel) sysGetCPUTime() {
	cur := k.Procs.Get(k.Current)
	now := k.BIOS.ReadTOD()
	elapsed := int64(now - k.StartTOD)
	cur.State.SetV0(uint32(cur.Time + elapsed))
	cur.Time += elapsed
	k.StartTOD = now
	k.finishSyscall()
}

// sysWaitForClock handles SYS7: always block on the pseudo-clock
// semaphore.
func (k *Kernel) sysWaitForClock() {
	k.SoftBlockCount++
	sem := k.DeviceSemAddr(PseudoClockIndex)
	*sem--
	k.blockCurr(sem)
	k.Scheduler()
}

// sysGetSupportData handles SYS8: report Current's support structure as its
// 1-based ASID (0 when it has none), in place of returning a raw pointer
// value, which Go process bodies have no shared address space to
// dereference.
func (k *Kernel) sysGetSupportData() {
	cur := k.Procs.Get(k.Current)
	if cur.Support == nil {
		cur.State.SetV0(0)
	} else {
		cur.State.SetV0(uint32(cur.Support.ASID))
	}
	k.finishSyscall()
}

// finishSyscall charges the CPU time spent handling the syscall to
// Current and resumes it.
func (k *Kernel) finishSyscall() {
	k.chargeCurrent()
	k.resumeCurrent()
}
