package kernel

import (
	"testing"

	"pandos/internal/hardware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlePLTInterruptRequeuesCurrentAndReschedules(t *testing.T) {
	k, bios := newTestKernel()
	pid, _ := k.Procs.Alloc()
	other, _ := k.Procs.Alloc()
	k.Procs.InsertQueue(&k.Ready, other)
	k.Current = pid
	k.ProcCount = 2
	k.StartTOD = 0
	bios.tod = InitialPLT

	saved := hardware.ProcessorState{Cause: hardware.CausePLTInterrupt, PC: 0x400020}
	k.handleInterrupt(&saved)

	assert.Equal(t, other, k.Current, "the preempted process should not be redispatched immediately ahead of an already-ready peer")
	assert.EqualValues(t, InitialPLT, k.Procs.Get(pid).Time)
	// pid should be back on the ready queue behind other
	assert.Equal(t, pid, k.Procs.HeadQueue(&k.Ready))
}

func TestHandlePLTInterruptWithNoCurrentPanics(t *testing.T) {
	k, bios := newTestKernel()
	k.Current = NoPID
	saved := hardware.ProcessorState{Cause: hardware.CausePLTInterrupt}
	k.handleInterrupt(&saved)
	assert.NotEmpty(t, bios.panicReason)
}

func TestHandleIntervalTimerUnblocksEveryClockWaiter(t *testing.T) {
	k, bios := newTestKernel()
	a, _ := k.Procs.Alloc()
	b, _ := k.Procs.Alloc()
	running, _ := k.Procs.Alloc()
	k.ProcCount = 3
	clockSem := k.DeviceSemAddr(PseudoClockIndex)

	k.Current = a
	k.sysWaitForClock() // blocks a
	k.Current = b
	k.sysWaitForClock() // blocks b
	require.Equal(t, NoPID, k.Current)
	require.EqualValues(t, -2, *clockSem)

	// a third process is running when the timer fires, so the handler
	// resumes it instead of dispatching one of the released waiters
	k.Current = running
	saved := hardware.ProcessorState{Cause: hardware.CauseClockInterrupt}
	k.handleInterrupt(&saved)

	assert.EqualValues(t, InitialDeviceSemaphore, *clockSem)
	assert.Equal(t, 0, k.SoftBlockCount)
	assert.Equal(t, uint32(InitialIntervalTimer), bios.bus.IntervalTimer)
	// both unblocked processes should now be on the ready queue
	first := k.Procs.RemoveQueue(&k.Ready)
	second := k.Procs.RemoveQueue(&k.Ready)
	assert.ElementsMatch(t, []PID{a, b}, []PID{first, second})
}

func TestHandleIOInterruptUnblocksWaiterAndSetsStatus(t *testing.T) {
	k, bios := newTestKernel()
	waiter, _ := k.Procs.Alloc()
	k.Current = waiter
	k.sysWaitForIO(hardware.LineDisk, 2, true)
	require.Equal(t, NoPID, k.Current)

	dev := bios.bus.Device(hardware.LineDisk, 2)
	dev.Status = hardware.DevStatusReady

	cause := uint32(1) << (lineCauseShift + uint(hardware.LineDisk))
	bios.bus.InterruptPending[hardware.LineDisk-hardware.LineDisk] |= 1 << 2

	saved := hardware.ProcessorState{Cause: cause}
	k.handleInterrupt(&saved)

	assert.Equal(t, waiter, k.Current, "with no other current process, the unblocked one should be redispatched directly")
	assert.Equal(t, 0, k.SoftBlockCount)
	assert.EqualValues(t, hardware.DevStatusReady, k.Procs.Get(waiter).State.V0())
}

func TestHandleIOInterruptWithNoWaiterJustResumesCurrent(t *testing.T) {
	k, bios := newTestKernel()
	cur, _ := k.Procs.Alloc()
	k.Current = cur

	bios.bus.InterruptPending[hardware.LineFlash-hardware.LineDisk] |= 1 << 5
	cause := uint32(1) << (lineCauseShift + uint(hardware.LineFlash))
	saved := hardware.ProcessorState{Cause: cause}

	k.handleInterrupt(&saved)

	assert.Equal(t, cur, k.Current)
	require.NotEmpty(t, bios.ldstStates)
}

func TestHighestPriorityLinePicksLowestPendingLine(t *testing.T) {
	cause := uint32(1)<<(lineCauseShift+uint(hardware.LineNetwork)) | uint32(1)<<(lineCauseShift+uint(hardware.LineDisk))
	assert.Equal(t, hardware.LineDisk, highestPriorityLine(cause))
}

func TestHighestPriorityDevicePicksLowestSetBit(t *testing.T) {
	assert.Equal(t, 2, highestPriorityDevice(1<<2|1<<5))
	assert.Equal(t, hardware.DevPerLine-1, highestPriorityDevice(0))
}
