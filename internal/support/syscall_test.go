package support

import (
	"testing"

	"pandos/internal/hardware"
	"pandos/internal/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleUserSyscallGetTOD(t *testing.T) {
	h, bios := newTestHandler()
	bios.tod = 99
	proc := newFakeSyscaller()
	supp := &kernel.SupportStruct{ASID: 1}
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA0] = SYS10

	result := h.HandleUserSyscall(proc, supp)

	assert.EqualValues(t, 99, result)
	assert.EqualValues(t, 99, supp.ExceptState[kernel.GeneralException].V0())
}

func TestHandleUserSyscallTerminate(t *testing.T) {
	h, _ := newTestHandler()
	proc := newFakeSyscaller()
	supp := &kernel.SupportStruct{ASID: 2}
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA0] = SYS9

	h.HandleUserSyscall(proc, supp)

	assert.Equal(t, []uint32{kernel.SYS4, kernel.SYS2}, proc.nums())
}

func TestHandleUserSyscallUnknownNumberIsProgramTrap(t *testing.T) {
	h, _ := newTestHandler()
	proc := newFakeSyscaller()
	supp := &kernel.SupportStruct{ASID: 2}
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA0] = 42

	h.HandleUserSyscall(proc, supp)

	assert.Equal(t, []uint32{kernel.SYS4, kernel.SYS2}, proc.nums())
}

func TestWriteDeviceTransmitsEveryByteWhenDeviceStaysReady(t *testing.T) {
	h, _ := newTestHandler()
	proc := newFakeSyscaller()
	proc.on[kernel.SYS5] = func(a1, a2, a3 uint32) uint32 { return hardware.DevStatusReady }

	buf := []byte("hi")
	handle := h.RegisterBuffer(buf)
	supp := &kernel.SupportStruct{ASID: 1}
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA0] = SYS12
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA1] = handle
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA2] = uint32(len(buf))

	result := h.HandleUserSyscall(proc, supp)

	assert.EqualValues(t, len(buf), result)
	// mutex P then V bracket every SYS5
	require.Len(t, proc.calls, 1+len(buf)+1)
	assert.Equal(t, uint32(kernel.SYS3), proc.calls[0].num)
	assert.Equal(t, uint32(kernel.SYS4), proc.calls[len(proc.calls)-1].num)
}

func TestWriteDeviceStopsOnFirstDeviceError(t *testing.T) {
	h, _ := newTestHandler()
	proc := newFakeSyscaller()
	calls := 0
	proc.on[kernel.SYS5] = func(a1, a2, a3 uint32) uint32 {
		calls++
		if calls == 1 {
			return hardware.DevStatusReady
		}
		return 3 // some non-ready status
	}

	buf := []byte("abc")
	handle := h.RegisterBuffer(buf)
	supp := &kernel.SupportStruct{ASID: 1}
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA0] = SYS11
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA1] = handle
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA2] = uint32(len(buf))

	result := h.HandleUserSyscall(proc, supp)

	assert.EqualValues(t, int32(-3), result)
}

func TestWriteDeviceAcceptsZeroLength(t *testing.T) {
	h, _ := newTestHandler()
	proc := newFakeSyscaller()
	handle := h.RegisterBuffer(nil)

	supp := &kernel.SupportStruct{ASID: 1}
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA0] = SYS12
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA1] = handle
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA2] = 0

	result := h.HandleUserSyscall(proc, supp)

	assert.EqualValues(t, 0, result, "0 <= len <= 128 is the valid range; zero is not a violation")
	assert.Equal(t, []uint32{kernel.SYS3, kernel.SYS4}, proc.nums(), "a zero-length write still takes and releases its mutex, but terminates nobody")
}

func TestWriteDeviceTerminatesCallerOnOversizedLength(t *testing.T) {
	h, _ := newTestHandler()
	proc := newFakeSyscaller()
	handle := h.RegisterBuffer(make([]byte, MaxStrLen+1))

	supp := &kernel.SupportStruct{ASID: 1}
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA0] = SYS12
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA1] = handle
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA2] = MaxStrLen + 1

	h.HandleUserSyscall(proc, supp)

	assert.Equal(t, []uint32{kernel.SYS4, kernel.SYS2}, proc.nums(),
		"an oversized length must self-terminate the caller, not return an error code")
}

func TestWriteDeviceTerminatesCallerOnUnknownBufferHandle(t *testing.T) {
	h, _ := newTestHandler()
	proc := newFakeSyscaller()

	supp := &kernel.SupportStruct{ASID: 1}
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA0] = SYS12
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA1] = 0xFFFF // never registered
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA2] = 1

	h.HandleUserSyscall(proc, supp)

	assert.Equal(t, []uint32{kernel.SYS4, kernel.SYS2}, proc.nums(),
		"an unknown buffer handle must self-terminate the caller, not return an error code")
}

func TestReadTerminalTerminatesCallerOnUnknownBufferHandle(t *testing.T) {
	h, _ := newTestHandler()
	proc := newFakeSyscaller()

	supp := &kernel.SupportStruct{ASID: 1}
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA0] = SYS13
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA1] = 0xFFFF // never registered

	h.HandleUserSyscall(proc, supp)

	assert.Equal(t, []uint32{kernel.SYS4, kernel.SYS2}, proc.nums(),
		"an unknown buffer handle must self-terminate the caller, not return an error code")
}

func TestReadTerminalStopsAtNewline(t *testing.T) {
	h, bios := newTestHandler()
	proc := newFakeSyscaller()

	input := []byte("hi\n")
	pos := 0
	proc.on[kernel.SYS5] = func(a1, a2, a3 uint32) uint32 {
		dev := bios.bus.Device(hardware.LineTerminal, int(a2))
		dev.Data0 = uint32(input[pos])
		pos++
		return hardware.DevStatusReady
	}

	buf := make([]byte, MaxStrLen)
	handle := h.RegisterBuffer(buf)
	supp := &kernel.SupportStruct{ASID: 1}
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA0] = SYS13
	supp.ExceptState[kernel.GeneralException].Reg[hardware.RegA1] = handle

	result := h.HandleUserSyscall(proc, supp)

	assert.EqualValues(t, 3, result)
	assert.Equal(t, "hi\n", string(buf[:3]))
}

func TestDeviceMutexHandleIsStablePerLineAndASID(t *testing.T) {
	a := deviceMutexHandle(hardware.LineTerminal, 2)
	b := deviceMutexHandle(hardware.LineTerminal, 2)
	c := deviceMutexHandle(hardware.LinePrinter, 2)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
