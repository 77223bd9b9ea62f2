package support

import (
	"pandos/internal/hardware"
	"pandos/internal/kernel"
)

// User syscall numbers 9-13, layered on top of the nucleus's SYS1-8 by this
// package.
const (
	SYS9  = 9  // TERMINATE
	SYS10 = 10 // GETTOD
	SYS11 = 11 // WRITEPRINTER
	SYS12 = 12 // WRITETERMINAL
	SYS13 = 13 // READTERMINAL
)

// HandleUserSyscall is sysSupport.c's generalExceptionHandler SYSCALL branch:
// it demultiplexes on a0 (any number outside 1-8 arrives here; one outside
// 9-13 is a program trap) and answers each one, writing the result
// into v0 of the process's general-exception saved state exactly as the
// original writes into sup_exceptState[GENERALEXCEPT].s_v0.
func (h *Handler) HandleUserSyscall(proc Syscaller, supp *kernel.SupportStruct) uint32 {
	saved := &supp.ExceptState[kernel.GeneralException]

	var result uint32
	switch saved.A0() {
	case SYS9:
		return h.terminateUProc(proc)
	case SYS10:
		result = uint32(h.Kernel.BIOS.ReadTOD())
	case SYS11:
		result = h.writeDevice(proc, hardware.LinePrinter, supp.ASID, saved.A1(), saved.A2())
	case SYS12:
		result = h.writeDevice(proc, hardware.LineTerminal, supp.ASID, saved.A1(), saved.A2())
	case SYS13:
		result = h.readTerminal(proc, supp.ASID, saved.A1())
	default:
		return h.programTrap(proc, supp)
	}

	saved.SetV0(result)
	saved.Advance()
	return result
}

// terminateUProc handles SYS9: signal the master semaphore every
// instantiator process waits on, then terminate via the real SYS2.
func (h *Handler) terminateUProc(proc Syscaller) uint32 {
	proc.Syscall(kernel.SYS4, MasterSemHandle, 0, 0)
	return proc.Syscall(kernel.SYS2, 0, 0, 0)
}

// writeDevice handles SYS11/SYS12: it transmits the bufHandle-registered
// buffer's first length bytes to the named line's per-ASID device one
// character at a time, mutexed by a per-process, per-device semaphore the
// way the original guards writeToPrinter/writeToTerminal with a private
// semaphore array. It returns the count of characters written, the negated
// device status code on the first transmission error, or (like the
// original) self-terminates the caller via SYS9 on a bad length or an
// unknown buffer handle.
func (h *Handler) writeDevice(proc Syscaller, line, asid int, bufHandle, length uint32) uint32 {
	if length > MaxStrLen {
		return h.terminateUProc(proc)
	}
	buf, ok := h.buffer(bufHandle)
	if !ok {
		return h.terminateUProc(proc)
	}

	mutex := deviceMutexHandle(line, asid)
	proc.Syscall(kernel.SYS3, mutex, 0, 0)
	defer proc.Syscall(kernel.SYS4, mutex, 0, 0)

	devNum := asid - 1
	bus := h.Kernel.BIOS.Bus()
	dev := bus.Device(line, devNum)

	var written uint32
	for i := uint32(0); i < length; i++ {
		if line == hardware.LineTerminal {
			dev.Data0 = uint32(buf[i])
			dev.Command = WriteCharCmd
		} else {
			dev.Data1 = uint32(buf[i])
			dev.Command = WriteCharCmd
		}
		status := proc.Syscall(kernel.SYS5, uint32(line), uint32(devNum), 0)
		if status&DevStatusMask != hardware.DevStatusReady {
			return uint32(-int32(status)) // negate: report the device's error status
		}
		written++
	}
	return written
}

// readTerminal handles SYS13: it receives up to len(buffer) characters from
// the ASID's terminal (stopping at a newline, the terminal driver's line
// convention) into the bufHandle-registered buffer and returns the count
// received, self-terminating the caller via SYS9 on an unknown buffer
// handle.
func (h *Handler) readTerminal(proc Syscaller, asid int, bufHandle uint32) uint32 {
	buf, ok := h.buffer(bufHandle)
	if !ok {
		return h.terminateUProc(proc)
	}

	mutex := deviceMutexHandle(hardware.LineTerminal, asid)
	proc.Syscall(kernel.SYS3, mutex, 0, 0)
	defer proc.Syscall(kernel.SYS4, mutex, 0, 0)

	devNum := asid - 1
	bus := h.Kernel.BIOS.Bus()
	dev := bus.Device(hardware.LineTerminal, devNum)

	var count uint32
	for count < uint32(len(buf)) {
		dev.Command = WriteCharCmd
		status := proc.Syscall(kernel.SYS5, uint32(hardware.LineTerminal), uint32(devNum), 1)
		if status&DevStatusMask != hardware.DevStatusReady {
			return uint32(-int32(status))
		}
		ch := byte(dev.Data0 & 0xFF)
		buf[count] = ch
		count++
		if ch == '\n' {
			break
		}
	}
	return count
}

// deviceMutexHandle synthesizes a stable per-(line, asid) semaphore handle
// outside the device-semaphore range, mirroring the original's private
// printer/terminal semaphore arrays indexed by ASID.
func deviceMutexHandle(line, asid int) uint32 {
	return PrinterSemBase + uint32(line)<<8 + uint32(asid)
}
