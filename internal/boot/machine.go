// Package boot drives the nucleus and support layers as a running machine:
// it owns the single Kernel/Sim pair, serializes every syscall trap and
// interrupt through one event loop (the "CPU"), and gives every user
// process body its own goroutine — parked on a channel whenever it isn't
// the process the scheduler has dispatched.
//
// There is no real instruction decoder here (an explicit, documented
// out-of-scope boundary: see SPEC_FULL.md), so nothing actually steps
// through MIPS instructions or raises a genuine TLB-refill exception from a
// memory reference. Instead a process body calls ProcessHandle.Tick to
// account for simulated CPU consumption (the cooperative stand-in for
// instruction-by-instruction quantum accounting) and ProcessHandle.AccessPage
// to request a given virtual page the way a LW/SW instruction would fault on
// one, grounded in the Open Question resolution recorded in SPEC_FULL.md.
package boot

import (
	"io"

	"pandos/internal/hardware"
	"pandos/internal/kernel"
	"pandos/internal/support"

	"github.com/sirupsen/logrus"
)

type eventKind int

const (
	kindSyscall eventKind = iota
	kindInterrupt
	kindBoot
)

// event is what crosses from a process goroutine (or Tick's cooperative
// preemption check) into the Machine's single serializing loop.
type event struct {
	kind           eventKind
	num, a1, a2, a3 uint32
	state          hardware.ProcessorState // prebuilt trap snapshot for kindInterrupt
}

type pendingIO struct {
	line, dev int
	wantsRead bool
}

// Machine is the Go stand-in for the UMPS3 machine: one Kernel, one Sim,
// one Pager/support.Handler, and the goroutine/channel plumbing that makes
// "the currently dispatched process" a real, resumable unit of execution.
type Machine struct {
	K    *kernel.Kernel
	Sim  *hardware.Sim
	Supp *support.Handler

	events chan event

	mu          chan struct{} // binary semaphore guarding the maps below
	pendingWake map[kernel.PID]chan uint32
	bodies      map[kernel.PID]func(*ProcessHandle)
	started     map[kernel.PID]bool
	terminated  map[kernel.PID]bool

	pendingIO []pendingIO

	// termIn, when set for a given terminal device number, routes that
	// device's SYS13 reads through a real channel instead of the
	// always-succeeds simulated completion onWait otherwise uses — see
	// TermInput, wired by cmd/pandos's interactive console.
	termIn [hardware.DevPerLine]chan byte

	intervalRemaining uint32
	log               *logrus.Entry

	// Stdout receives every character a WRITETERMINAL/WRITEPRINTER syscall
	// transmits, one Write call per character, in completion order. Set by
	// the caller before Boot; defaults to io.Discard.
	Stdout io.Writer

	// Done is closed once the machine halts (no processes remain).
	Done chan struct{}
}

// NewMachine builds a Machine with a fresh Kernel/Sim pair, wiring the
// Sim's control-transfer callbacks back into the Machine exactly as
// hardware.NewSim's doc comment prescribes.
func NewMachine(log *logrus.Entry) *Machine {
	m := &Machine{
		events:            make(chan event),
		mu:                make(chan struct{}, 1),
		pendingWake:       make(map[kernel.PID]chan uint32),
		bodies:            make(map[kernel.PID]func(*ProcessHandle)),
		started:           make(map[kernel.PID]bool),
		terminated:        make(map[kernel.PID]bool),
		intervalRemaining: kernel.InitialIntervalTimer,
		log:               log,
		Stdout:            io.Discard,
		Done:              make(chan struct{}),
	}
	m.mu <- struct{}{}
	sim := hardware.NewSim(2*kernel.MaxProc, m.onLDST, m.onLDCXT, m.onHalt, m.onPanic, m.onWait)
	m.Sim = sim
	m.K = kernel.NewKernel(sim, log)
	pool := support.NewSwapPool()
	flash := support.NewFlash()
	m.Supp = support.NewHandler(m.K, pool, flash)
	return m
}

func (m *Machine) lock()   { <-m.mu }
func (m *Machine) unlock() { m.mu <- struct{}{} }

// TermInput wires devNum's terminal reads to real external bytes: every
// SYS13 read against that device blocks in onWait until one arrives on the
// returned channel, instead of completing instantly the way every other
// simulated device operation does. Call it before Boot; feeding it is the
// caller's job (cmd/pandos's console command feeds raw-mode stdin).
func (m *Machine) TermInput(devNum int) chan<- byte {
	ch := make(chan byte)
	m.termIn[devNum] = ch
	return ch
}

// Spawn registers spec and body together: spec becomes a SYS1 handle the
// current process (pid) consumes immediately, and body is recorded against
// whatever PID the nucleus hands back so the Machine can launch it the
// first time the scheduler ever dispatches that process. It returns the
// new PID, or (NoPID, false) if process creation failed (the pool was
// full).
func (m *Machine) spawn(pid kernel.PID, state hardware.ProcessorState, supp *kernel.SupportStruct, body func(*ProcessHandle)) (kernel.PID, bool) {
	handle := m.K.RegisterSpec(&kernel.ProcessSpec{State: state, Support: supp})
	v0 := m.syscall(pid, kernel.SYS1, handle, 0, 0)
	errCode := int32(kernel.ErrorCode)
	if v0 == uint32(errCode) {
		return kernel.NoPID, false
	}
	newPID := kernel.PID(v0)
	m.lock()
	m.bodies[newPID] = body
	m.unlock()
	return newPID, true
}

// syscall is the request/reply half of every nucleus syscall 1-8: it parks
// pid's caller on a fresh wake channel, registered before the event is sent
// so the Machine's delivery side (onLDST) can never race ahead of it, then
// hands the trap to the single event loop.
func (m *Machine) syscall(pid kernel.PID, num, a1, a2, a3 uint32) uint32 {
	if num == kernel.SYS2 {
		// self-termination: no reply is ever coming, since this PID's PCB
		// is freed before the nucleus would otherwise resume it. Mark it
		// before sending so runBody's own implicit terminate (once body
		// returns) never fires a second SYS2 against an already-freed PCB.
		m.lock()
		m.terminated[pid] = true
		m.unlock()
		m.events <- event{kind: kindSyscall, num: num, a1: a1, a2: a2, a3: a3}
		return 0
	}
	ch := make(chan uint32, 1)
	m.lock()
	m.pendingWake[pid] = ch
	m.unlock()
	m.events <- event{kind: kindSyscall, num: num, a1: a1, a2: a2, a3: a3}
	return <-ch
}

// tick is ProcessHandle.Tick's implementation: it advances simulated time
// directly (safe without locking, since only the one currently-dispatched
// process ever calls it) and, if that pushed the PLT or interval timer to
// expire, posts the corresponding interrupt and blocks until this process
// is dispatched again.
func (m *Machine) tick(pid kernel.PID, units uint32) {
	m.Sim.Advance(units)

	var cause uint32
	if m.Sim.ReadPLT() == 0 {
		cause |= hardware.CausePLTInterrupt
	}
	if units >= m.intervalRemaining {
		m.intervalRemaining = kernel.InitialIntervalTimer
		cause |= hardware.CauseClockInterrupt
	} else {
		m.intervalRemaining -= units
	}
	if cause == 0 {
		return
	}

	ch := make(chan uint32, 1)
	m.lock()
	m.pendingWake[pid] = ch
	m.unlock()
	m.events <- event{kind: kindInterrupt, state: hardware.ProcessorState{Cause: cause}}
	<-ch
}

// Run is the Machine's single serializing loop: the only goroutine ever
// allowed to touch Kernel state directly. It exits once the machine halts
// or panics.
func (m *Machine) Run() {
	for ev := range m.events {
		switch ev.kind {
		case kindSyscall:
			if ev.num == kernel.SYS5 {
				m.pendingIO = append(m.pendingIO, pendingIO{line: int(ev.a1), dev: int(ev.a2), wantsRead: ev.a3 != 0})
			}
			state := hardware.ProcessorState{Cause: uint32(hardware.ExcSyscall) << 2}
			state.Reg[hardware.RegA0] = ev.num
			state.Reg[hardware.RegA1] = ev.a1
			state.Reg[hardware.RegA2] = ev.a2
			state.Reg[hardware.RegA3] = ev.a3
			m.K.HandleException(&state)
		case kindInterrupt:
			st := ev.state
			m.K.HandleException(&st)
		case kindBoot:
			m.K.Scheduler()
		}
	}
}

// Boot brings up PID 0 directly (it has no parent to SYS1 it into being)
// and starts the Machine's event loop. body runs on its own goroutine the
// first time the scheduler dispatches it.
func (m *Machine) Boot(body func(*ProcessHandle)) {
	pid, ok := m.K.Procs.Alloc()
	if !ok {
		m.log.Fatal("process pool exhausted before boot")
	}
	m.bodies[pid] = body
	m.K.ProcCount++
	m.K.Procs.InsertQueue(&m.K.Ready, pid)

	go m.Run()
	m.events <- event{kind: kindBoot}
}

func (m *Machine) runBody(pid kernel.PID) {
	m.lock()
	body := m.bodies[pid]
	delete(m.bodies, pid)
	m.unlock()

	h := &ProcessHandle{pid: pid, m: m}
	body(h)

	m.lock()
	already := m.terminated[pid]
	m.unlock()
	if !already {
		h.Syscall(kernel.SYS2, 0, 0, 0)
	}
}

func (m *Machine) onLDST(state *hardware.ProcessorState) {
	pid := m.K.Current
	m.lock()
	alreadyStarted := m.started[pid]
	m.started[pid] = true
	m.unlock()

	if !alreadyStarted {
		go m.runBody(pid)
		return
	}
	m.deliver(pid, state.V0())
}

// onLDCXT is the pass-up-or-die resume path. There is no literal
// instruction stream to resume at ctx.PC with, so it simply hands control
// back to whichever process trapped. Nothing in this package reaches it:
// ProcessHandle.Syscall sends only 1-8 to the nucleus and answers every
// other number through the support level directly.
func (m *Machine) onLDCXT(ctx hardware.Context) {
	m.deliver(m.K.Current, 0)
}

func (m *Machine) deliver(pid kernel.PID, v0 uint32) {
	m.lock()
	ch, ok := m.pendingWake[pid]
	if ok {
		delete(m.pendingWake, pid)
	}
	m.unlock()
	if ok {
		ch <- v0
	}
}

func (m *Machine) onHalt() {
	m.log.Info("machine halted")
	close(m.events)
	close(m.Done)
}

func (m *Machine) onPanic(reason string) {
	m.log.Fatalf("machine panic: %s", reason)
}

// onWait simulates the CPU idling for the next device interrupt: it
// completes the oldest outstanding device request (every simulated
// operation here succeeds — fault injection is out of scope) and feeds the
// resulting interrupt straight back into HandleException, a plain
// recursive call on the same goroutine rather than a trip through the
// event channel, since Run's own call stack is what got us here.
func (m *Machine) onWait() {
	if len(m.pendingIO) == 0 {
		m.log.Warn("WAIT with no outstanding device operation; nothing to complete")
		return
	}
	io := m.pendingIO[0]
	m.pendingIO = m.pendingIO[1:]

	bus := m.Sim.Bus()
	dev := bus.Device(io.line, io.dev)
	lineIdx := io.line - hardware.LineDisk

	switch {
	case io.line == hardware.LineTerminal && io.wantsRead && m.termIn[io.dev] != nil:
		// A real external byte source is wired for this device (the
		// interactive console): block until one arrives rather than
		// completing instantly, the same way a real CPU idles until its
		// next genuine interrupt.
		dev.Data0 = uint32(<-m.termIn[io.dev])
	case io.line == hardware.LineTerminal && !io.wantsRead:
		m.Stdout.Write([]byte{byte(dev.Data0)})
	case io.line == hardware.LinePrinter:
		m.Stdout.Write([]byte{byte(dev.Data1)})
	}

	// Every simulated device operation here succeeds — fault injection is
	// out of scope — so both sub-devices just report DevStatusReady;
	// handleIOInterrupt picks the right one by which semaphore has a
	// waiter, not by these values.
	dev.Status = hardware.DevStatusReady
	dev.Data1 = hardware.DevStatusReady
	bus.InterruptPending[lineIdx] |= 1 << uint(io.dev)

	// Cause's device-line bits (11-15) report which lines have a pending
	// interrupt at all; handleIOInterrupt then reads bus.InterruptPending
	// to find which device on that line. Real hardware sets both; here
	// both are this function's job, since there is no real bus latching
	// anything on its own.
	cause := uint32(1) << (hardware.StatusIntMaskShift + uint(io.line))
	st := hardware.ProcessorState{Cause: cause}
	m.K.HandleException(&st)

	bus.InterruptPending[lineIdx] &^= 1 << uint(io.dev)
}
