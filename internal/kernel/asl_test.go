package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSemPool() (*ProcPool, *SemPool) {
	procs := NewProcPool()
	return procs, NewSemPool(procs)
}

func TestInsertBlockedCreatesSEMDOnFirstUse(t *testing.T) {
	procs, sems := newTestSemPool()
	a, _ := procs.Alloc()
	sem := new(int32)

	failed := sems.InsertBlocked(procs, sem, a)
	assert.False(t, failed)
	assert.Equal(t, a, sems.HeadBlocked(procs, sem))
	assert.Same(t, sem, procs.Get(a).SemAdd)
}

func TestInsertBlockedQueuesFIFOOnExistingSEMD(t *testing.T) {
	procs, sems := newTestSemPool()
	a, _ := procs.Alloc()
	b, _ := procs.Alloc()
	sem := new(int32)

	sems.InsertBlocked(procs, sem, a)
	sems.InsertBlocked(procs, sem, b)

	assert.Equal(t, a, sems.HeadBlocked(procs, sem))
	assert.Equal(t, a, sems.RemoveBlocked(procs, sem))
	assert.Equal(t, b, sems.HeadBlocked(procs, sem))
}

func TestRemoveBlockedRetiresSEMDWhenEmpty(t *testing.T) {
	procs, sems := newTestSemPool()
	a, _ := procs.Alloc()
	sem := new(int32)
	sems.InsertBlocked(procs, sem, a)

	got := sems.RemoveBlocked(procs, sem)
	assert.Equal(t, a, got)
	assert.Equal(t, NoPID, sems.HeadBlocked(procs, sem), "SEMD should no longer be on the ASL")
	assert.Nil(t, procs.Get(a).SemAdd)
}

func TestRemoveBlockedOnUnknownSemaphoreReturnsNoPID(t *testing.T) {
	_, sems := newTestSemPool()
	procs := NewProcPool()
	assert.Equal(t, NoPID, sems.RemoveBlocked(procs, new(int32)))
}

func TestOutBlockedRemovesRegardlessOfPosition(t *testing.T) {
	procs, sems := newTestSemPool()
	a, _ := procs.Alloc()
	b, _ := procs.Alloc()
	c, _ := procs.Alloc()
	sem := new(int32)
	sems.InsertBlocked(procs, sem, a)
	sems.InsertBlocked(procs, sem, b)
	sems.InsertBlocked(procs, sem, c)

	out := sems.OutBlocked(procs, b)
	assert.Equal(t, b, out)
	assert.Nil(t, procs.Get(b).SemAdd)

	first := sems.RemoveBlocked(procs, sem)
	second := sems.RemoveBlocked(procs, sem)
	assert.ElementsMatch(t, []PID{a, c}, []PID{first, second})
}

func TestOutBlockedOnUnblockedProcessReturnsNoPID(t *testing.T) {
	procs, sems := newTestSemPool()
	a, _ := procs.Alloc()
	assert.Equal(t, NoPID, sems.OutBlocked(procs, a))
}

func TestInsertBlockedFailsWhenPoolExhausted(t *testing.T) {
	procs, sems := newTestSemPool()
	// one SEMD per distinct semaphore address; exhaust MaxProc of them.
	var last PID
	for i := 0; i < MaxProc; i++ {
		pid, ok := procs.Alloc()
		require.True(t, ok)
		sem := new(int32)
		failed := sems.InsertBlocked(procs, sem, pid)
		require.False(t, failed)
		last = pid
	}

	// the PCB pool is MaxProc deep too, so no 21st PCB exists: offer an
	// already-allocated PID on a fresh address instead.
	require.NotNil(t, procs.Get(last).SemAdd)
	failed := sems.InsertBlocked(procs, new(int32), last)
	assert.True(t, failed, "ASL should be exhausted at MaxProc distinct semaphores")
}

func TestSemPoolActiveSnapshotsBlockedQueues(t *testing.T) {
	procs, sems := newTestSemPool()
	a, _ := procs.Alloc()
	b, _ := procs.Alloc()
	sem1 := new(int32)
	sem2 := new(int32)
	sems.InsertBlocked(procs, sem1, a)
	sems.InsertBlocked(procs, sem2, b)

	snaps := sems.Active(procs)
	require.Len(t, snaps, 2)

	byAddr := make(map[*int32][]PID, len(snaps))
	for _, s := range snaps {
		byAddr[s.Addr] = s.Waiting
	}
	assert.Equal(t, []PID{a}, byAddr[sem1])
	assert.Equal(t, []PID{b}, byAddr[sem2])
}
