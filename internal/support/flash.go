package support

import "pandos/internal/kernel"

// Flash is a simulated per-ASID backing store standing in for the flash
// device the original pager reads/writes pages through. Every user
// process's virtual address space is backed by its own fixed-size array of
// pages, addressed by page number rather than by (cylinder, sector);
// Handler.HandlePageFault treats a Read/Write pair here the way vmSupport.c
// treats a flashDeviceOperation, just without a real DMA transfer to
// simulate.
//
// Access is not internally synchronized: Handler already serializes every
// page-fault critical section behind the single swap-pool mutex (SYS3/SYS4
// on SwapSemHandle), so at most one goroutine ever touches a Flash at a
// time, matching the original's single shared swap-pool lock.
type Flash struct {
	disks map[int][]page
}

type page [PageSize]byte

func NewFlash() *Flash {
	return &Flash{disks: make(map[int][]page)}
}

func (f *Flash) diskFor(asid int) []page {
	d, ok := f.disks[asid]
	if !ok {
		d = make([]page, kernel.EntriesPerPage)
		f.disks[asid] = d
	}
	return d
}

// Read copies pgNo's backing page for asid into dst.
func (f *Flash) Read(asid, pgNo int, dst *[PageSize]byte) {
	*dst = f.diskFor(asid)[pgNo]
}

// Write copies src into pgNo's backing page for asid.
func (f *Flash) Write(asid, pgNo int, src *[PageSize]byte) {
	f.diskFor(asid)[pgNo] = *src
}
