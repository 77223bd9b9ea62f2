package testprogs

import "pandos/internal/boot"

// swapStressFirst/swapStressLast are the VPN range swapStress.c exercises
// (pages 20-29 of kuseg). The swap pool is shared by every ASID
// (MaxFrameCount frames in all), so these ten pages force an eviction only
// when other processes already occupy enough of it.
const (
	swapStressFirst = 20
	swapStressLast  = 29
)

// SwapStress writes a distinct value into the first word of pages 20-29,
// through the pager and any evictions a full swap pool causes, then reads
// them all back to confirm each still holds its value. It finally references an address outside kuseg, which
// the support level always treats as a fatal program trap (there is no
// literal address space here for the reference to merely "happen to
// succeed" against, unlike on real hardware) — so, unlike the original,
// this never reaches a line reporting that the illegal access went
// unpunished.
func SwapStress(h *boot.ProcessHandle, asid int) {
	writeTerminal(h, "swapTest starts\n")

	for pg := swapStressFirst; pg <= swapStressLast; pg++ {
		h.AccessPage(uint32(pg), true)
		h.WriteWord(uint32(pg), 0, uint32(pg))
	}
	writeTerminal(h, "swapTest ok: wrote to pages of seg kuseg\n")

	corrupt := false
	for pg := swapStressFirst; pg <= swapStressLast; pg++ {
		h.AccessPage(uint32(pg), false)
		if h.ReadWord(uint32(pg), 0) != uint32(pg) {
			writeTerminal(h, "swapTest error: swapper corrupted data\n")
			corrupt = true
			break
		}
	}
	if !corrupt {
		writeTerminal(h, "swapTest ok: data survived swapper\n")
	}

	h.IllegalAccess()
}
