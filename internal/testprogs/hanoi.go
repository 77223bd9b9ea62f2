package testprogs

import "pandos/internal/boot"

// Hanoi computes the number of moves to solve a 5-disc Towers of Hanoi game
// (31) and reports the result to its terminal, the Go equivalent of
// towersOfHanoi.c. The original's recursive step reads "2(hanoi(n-1)) + 1",
// a missing multiplication operator that isn't valid C in the first place;
// the intended formula — hanoi(n) = 2*hanoi(n-1) + 1 — is what's computed
// here.
func Hanoi(h *boot.ProcessHandle, asid int) {
	writeTerminal(h, "Recursive Hanoi (5) Test starts\n")
	result := hanoi(5)
	writeTerminal(h, "Recursion concluded\n")

	if result == 31 {
		writeTerminal(h, "Recursion concluded successfully\n")
	} else {
		writeTerminal(h, "ERROR: Recursion problems\n")
	}

	terminate(h)
}

func hanoi(n int) int {
	if n == 1 {
		return 1
	}
	return 2*hanoi(n-1) + 1
}
