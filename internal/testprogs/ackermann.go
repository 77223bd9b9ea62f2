package testprogs

import "pandos/internal/boot"

// Ackermann runs Ackermann's function on (2, 3) — which evaluates to 9 — and
// reports the result to its terminal, exactly as ackFunction.c does.
func Ackermann(h *boot.ProcessHandle, asid int) {
	writeTerminal(h, "Recursive Ackermann (2,3) Test starts\n")
	result := ackermann(2, 3)
	writeTerminal(h, "Recursion concluded\n")

	if result == 9 {
		writeTerminal(h, "Recursion concluded successfully\n")
	} else {
		writeTerminal(h, "ERROR: Recursion problems\n")
	}

	terminate(h)
}

// ackermann implements A(0,n) = n+1, A(m+1,0) = A(m,1),
// A(m+1,n+1) = A(m, A(m+1,n)).
func ackermann(m, n int) int {
	switch {
	case m == 0:
		return n + 1
	case n == 0:
		return ackermann(m-1, 1)
	default:
		return ackermann(m-1, ackermann(m, n-1))
	}
}
