package main

import (
	"fmt"

	"pandos/internal/boot"
	"pandos/internal/testprogs"
)

// scenario names accepted by `pandos run` and used as the default set for
// `pandos boot`.
var scenarios = map[string]func(*boot.ProcessHandle, int){
	"ack":   testprogs.Ackermann,
	"hanoi": testprogs.Hanoi,
	"swap":  testprogs.SwapStress,
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	return names
}

func lookupScenario(name string) (func(*boot.ProcessHandle, int), error) {
	fn, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (known: %v)", name, scenarioNames())
	}
	return fn, nil
}

// defaultPrograms is the program set `pandos boot` instantiates with no
// arguments: one of each canonical tester.
func defaultPrograms() []func(*boot.ProcessHandle, int) {
	return []func(*boot.ProcessHandle, int){
		testprogs.Ackermann,
		testprogs.Hanoi,
		testprogs.SwapStress,
	}
}
