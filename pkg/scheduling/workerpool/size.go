package workerpool

import (
	"runtime"

	"github.com/shirou/gopsutil/cpu"
)

// FallbackWorkerCount is used when CPU detection fails or reports nothing.
const FallbackWorkerCount = 2

// logicalCPUs is replaced in tests.
var logicalCPUs = func() (int, error) {
	return cpu.Counts(true)
}

// DefaultWorkerCount derives a worker count from the hardware: the number of
// logical CPUs, capped by GOMAXPROCS, or FallbackWorkerCount when detection
// fails.
func DefaultWorkerCount() int {
	n, err := logicalCPUs()
	return workerCountFrom(n, err, runtime.GOMAXPROCS(0))
}

func workerCountFrom(cpus int, err error, maxProcs int) int {
	if err != nil || cpus <= 0 {
		return FallbackWorkerCount
	}
	if maxProcs > 0 && maxProcs < cpus {
		return maxProcs
	}
	return cpus
}
