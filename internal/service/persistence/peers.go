package persistence

import (
	"os"

	"github.com/mitchellh/go-ps"
)

// ProcessLister enumerates running processes.
type ProcessLister func() ([]ps.Process, error)

// findPeers returns the PIDs of other processes running the same executable as this one.
// The executable name is taken from this process's own entry so that platform
// specific truncation of process names applies to both sides of the comparison.
func findPeers(list ProcessLister) ([]int, error) {
	processes, err := list()
	if err != nil {
		return nil, err
	}

	self := os.Getpid()

	var executable string

	for _, process := range processes {
		if process.Pid() == self {
			executable = process.Executable()
			break
		}
	}

	if executable == "" {
		return nil, nil
	}

	var peers []int

	for _, process := range processes {
		if process.Pid() != self && process.Executable() == executable {
			peers = append(peers, process.Pid())
		}
	}

	return peers, nil
}
