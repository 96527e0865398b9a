package main

import (
	"fmt"
)

// Run executes the backends command.
func (c *BackendsCmd) Run(deps *Dependencies) error {
	deps.Backend.Probe()
	fmt.Fprintf(deps.Stdout, "detector  mimetype  %s\n", deps.Backend.State())

	for _, s := range deps.PDF.Providers() {
		if s.Available {
			fmt.Fprintf(deps.Stdout, "pdf       %-10s available\n", s.Name)
			continue
		}
		fmt.Fprintf(deps.Stdout, "pdf       %-10s unavailable (%s)\n", s.Name, s.Err)
	}
	fmt.Fprintf(deps.Stdout, "pdf mode  %s\n", deps.PDF.Mode())
	return nil
}
