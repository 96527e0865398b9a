package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/contentobj"
)

// Run executes the detect command.
func (c *DetectCmd) Run(deps *Dependencies) error {
	det, err := deps.Detector.DetectFile(c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", contentobj.ErrorMessage(err))
		return err
	}
	out, err := json.Marshal(det)
	if err != nil {
		return fmt.Errorf("failed to encode detection: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(out))
	return nil
}
