package mock

import "github.com/fwojciec/contentobj"

var _ contentobj.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of contentobj.Cleaner.
type Cleaner struct {
	CleanFn func(html string) (*contentobj.CleanResult, error)
}

func (c *Cleaner) Clean(html string) (*contentobj.CleanResult, error) {
	return c.CleanFn(html)
}
