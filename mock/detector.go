package mock

import "github.com/fwojciec/contentobj"

var _ contentobj.Detector = (*Detector)(nil)

// Detector is a mock implementation of contentobj.Detector.
type Detector struct {
	DetectFileFn  func(path string) (*contentobj.Detection, error)
	DetectBytesFn func(data []byte, nameHint string) *contentobj.Detection
}

func (d *Detector) DetectFile(path string) (*contentobj.Detection, error) {
	return d.DetectFileFn(path)
}

func (d *Detector) DetectBytes(data []byte, nameHint string) *contentobj.Detection {
	return d.DetectBytesFn(data, nameHint)
}

var _ contentobj.DetectionBackend = (*DetectionBackend)(nil)

// DetectionBackend is a mock implementation of contentobj.DetectionBackend.
type DetectionBackend struct {
	InitFn      func() error
	MediaTypeFn func(data []byte) (string, error)
	EncodingFn  func(data []byte) (string, error)
}

func (b *DetectionBackend) Init() error {
	return b.InitFn()
}

func (b *DetectionBackend) MediaType(data []byte) (string, error) {
	return b.MediaTypeFn(data)
}

func (b *DetectionBackend) Encoding(data []byte) (string, error) {
	return b.EncodingFn(data)
}
