package contentobj

// Detection methods.
const (
	MethodPrimaryFile   = "primary-file"
	MethodPrimaryBytes  = "primary-bytes"
	MethodFallbackFile  = "fallback-file"
	MethodFallbackBytes = "fallback-bytes"
)

// Detection is the classification of a file or byte buffer.
// Exactly one of IsText and IsBinary is true.
type Detection struct {
	MediaType string `json:"media_type"`

	// Encoding is empty for binary content.
	Encoding string `json:"encoding"`
	IsText   bool   `json:"is_text"`
	IsBinary bool   `json:"is_binary"`

	// Method names the detection path that produced the result.
	Method string `json:"method"`
}

// Detector classifies files and byte buffers by media type and encoding.
type Detector interface {
	// DetectFile classifies the file at path. It fails only with ENOTFOUND.
	DetectFile(path string) (*Detection, error)

	// DetectBytes classifies data. nameHint, when not empty, is a file
	// name whose extension may inform the result.
	DetectBytes(data []byte, nameHint string) *Detection
}

// DetectionBackend is a richer detection facility a Detector prefers when
// it initializes.
type DetectionBackend interface {
	// Init prepares the backend. A Detector calls it at most once.
	Init() error

	// MediaType returns the media type of data, without parameters.
	MediaType(data []byte) (string, error)

	// Encoding returns the character encoding of textual data.
	Encoding(data []byte) (string, error)
}
