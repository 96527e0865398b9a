package contentobj

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"
)

// SourceKind says where a media payload lives.
type SourceKind string

// Media source kinds.
const (
	SourceURL    SourceKind = "url"
	SourceFile   SourceKind = "file"
	SourceInline SourceKind = "inline"
)

// MediaSource locates a media payload. Exactly one of URL, Path and Data is
// meaningful, selected by Kind.
type MediaSource struct {
	Kind SourceKind
	URL  *URL
	Path string
	Data []byte
}

// SourceFromURL returns a MediaSource pointing at u.
func SourceFromURL(u *URL) MediaSource { return MediaSource{Kind: SourceURL, URL: u} }

// SourceFromFile returns a MediaSource pointing at a local path.
func SourceFromFile(path string) MediaSource { return MediaSource{Kind: SourceFile, Path: path} }

// SourceFromBytes returns a MediaSource holding data in memory.
func SourceFromBytes(data []byte) MediaSource { return MediaSource{Kind: SourceInline, Data: data} }

// String returns the URL or path of the source, or "inline".
func (s MediaSource) String() string {
	switch s.Kind {
	case SourceURL:
		if s.URL != nil {
			return s.URL.URL
		}
	case SourceFile:
		return s.Path
	case SourceInline:
		return "inline"
	}
	return ""
}

// Dimensions are pixel dimensions.
type Dimensions struct {
	Width  int
	Height int
}

// Media holds the fields shared by Image, Video and Audio.
// The payload is fetched lazily by Data and cached afterwards.
type Media struct {
	Title      string
	Dimensions *Dimensions
	Format     string
	SizeBytes  *int64
	Source     MediaSource

	data   []byte
	loaded bool
}

// Data returns the media payload, fetching it through f on first use.
// SizeBytes is filled from the payload when it was unknown.
func (m *Media) Data(ctx context.Context, f DriverFactory) ([]byte, error) {
	if m.loaded {
		return m.data, nil
	}

	var data []byte
	var err error
	switch m.Source.Kind {
	case SourceInline:
		data = m.Source.Data
	case SourceURL:
		if m.Source.URL == nil || m.Source.URL.URL == "" {
			return nil, Errorf(EINVALID, "media source has no url")
		}
		data, err = f.URLDriver(m.Source.URL.URL).Content(ctx)
	case SourceFile:
		data, err = f.FileDriver(m.Source.Path).Content(ctx)
	default:
		return nil, Errorf(EINVALID, "media has no source")
	}
	if err != nil {
		return nil, err
	}

	m.data = data
	m.loaded = true
	if m.SizeBytes == nil {
		n := int64(len(data))
		m.SizeBytes = &n
	}
	return data, nil
}

// Loaded reports whether the payload has been fetched.
func (m *Media) Loaded() bool { return m.loaded }

func (m *Media) filename() string {
	switch m.Source.Kind {
	case SourceURL:
		if m.Source.URL != nil {
			return m.Source.URL.Filename()
		}
	case SourceFile:
		if m.Source.Path != "" {
			return filepath.Base(m.Source.Path)
		}
	}
	return ""
}

func (m *Media) raw() map[string]any {
	d := map[string]any{
		"title":       nullable(m.Title),
		"format":      nullable(m.Format),
		"source":      m.Source.String(),
		"source_type": string(m.Source.Kind),
		"size_bytes":  nil,
		"dimensions":  nil,
	}
	if m.SizeBytes != nil {
		d["size_bytes"] = *m.SizeBytes
	}
	if m.Dimensions != nil {
		d["dimensions"] = map[string]any{"width": m.Dimensions.Width, "height": m.Dimensions.Height}
	}
	return d
}

func ownSource(owner Node, src MediaSource) {
	if src.Kind == SourceURL && src.URL != nil {
		src.URL.parent = owner
	}
}

// Image is an embedded image.
type Image struct {
	BaseNode
	Media
	AltText string

	inspected bool
}

// NewImage returns an Image for src.
func NewImage(src MediaSource, alt string) *Image {
	img := &Image{AltText: alt}
	img.Source = src
	ownSource(img, src)
	return img
}

func (i *Image) Kind() Kind { return KindImage }

func (i *Image) TextContent() string {
	switch {
	case i.AltText != "":
		return "[IMG: " + i.AltText + "]"
	case i.Title != "":
		return "[IMG: " + i.Title + "]"
	case i.filename() != "":
		return "[IMG: " + i.filename() + "]"
	}
	return "[IMG]"
}

// Inspect fetches the image once and fills Format and Dimensions from its
// header when they are unknown. Undecodable payloads leave them unset.
func (i *Image) Inspect(ctx context.Context, f DriverFactory) error {
	if i.inspected {
		return nil
	}
	data, err := i.Data(ctx, f)
	if err != nil {
		return err
	}
	i.inspected = true

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if i.Format == "" {
			i.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(i.filename())), ".")
		}
		return nil
	}
	if i.Format == "" {
		i.Format = format
	}
	if i.Dimensions == nil {
		i.Dimensions = &Dimensions{Width: cfg.Width, Height: cfg.Height}
	}
	return nil
}

func (i *Image) RawData() map[string]any {
	d := i.raw()
	d["alt_text"] = i.AltText
	return d
}

// Video is an embedded video.
type Video struct {
	BaseNode
	Media

	// Duration in seconds, nil when unknown.
	Duration  *float64
	PosterURL string
}

// NewVideo returns a Video for src.
func NewVideo(src MediaSource) *Video {
	v := &Video{}
	v.Source = src
	ownSource(v, src)
	return v
}

func (v *Video) Kind() Kind { return KindVideo }

func (v *Video) TextContent() string {
	switch {
	case v.Title != "":
		return "[VIDEO: " + v.Title + "]"
	case v.filename() != "":
		return "[VIDEO: " + v.filename() + "]"
	}
	return "[VIDEO]"
}

func (v *Video) RawData() map[string]any {
	d := v.raw()
	d["poster_url"] = nullable(v.PosterURL)
	d["duration"] = nil
	if v.Duration != nil {
		d["duration"] = *v.Duration
	}
	return d
}

// Audio is an embedded audio clip.
type Audio struct {
	BaseNode
	Media
	Artist string

	// Bitrate in kbit/s, nil when unknown.
	Bitrate *int

	// Duration in seconds, nil when unknown.
	Duration *float64
}

// NewAudio returns an Audio for src.
func NewAudio(src MediaSource) *Audio {
	a := &Audio{}
	a.Source = src
	ownSource(a, src)
	return a
}

func (a *Audio) Kind() Kind { return KindAudio }

func (a *Audio) TextContent() string {
	switch {
	case a.Artist != "" && a.Title != "":
		return "[AUDIO: " + a.Artist + " - " + a.Title + "]"
	case a.Title != "":
		return "[AUDIO: " + a.Title + "]"
	case a.filename() != "":
		return "[AUDIO: " + a.filename() + "]"
	}
	return "[AUDIO]"
}

func (a *Audio) RawData() map[string]any {
	d := a.raw()
	d["artist"] = nullable(a.Artist)
	d["bitrate"] = nil
	if a.Bitrate != nil {
		d["bitrate"] = *a.Bitrate
	}
	d["duration"] = nil
	if a.Duration != nil {
		d["duration"] = *a.Duration
	}
	return d
}
