package cache

import "strconv"

// Keyer generates cache keys. Swap it to namespace keys per tenant.
type Keyer interface {
	// FrameKey identifies a frame's content: the processed document and
	// whether pan/zoom is enabled.
	FrameKey(doc string, zoomEnabled bool) string
	// ArtifactKey identifies one rendered output of a frame.
	ArtifactKey(frameKey string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render parameters that change artifact bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// DefaultKeyer hashes key material with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FrameKey implements Keyer.
func (DefaultKeyer) FrameKey(doc string, zoomEnabled bool) string {
	return Hash([]byte(doc + "\x00" + strconv.FormatBool(zoomEnabled)))
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(frameKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameKey, opts)
}

// ScopedKeyer prefixes every key, for example per deployment or tenant.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// FrameKey implements Keyer. Frame keys are content hashes and stay
// unprefixed so that identical frames compare equal across scopes.
func (k *ScopedKeyer) FrameKey(doc string, zoomEnabled bool) string {
	return k.inner.FrameKey(doc, zoomEnabled)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(frameKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(frameKey, opts)
}
