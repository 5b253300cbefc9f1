package cache

// Keyer builds cache keys. Swapping the Keyer (see [ScopedKeyer]) changes the
// namespace without touching callers.
type Keyer interface {
	// HTTPKey identifies a downloaded resource.
	HTTPKey(namespace, key string) string

	// ArtifactKey identifies an encoded paint result for a palette.
	ArtifactKey(paletteHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the run parameters that change the painted output.
// The frontier strategy is deliberately absent: every strategy places the
// same color in the same cell.
type ArtifactKeyOpts struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   uint64 `json:"seed"`
	Format string `json:"format"`
	Scale  int    `json:"scale,omitempty"`
}

// DefaultKeyer produces plain, unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ArtifactKey returns "artifact:<sha256>" over the palette hash and options.
func (DefaultKeyer) ArtifactKey(paletteHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", paletteHash, opts)
}
