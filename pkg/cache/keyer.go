package cache

// LayoutKeyOpts holds the layout options that change computed geometry.
type LayoutKeyOpts struct {
	Direction string  `json:"direction,omitempty"`
	Padding   float64 `json:"padding,omitempty"`
	Gap       float64 `json:"gap,omitempty"`
	FontSize  float64 `json:"font_size,omitempty"`
	Legend    bool    `json:"legend,omitempty"`
	MaxWidth  float64 `json:"max_width,omitempty"`
	MaxHeight float64 `json:"max_height,omitempty"`
}

// ArtifactKeyOpts holds the options that change rendered bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Engine string  `json:"engine,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	// ThemeHash identifies the palette and colors in use.
	ThemeHash string        `json:"theme_hash,omitempty"`
	Layout    LayoutKeyOpts `json:"layout"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(diagramHash string, opts LayoutKeyOpts) string
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the diagram hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return "layout:" + digest(diagramHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return "artifact:" + opts.Format + ":" + digest(diagramHash, opts)
}
