package generator

import (
	"fmt"
	"sync"
)

// Factory constructs a backend.
type Factory func(opts Options) (Generator, error)

// Registry maps generator types to the factories that build them.
type Registry struct {
	mu        sync.RWMutex
	factories map[Type]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Type]Factory)}
}

// Register installs the factory for t. Registering a type outside the
// supported set panics, since that is a programming error.
func (r *Registry) Register(t Type, f Factory) {
	if !IsValidType(string(t)) {
		panic(fmt.Sprintf("generator: cannot register unsupported type %q", t))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[t] = f
}

// Lookup returns the factory for name without constructing anything.
//
// name must match one of the supported types exactly; anything else,
// including the empty string and case variants, is a *RegistryError.
func (r *Registry) Lookup(name string) (Type, Factory, error) {
	if !IsValidType(name) {
		return "", nil, &RegistryError{Name: name}
	}
	t := Type(name)

	r.mu.RLock()
	f, ok := r.factories[t]
	r.mu.RUnlock()
	if !ok {
		return "", nil, &RegistryError{Name: name}
	}
	return t, f, nil
}

// Resolve looks up name and constructs its backend.
//
// Construction failures are reported as *RenderError of kind ErrBackend,
// since they come from the rendering library.
func (r *Registry) Resolve(name string, opts Options) (Generator, error) {
	t, f, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	gen, err := f(opts)
	if err != nil {
		return nil, NewRenderError(t, ErrBackend, fmt.Errorf("failed to initialize backend: %w", err))
	}
	return gen, nil
}

// Registered returns the registered types in SupportedTypes order.
func (r *Registry) Registered() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []Type
	for _, t := range SupportedTypes() {
		if _, ok := r.factories[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

// IsValidType reports whether name is a supported generator type.
// The comparison is case-sensitive.
func IsValidType(name string) bool {
	switch Type(name) {
	case TypeWand, TypePdf2image, TypeFitz, TypePypdfium2, TypePyvips:
		return true
	default:
		return false
	}
}

// SupportedTypes returns every generator type.
func SupportedTypes() []Type {
	return []Type{
		TypeWand,
		TypePdf2image,
		TypeFitz,
		TypePypdfium2,
		TypePyvips,
	}
}

// Description documents a generator type.
type Description struct {
	Type        Type
	Library     string
	Description string
	Options     map[string]string
}

// Describe returns documentation for t, or nil for unsupported types.
func Describe(t Type) *Description {
	switch t {
	case TypeWand:
		return &Description{
			Type:        TypeWand,
			Library:     "ImageMagick (MagickWand)",
			Description: "Reads the page span through ImageMagick's PDF delegate, flattens alpha onto white and converts to sRGB.",
			Options: map[string]string{
				"dpi":      "native",
				"pages":    "native",
				"password": "native",
			},
		}
	case TypePdf2image:
		return &Description{
			Type:        TypePdf2image,
			Library:     "poppler (pdftoppm, pdfinfo)",
			Description: "Counts pages with pdfinfo and renders the span with a single pdftoppm invocation.",
			Options: map[string]string{
				"dpi":      "native",
				"pages":    "native",
				"password": "native",
			},
		}
	case TypeFitz:
		return &Description{
			Type:        TypeFitz,
			Library:     "MuPDF (go-fitz)",
			Description: "Opens the document with MuPDF and rasterizes each page at the requested DPI.",
			Options: map[string]string{
				"dpi":      "native",
				"pages":    "native",
				"password": "unsupported",
			},
		}
	case TypePypdfium2:
		return &Description{
			Type:        TypePypdfium2,
			Library:     "PDFium (go-pdfium, webassembly)",
			Description: "Opens the document bytes in a PDFium webassembly instance and renders each page at the requested DPI.",
			Options: map[string]string{
				"dpi":      "native",
				"pages":    "native",
				"password": "native",
			},
		}
	case TypePyvips:
		return &Description{
			Type:        TypePyvips,
			Library:     "libvips (govips)",
			Description: "Loads each page through libvips' pdfload at the requested density.",
			Options: map[string]string{
				"dpi":      "native",
				"pages":    "native",
				"password": "unsupported",
			},
		}
	default:
		return nil
	}
}
