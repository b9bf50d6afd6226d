package domain

import "errors"

var (
	// ErrValidation signals malformed or policy-violating caller input.
	ErrValidation = errors.New("validation failed")
	// ErrBookNotFound signals that no book could be resolved.
	ErrBookNotFound = errors.New("book not found")
	// ErrNoSections signals that the resolved book has no embeddable sections.
	ErrNoSections = errors.New("book has no embeddable sections")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals an answer generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrCatalogUnavailable signals that the external catalog provider is unreachable.
	ErrCatalogUnavailable = errors.New("catalog provider unavailable")
)
