package ports

//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// DynamicCache memoizes the parsed dependency-name list of a dynamic
// dependency file, keyed by its content, so re-reading the same content
// within one build invocation (a shared dynamic dependency reached from
// more than one target, or a no-op rebuild) doesn't re-split and
// re-validate it. It is always empty at process start — no part of
// spec.md's engine behavior depends on memoized content surviving one
// run, per the non-goal on a persistent build cache.
type DynamicCache interface {
	// Lookup returns the cached parse of content, if any.
	Lookup(content []byte) ([]string, bool)
	// Store records names as the parse result for content.
	Store(content []byte, names []string)
}
