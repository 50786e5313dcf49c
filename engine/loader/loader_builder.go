package loader

import "github.com/Carmen-Shannon/oxy-sandbox/engine/model"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the maximum number of concurrent imports used by LoadAll.
// Values <= 0 are ignored.
//
// Parameters:
//   - n: worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - m: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, m *model.ImportedModel) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = m
	}
}
