package ui

import "sync"

// ImageLoader tracks one image from request to load or failure.
type ImageLoader struct {
	mu      sync.Mutex
	loading bool
	failed  bool
}

// NewImageLoader returns a loader in the loading state.
func NewImageLoader() *ImageLoader {
	return &ImageLoader{loading: true}
}

// OnLoad marks the image as shown.
func (l *ImageLoader) OnLoad() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading, l.failed = false, false
}

// OnError marks the image as failed.
func (l *ImageLoader) OnError() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading, l.failed = false, true
}

// Loading reports whether neither OnLoad nor OnError has happened yet.
func (l *ImageLoader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// ShowSkeleton reports whether the placeholder should cover the image.
func (l *ImageLoader) ShowSkeleton() bool {
	return l.Loading()
}

// Failed reports whether the image failed to load; the error overlay is shown.
func (l *ImageLoader) Failed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failed && !l.loading
}

// ErrorText is the overlay caption for a failed image.
const ErrorText = "Error al cargar imagen"
