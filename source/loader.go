package source

import (
	"context"
	"os"

	"github.com/viant/afs"
)

// FileLoader abstracts reading file bytes so SourceManager.ReadSource and
// ReadHeader work identically against a real filesystem, an in-memory
// map or afs mem:// tree (the tests use small map-backed loaders), or a remote backend (s3://, gs://)
// without the manager itself depending on a backend.
type FileLoader interface {
	// ReadFile returns the full content at path, or an error if it cannot
	// be read.
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// Exists reports whether path can be read.
	Exists(ctx context.Context, path string) bool
}

// afsLoader is the FileLoader returned by NewAFSLoader, backed by github.com/viant/afs so a
// single SourceManager can transparently resolve local paths and afs URLs
// (mem://, s3://, ...) through one Service.
type afsLoader struct {
	service afs.Service
}

// NewAFSLoader creates a FileLoader backed by a fresh afs.Service.
func NewAFSLoader() FileLoader {
	return &afsLoader{service: afs.New()}
}

// NewAFSLoaderWithService wraps a caller-supplied afs.Service, letting a
// host application share one Service (and its connection pools/caching)
// across the source manager and the rest of its file access.
func NewAFSLoaderWithService(service afs.Service) FileLoader {
	return &afsLoader{service: service}
}

func (l *afsLoader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return l.service.DownloadWithURL(ctx, path)
}

func (l *afsLoader) Exists(ctx context.Context, path string) bool {
	ok, err := l.service.Exists(ctx, path)
	return err == nil && ok
}

// osLoader is a minimal FileLoader used as the zero-dependency default when
// a caller constructs a SourceManager without options; it is functionally
// equivalent to afsLoader for local paths but avoids spinning up an afs
// service when one was never requested.
type osLoader struct{}

func (osLoader) ReadFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osLoader) Exists(_ context.Context, path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
