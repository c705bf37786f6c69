package prefs

import (
	"context"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Options selects and configures a preferences backend.
type Options struct {
	Backend       string // file (default), mongo or memory
	Path          string // file backend; empty means DefaultPath
	MongoURI      string
	MongoDatabase string
}

// Open returns the store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		s, err := NewFileStore(opts.Path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeConfig, err, "open preferences file")
		}
		return s, nil
	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, errs.New(errs.ErrCodeConfig, "prefs.mongo_uri is required for the mongo backend")
		}
		s, err := NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeConfig, err, "open preferences database")
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errs.New(errs.ErrCodeConfig, "unknown preferences backend %q (valid: file, mongo, memory)", opts.Backend)
	}
}
