package cli

import (
	"github.com/randalmurphal/femtomix/pkg/femtomix"
	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
)

// loaded is a configuration file turned into analyses. A run configuration
// also yields its Manager.
type loaded struct {
	obj      *config.Object
	manager  *femtomix.Manager
	analyses []*femtomix.Analysis
}

func (l *loaded) Close() error {
	if l.manager == nil {
		return nil
	}
	return l.manager.Close()
}

func readConfig(path string) (*config.Object, error) {
	obj, err := config.FromFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot read "+path, err)
	}
	return obj, nil
}

// isRun reports whether obj is a run configuration rather than a single
// analysis.
func isRun(obj *config.Object) bool {
	return obj.Has("analyses") || obj.Has("reader")
}

// build constructs everything path describes.
func build(path string, opts ...femtomix.Option) (*loaded, error) {
	obj, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	c := femtomix.NewCatalog()
	if isRun(obj) {
		m, err := femtomix.Build(c, obj, opts...)
		if err != nil {
			return nil, WrapExitError(ExitFailure, "invalid run configuration", err)
		}
		return &loaded{obj: obj, manager: m, analyses: m.Analyses()}, nil
	}
	a, err := femtomix.ConstructObject(c, obj, opts...)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid analysis configuration", err)
	}
	return &loaded{obj: obj, analyses: []*femtomix.Analysis{a}}, nil
}
