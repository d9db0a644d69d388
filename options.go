package charta

import (
	"github.com/charta-io/charta/config"
	"github.com/charta-io/charta/extract"
	"github.com/charta-io/charta/preprocess"
)

// Options holds configuration for a processing run.
type Options struct {
	// Page selection
	maxPages int
	dpi      int

	// Preprocessing
	preprocess bool
	deskew     bool

	// Outputs
	visualize bool

	// Extraction
	customRules extract.RuleSet
}

// defaultOptions returns the default processing options.
func defaultOptions() Options {
	return Options{
		maxPages:   config.DefaultMaxPages,
		dpi:        config.DefaultDPI,
		preprocess: true,
		deskew:     false,
		visualize:  true,
	}
}

// optionsFromConfig translates a loaded configuration into options.
func optionsFromConfig(cfg *config.Config) Options {
	return Options{
		maxPages:   cfg.MaxPages,
		dpi:        cfg.DPI,
		preprocess: cfg.Preprocess,
		deskew:     cfg.Deskew,
		visualize:  cfg.Visualize,
	}
}

// clone creates a deep copy of Options.
func (o Options) clone() Options {
	newOpts := o

	if o.customRules != nil {
		newOpts.customRules = make(extract.RuleSet, len(o.customRules))
		for field, patterns := range o.customRules {
			newOpts.customRules[field] = append([]string(nil), patterns...)
		}
	}
	return newOpts
}

// preprocessOptions maps the run options onto the preprocessing pipeline.
func (o Options) preprocessOptions() preprocess.Options {
	opts := preprocess.DefaultOptions()
	opts.Deskew = o.deskew
	return opts
}
