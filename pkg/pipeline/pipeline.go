// Package pipeline orchestrates the load → build → compile flow around the
// pure compiler packages. It owns the impure concerns the compiler itself
// must not touch: reading manifest files, caching compiled netlists, and
// archiving results. CLI and service entry points share this package so
// caching behaves identically everywhere.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ManifestPath: "divider.circuit.toml",
//	})
//	fmt.Print(result.Netlist)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/zestlabs/zest/pkg/errors"
)

// TTLNetlist is how long compiled netlists stay cached. Compilation is
// deterministic, so entries never go stale; the TTL only bounds disk usage.
const TTLNetlist = 30 * 24 * time.Hour

// Options configures one pipeline run. The struct serializes to JSON so a
// service front end can accept it directly.
type Options struct {
	// ManifestPath is the path of a TOML circuit manifest.
	ManifestPath string `json:"manifest_path,omitempty"`

	// Manifest is inline manifest text; takes precedence over ManifestPath.
	Manifest string `json:"manifest,omitempty"`

	// Refresh bypasses the cache and recompiles.
	Refresh bool `json:"refresh,omitempty"`

	// Archive saves the result to the runner's store, when one is configured.
	Archive bool `json:"archive,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`
}

// Validate checks required fields and applies defaults.
func (o *Options) Validate() error {
	if o.Manifest == "" && o.ManifestPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "manifest or manifest path is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Result contains the outputs of one pipeline run.
type Result struct {
	// RunID correlates log lines of this run.
	RunID string

	// Name is the circuit's declared name.
	Name string

	// Hash is the manifest content hash, the netlist's cache key material.
	Hash string

	// Netlist is the compiled netlist text.
	Netlist string

	// Nodes maps output node names to "<component>.<terminal>" references.
	// Empty when the netlist came from the cache.
	Nodes map[string][]string

	// DocumentID is the archive document ID when the run was archived.
	DocumentID string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the netlist came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Components  int
	NodeCount   int
	LoadTime    time.Duration
	CompileTime time.Duration
}

// CacheInfo tracks cache behavior of a run.
type CacheInfo struct {
	NetlistHit bool // whether the netlist came from cache
}
