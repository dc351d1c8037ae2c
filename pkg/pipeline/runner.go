package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/zestlabs/zest/pkg/cache"
	"github.com/zestlabs/zest/pkg/errors"
	"github.com/zestlabs/zest/pkg/manifest"
	"github.com/zestlabs/zest/pkg/netlist"
	"github.com/zestlabs/zest/pkg/store"
)

// Runner executes pipeline runs with caching and optional archiving.
//
// The Runner is stateless except for its collaborators; it stores no run
// results. Multiple goroutines can safely share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // optional; nil disables archiving
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer falls back to the default key scheme; a nil cache disables
// caching via the null backend.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → build → compile pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	result := &Result{RunID: uuid.NewString()}
	logger = logger.With("run", result.RunID)

	loadStart := time.Now()
	data, err := r.manifestBytes(opts)
	if err != nil {
		return nil, err
	}
	f, err := manifest.Parse(data)
	if err != nil {
		return nil, err
	}
	result.Name = f.Name
	result.Hash = cache.Hash(data)
	result.Stats.LoadTime = time.Since(loadStart)

	logger.Info("loaded manifest",
		"circuit", f.Name,
		"hash", result.Hash[:12],
		"duration", result.Stats.LoadTime)

	cacheKey := r.Keyer.NetlistKey(result.Hash)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var entry cacheEntry
			// an undecodable entry (stale format) falls through to a fresh compile
			if err := json.Unmarshal(data, &entry); err == nil {
				result.Netlist = entry.Netlist
				result.Nodes = entry.Nodes
				result.Stats.Components = entry.Components
				result.Stats.NodeCount = entry.NodeCount
				result.CacheInfo.NetlistHit = true
				logger.Info("netlist served from cache", "key", cacheKey)
				return r.archive(ctx, logger, opts, result)
			}
			logger.Warn("discarding undecodable cache entry", "key", cacheKey)
		}
	}

	compileStart := time.Now()
	root, err := manifest.Build(f)
	if err != nil {
		return nil, err
	}
	compiled, err := netlist.Compile(root)
	if err != nil {
		return nil, err
	}
	result.Netlist = compiled.Text
	result.Nodes = compiled.Binding.NodeRefs()
	result.Stats.Components = len(root.Components())
	result.Stats.NodeCount = len(compiled.Binding.Nodes())
	result.Stats.CompileTime = time.Since(compileStart)

	logger.Info("compiled netlist",
		"components", result.Stats.Components,
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.CompileTime)

	entry, err := json.Marshal(cacheEntry{
		Netlist:    result.Netlist,
		Nodes:      result.Nodes,
		Components: result.Stats.Components,
		NodeCount:  result.Stats.NodeCount,
	})
	if err == nil {
		err = r.Cache.Set(ctx, cacheKey, entry, TTLNetlist)
	}
	if err != nil {
		logger.Warn("caching netlist failed", "err", err)
	}

	return r.archive(ctx, logger, opts, result)
}

// cacheEntry is the payload stored per manifest hash: the netlist text plus
// the summary fields a cache hit must still be able to report.
type cacheEntry struct {
	Netlist    string              `json:"netlist"`
	Nodes      map[string][]string `json:"nodes"`
	Components int                 `json:"components"`
	NodeCount  int                 `json:"node_count"`
}

// archive saves the result to the configured store when requested.
func (r *Runner) archive(ctx context.Context, logger *log.Logger, opts Options, result *Result) (*Result, error) {
	if !opts.Archive {
		return result, nil
	}
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"archiving requested but no store is configured")
	}
	doc := store.NewDocument(result.Name, result.Hash, result.Netlist, result.Nodes)
	if err := r.Store.Save(ctx, doc); err != nil {
		return nil, err
	}
	result.DocumentID = doc.ID
	logger.Info("archived netlist", "doc", doc.ID)
	return result, nil
}

// manifestBytes returns the raw manifest text for hashing and parsing.
func (r *Runner) manifestBytes(opts Options) ([]byte, error) {
	if opts.Manifest != "" {
		return []byte(opts.Manifest), nil
	}
	data, err := os.ReadFile(opts.ManifestPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err,
			"reading manifest %s", opts.ManifestPath)
	}
	return data, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
