package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/zestlabs/zest/pkg/cache"
	"github.com/zestlabs/zest/pkg/errors"
	"github.com/zestlabs/zest/pkg/store"
)

const dividerManifest = `
name = "Voltage Divider"

[[components]]
id = "v1"
kind = "vsource"
value = 12.0

[[components]]
id = "r1"
kind = "resistor"
value = 1000.0

[[components]]
id = "r2"
kind = "resistor"
value = 2000.0

[[wires]]
from = "v1.pos"
to = "r1.n1"

[[wires]]
from = "r1.n2"
to = "r2.n1"

[[wires]]
from = "r2.n2"
to = "gnd"

[[wires]]
from = "v1.neg"
to = "gnd"
`

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestExecuteInlineManifest(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{Manifest: dividerManifest})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Name != "Voltage Divider" {
		t.Errorf("Name = %q", res.Name)
	}
	if res.RunID == "" {
		t.Error("RunID not set")
	}
	if res.Hash == "" {
		t.Error("Hash not set")
	}
	if res.CacheInfo.NetlistHit {
		t.Error("first run should not hit the cache")
	}
	if res.Stats.Components != 3 {
		t.Errorf("Components = %d, want 3", res.Stats.Components)
	}

	want := `* Circuit: Voltage Divider

V1 V1_pos gnd DC 12
R1 V1_pos R1_n2 1000
R2 R1_n2 gnd 2000
.end
`
	if res.Netlist != want {
		t.Errorf("netlist mismatch\ngot:\n%s\nwant:\n%s", res.Netlist, want)
	}
}

func TestExecuteManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "divider.circuit.toml")
	if err := os.WriteFile(path, []byte(dividerManifest), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{ManifestPath: path})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Netlist == "" {
		t.Error("empty netlist")
	}
}

func TestExecuteCacheHit(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()

	ctx := context.Background()
	first, err := r.Execute(ctx, Options{Manifest: dividerManifest})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := r.Execute(ctx, Options{Manifest: dividerManifest})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}

	if first.CacheInfo.NetlistHit {
		t.Error("first run hit the cache")
	}
	if !second.CacheInfo.NetlistHit {
		t.Error("second run missed the cache")
	}
	if first.Netlist != second.Netlist {
		t.Error("cached netlist differs from compiled netlist")
	}

	// a hit reports the same stats and bindings as the compile that filled it
	if second.Stats.Components != first.Stats.Components {
		t.Errorf("hit Components = %d, want %d", second.Stats.Components, first.Stats.Components)
	}
	if second.Stats.NodeCount != first.Stats.NodeCount {
		t.Errorf("hit NodeCount = %d, want %d", second.Stats.NodeCount, first.Stats.NodeCount)
	}
	if len(second.Nodes) != len(first.Nodes) {
		t.Errorf("hit Nodes = %d entries, want %d", len(second.Nodes), len(first.Nodes))
	}

	// refresh bypasses the cache but yields the same bytes
	third, err := r.Execute(ctx, Options{Manifest: dividerManifest, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.NetlistHit {
		t.Error("refresh run hit the cache")
	}
	if third.Netlist != first.Netlist {
		t.Error("refresh produced different netlist")
	}
}

func TestExecuteCacheHitArchivesNodeBindings(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	mem := store.NewMemory()
	r := NewRunner(fc, nil, quietLogger())
	r.Store = mem
	defer r.Close()

	ctx := context.Background()
	if _, err := r.Execute(ctx, Options{Manifest: dividerManifest}); err != nil {
		t.Fatalf("warm Execute: %v", err)
	}
	hit, err := r.Execute(ctx, Options{Manifest: dividerManifest, Archive: true})
	if err != nil {
		t.Fatalf("hit Execute: %v", err)
	}
	if !hit.CacheInfo.NetlistHit {
		t.Fatal("second run missed the cache")
	}

	doc, err := mem.Get(ctx, hit.DocumentID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(doc.Nodes) == 0 {
		t.Error("cache-hit archive lost the node bindings")
	}
}

func TestExecuteStaleCacheEntryRecompiles(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()

	ctx := context.Background()
	key := r.Keyer.NetlistKey(cache.Hash([]byte(dividerManifest)))
	if err := fc.Set(ctx, key, []byte("* raw netlist from an older format"), TTLNetlist); err != nil {
		t.Fatalf("Set: %v", err)
	}

	res, err := r.Execute(ctx, Options{Manifest: dividerManifest})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.NetlistHit {
		t.Error("undecodable entry reported as a hit")
	}
	if res.Stats.Components != 3 {
		t.Errorf("Components = %d, want 3", res.Stats.Components)
	}
}

func TestExecuteArchives(t *testing.T) {
	mem := store.NewMemory()
	r := NewRunner(nil, nil, quietLogger())
	r.Store = mem
	defer r.Close()

	ctx := context.Background()
	res, err := r.Execute(ctx, Options{Manifest: dividerManifest, Archive: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.DocumentID == "" {
		t.Fatal("DocumentID not set")
	}

	doc, err := mem.Get(ctx, res.DocumentID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Netlist != res.Netlist || doc.Hash != res.Hash {
		t.Errorf("archived document differs: %+v", doc)
	}
	if len(doc.Nodes) == 0 {
		t.Error("archived document has no node bindings")
	}

	if byHash, err := mem.FindByHash(ctx, res.Hash); err != nil || byHash.ID != doc.ID {
		t.Errorf("FindByHash = %v, %v", byHash, err)
	}
}

func TestExecuteArchiveWithoutStore(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	_, err := r.Execute(context.Background(), Options{Manifest: dividerManifest, Archive: true})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestExecuteRejectsEmptyOptions(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	_, err := r.Execute(context.Background(), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestExecuteMissingManifestFile(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	_, err := r.Execute(context.Background(), Options{ManifestPath: "/nonexistent.circuit.toml"})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestExecuteStructuralErrorAborts(t *testing.T) {
	const broken = `
name = "Broken"

[[components]]
id = "s1"
kind = "instance"
subcircuit = "MISSING"
`
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{Manifest: broken})
	if !errors.Is(err, errors.ErrCodeUnresolvedDefinition) {
		t.Errorf("err = %v, want UNRESOLVED_DEFINITION", err)
	}
	if res != nil {
		t.Error("partial result returned on error")
	}
}
