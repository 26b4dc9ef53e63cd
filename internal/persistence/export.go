package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/warfront/internal/world"
)

// Record is one line of a world export. Type is "entity" or "event".
type Record struct {
	Type          string                `json:"type"`
	Entity        *world.Entity         `json:"entity,omitempty"`
	Relationships []*world.Relationship `json:"relationships,omitempty"`
	Event         *world.Event          `json:"event,omitempty"`
}

// ExportPath names the export file for a run inside dir.
func ExportPath(dir string, run Run) string {
	return filepath.Join(dir, fmt.Sprintf("world-%d-%s.jsonl.zst", run.Seed, run.ID))
}

// ExportJSONL flushes every entity, with its relationships, and then every
// event to path as zstd-compressed JSON lines.
func ExportJSONL(path string, w *world.World) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 128*1024)
	je := json.NewEncoder(bw)

	for _, e := range w.All() {
		if err := je.Encode(Record{Type: "entity", Entity: e, Relationships: e.Rels}); err != nil {
			_ = enc.Close()
			return fmt.Errorf("export entity %d: %w", e.ID, err)
		}
	}
	for _, ev := range w.Events() {
		if err := je.Encode(Record{Type: "event", Event: ev}); err != nil {
			_ = enc.Close()
			return fmt.Errorf("export event %d: %w", ev.ID, err)
		}
	}

	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// ReadJSONL decodes an export written by ExportJSONL.
func ReadJSONL(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Record
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", len(out)+1, err)
		}
		out = append(out, r)
	}
	return out, sc.Err()
}
