package graphdump

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hepqca/qca/internal/storage"
	"github.com/hepqca/qca/pkg/compression"
)

// Dump encodes a Graph as JSON, optionally compresses it, and uploads it to
// Storage under key. Compression is skipped when comp is nil, which keeps
// small dumps human-readable straight out of local storage.
func Dump(ctx context.Context, s storage.Storage, key string, g *Graph, comp compression.Compressor) error {
	var buf bytes.Buffer
	if err := NewPrettyJSONWriter().Write(g, &buf); err != nil {
		return fmt.Errorf("graphdump: marshal: %w", err)
	}
	data := buf.Bytes()

	var err error
	if comp != nil {
		data, err = comp.Compress(data)
		if err != nil {
			return fmt.Errorf("graphdump: compress: %w", err)
		}
	}

	if err := s.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("graphdump: upload: %w", err)
	}
	return nil
}
