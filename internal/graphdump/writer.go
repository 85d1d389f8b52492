package graphdump

import "github.com/hepqca/qca/pkg/writer"

// JSONWriter writes a Graph as indented JSON. Dump uses this to produce the
// bytes it hands to compression and storage.
type JSONWriter = writer.JSONWriter[*Graph]

// NewPrettyJSONWriter creates an indented JSON writer.
func NewPrettyJSONWriter() *JSONWriter {
	return writer.NewPrettyJSONWriter[*Graph]()
}
