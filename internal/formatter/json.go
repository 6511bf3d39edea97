package formatter

import (
	"io"

	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
)

// JSONFormatter exports the raw project model. Only resolved connections are
// written, in their original order, so reading the export back gives the model
// the other targets were generated from.
type JSONFormatter struct{}

// Target implements Formatter
func (JSONFormatter) Target() typemap.Target { return typemap.JSON }

// Format writes project.json
func (JSONFormatter) Format(w io.Writer, in *Input) error {
	out := *in.Project
	if in.Project.Schema != nil {
		keep := make(map[schema.Connection]int, len(in.Resolved))
		for _, r := range in.Resolved {
			keep[r.Connection]++
		}
		s := *in.Project.Schema
		s.Connections = nil
		for _, c := range in.Project.Schema.Connections {
			if keep[c] > 0 {
				keep[c]--
				s.Connections = append(s.Connections, c)
			}
		}
		out.Schema = &s
	}
	return schema.EncodeProject(w, &out, schema.EncodingJSON)
}
