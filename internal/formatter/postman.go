package formatter

import (
	"io"
	"strings"

	"github.com/tordrt/schemaforge/internal/ir"
	"github.com/tordrt/schemaforge/internal/typemap"
)

// PostmanFormatter emits a Postman v2.1 collection of the workflow endpoints
type PostmanFormatter struct{}

// Target implements Formatter
func (PostmanFormatter) Target() typemap.Target { return typemap.Postman }

// Format writes collection.json
func (f PostmanFormatter) Format(w io.Writer, in *Input) error {
	c, err := f.Build(in)
	if err != nil {
		return err
	}
	return c.Render(w)
}

// Build assembles the collection
func (PostmanFormatter) Build(in *Input) (*ir.PostmanCollection, error) {
	c := &ir.PostmanCollection{
		Info: ir.PostmanInfo{
			Name:        in.Project.Title(),
			Description: in.Project.Description,
			Schema:      ir.PostmanSchemaURL,
		},
		Item:     []ir.PostmanItem{},
		Variable: []ir.PostmanVariable{{Key: "baseUrl", Value: in.BaseURL(), Type: "string"}},
	}
	if in.Options.IncludeAuth {
		c.Variable = append(c.Variable, ir.PostmanVariable{Key: "token", Value: "", Type: "string"})
		c.Auth = &ir.PostmanAuth{
			Type:   "bearer",
			Bearer: []ir.PostmanVariable{{Key: "token", Value: "{{token}}", Type: "string"}},
		}
	}

	for _, ep := range endpointsFor(in) {
		req, err := buildRequest(in, ep)
		if err != nil {
			return nil, err
		}

		item := ir.PostmanItem{
			Name: ep.Name,
			Request: ir.PostmanRequest{
				Method:      req.Method,
				Header:      []ir.PostmanHeader{},
				URL:         postmanURL(ep.Path),
				Description: ep.Description,
			},
		}
		if item.Name == "" {
			item.Name = req.Method + " " + ep.Path
		}
		for _, h := range req.Headers {
			item.Request.Header = append(item.Request.Header, ir.PostmanHeader{Key: h[0], Value: h[1], Type: "text"})
		}
		if hasBody(req.Method) {
			item.Request.Body = &ir.PostmanBody{
				Mode:    "raw",
				Raw:     req.Body,
				Options: &ir.PostmanBodyOptions{Raw: ir.PostmanRawOptions{Language: "json"}},
			}
		}
		c.Item = append(c.Item, item)
	}
	return c, nil
}

// postmanURL prefixes the path with {{baseUrl}} and turns {param} segments
// into :param path variables
func postmanURL(path string) ir.PostmanURL {
	u := ir.PostmanURL{Host: []string{"{{baseUrl}}"}, Path: []string{}}
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			name := seg[1 : len(seg)-1]
			seg = ":" + name
			u.Variable = append(u.Variable, ir.PostmanVariable{Key: name, Value: ""})
		}
		u.Path = append(u.Path, seg)
	}
	u.Raw = "{{baseUrl}}"
	if len(u.Path) > 0 {
		u.Raw += "/" + strings.Join(u.Path, "/")
	}
	return u
}
