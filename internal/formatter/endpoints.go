package formatter

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/tordrt/schemaforge/internal/naming"
	"github.com/tordrt/schemaforge/internal/schema"
)

// request is an endpoint with its effective method, headers and example body
type request struct {
	Endpoint schema.Endpoint
	Method   string
	Headers  [][2]string
	Body     string
}

// endpointsFor returns the workflow endpoints, or CRUD endpoints derived from
// the entities when the project defines none
func endpointsFor(in *Input) []schema.Endpoint {
	if eps := in.Endpoints(); len(eps) > 0 {
		return eps
	}
	var eps []schema.Endpoint
	for _, e := range in.Entities() {
		one, _ := accessorNames(e.Name)
		base := "/" + naming.ToKebab(e.Name)
		eps = append(eps,
			schema.Endpoint{Method: "GET", Path: base, Name: "List " + e.Name, Entity: e.Name},
			schema.Endpoint{Method: "POST", Path: base, Name: "Create " + one, Entity: e.Name},
			schema.Endpoint{Method: "GET", Path: base + "/{id}", Name: "Get " + one, Entity: e.Name},
			schema.Endpoint{Method: "PUT", Path: base + "/{id}", Name: "Update " + one, Entity: e.Name},
			schema.Endpoint{Method: "DELETE", Path: base + "/{id}", Name: "Delete " + one, Entity: e.Name},
		)
	}
	return eps
}

func hasBody(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// buildRequest resolves the headers and example body of an endpoint
func buildRequest(in *Input, ep schema.Endpoint) (request, error) {
	req := request{Endpoint: ep, Method: strings.ToUpper(strings.TrimSpace(ep.Method))}
	if req.Method == "" {
		req.Method = "GET"
	}

	seen := make(map[string]bool)
	for _, k := range slices.Sorted(maps.Keys(ep.Headers)) {
		req.Headers = append(req.Headers, [2]string{k, ep.Headers[k]})
		seen[strings.ToLower(k)] = true
	}
	if hasBody(req.Method) && !seen["content-type"] {
		req.Headers = append(req.Headers, [2]string{"Content-Type", "application/json"})
	}
	if in.Options.IncludeAuth && !seen["authorization"] {
		req.Headers = append(req.Headers, [2]string{"Authorization", "Bearer {{token}}"})
	}

	if hasBody(req.Method) {
		body, err := exampleBody(in, ep)
		if err != nil {
			return req, err
		}
		req.Body = body
	}
	return req, nil
}

// exampleBody prefers the endpoint's own body, then an example built from the
// linked entity, then an empty object
func exampleBody(in *Input, ep schema.Endpoint) (string, error) {
	if body := strings.TrimSpace(ep.Body); body != "" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
			return body, nil
		}
		return buf.String(), nil
	}
	if ep.Entity != "" && in.Project.Schema != nil {
		if e, ok := in.Project.Schema.Entity(ep.Entity); ok {
			return ExampleJSON(ExampleObject(InputFields(*e)))
		}
	}
	return "{}", nil
}

// responseExample is the example response body of an endpoint, or "" when the
// endpoint has no linked entity
func responseExample(in *Input, ep schema.Endpoint, method string) (string, error) {
	if ep.Entity == "" || in.Project.Schema == nil || method == "DELETE" {
		return "", nil
	}
	e, ok := in.Project.Schema.Entity(ep.Entity)
	if !ok {
		return "", nil
	}
	obj := ExampleObject(e.Fields)
	if method == "GET" && !strings.Contains(ep.Path, "{") {
		return ExampleJSON([]any{obj})
	}
	return ExampleJSON(obj)
}

// statusCodes lists the documented responses of a method
func statusCodes(method string) [][2]string {
	switch method {
	case "POST":
		return [][2]string{{"201", "Created"}, {"400", "Invalid input"}, {"401", "Unauthorized"}}
	case "PUT", "PATCH":
		return [][2]string{{"200", "OK"}, {"400", "Invalid input"}, {"401", "Unauthorized"}, {"404", "Not found"}}
	case "DELETE":
		return [][2]string{{"204", "Deleted"}, {"401", "Unauthorized"}, {"404", "Not found"}}
	default:
		return [][2]string{{"200", "OK"}, {"401", "Unauthorized"}, {"404", "Not found"}}
	}
}
