package ir

import "io"

// PostmanSchemaURL identifies the v2.1 collection format
const PostmanSchemaURL = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// PostmanCollection is a Postman v2.1 collection document
type PostmanCollection struct {
	Info     PostmanInfo       `json:"info"`
	Item     []PostmanItem     `json:"item"`
	Auth     *PostmanAuth      `json:"auth,omitempty"`
	Variable []PostmanVariable `json:"variable,omitempty"`
}

// PostmanInfo is the collection header
type PostmanInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Schema      string `json:"schema"`
}

// PostmanItem is one saved request
type PostmanItem struct {
	Name    string         `json:"name"`
	Request PostmanRequest `json:"request"`
}

// PostmanRequest describes the HTTP request of an item
type PostmanRequest struct {
	Method      string          `json:"method"`
	Header      []PostmanHeader `json:"header"`
	Body        *PostmanBody    `json:"body,omitempty"`
	URL         PostmanURL      `json:"url"`
	Description string          `json:"description,omitempty"`
}

// PostmanHeader is a request header
type PostmanHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// PostmanBody is a raw request body
type PostmanBody struct {
	Mode    string              `json:"mode"`
	Raw     string              `json:"raw"`
	Options *PostmanBodyOptions `json:"options,omitempty"`
}

// PostmanBodyOptions declares the raw body language
type PostmanBodyOptions struct {
	Raw PostmanRawOptions `json:"raw"`
}

// PostmanRawOptions is the raw body language
type PostmanRawOptions struct {
	Language string `json:"language"`
}

// PostmanURL is a structured request URL
type PostmanURL struct {
	Raw      string            `json:"raw"`
	Host     []string          `json:"host"`
	Path     []string          `json:"path"`
	Variable []PostmanVariable `json:"variable,omitempty"`
}

// PostmanVariable is a collection or path variable
type PostmanVariable struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// PostmanAuth is the collection-level auth
type PostmanAuth struct {
	Type   string            `json:"type"`
	Bearer []PostmanVariable `json:"bearer,omitempty"`
}

// Render writes the collection as indented JSON
func (c *PostmanCollection) Render(w io.Writer) error {
	return RenderJSON(w, c)
}
