package mcp

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"time"

	mcplib "github.com/felixgeelhaar/mcp-go"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// OpenAPISpec is the subset of an OpenAPI 3.0 document the tool export fills in.
type OpenAPISpec struct {
	OpenAPI    string              `json:"openapi"`
	Info       OpenAPIInfo         `json:"info"`
	Paths      map[string]PathItem `json:"paths"`
	Components Components          `json:"components"`
}

type OpenAPIInfo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

type PathItem struct {
	Post *Operation `json:"post,omitempty"`
}

type Operation struct {
	OperationID string              `json:"operationId"`
	Summary     string              `json:"summary,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

type RequestBody struct {
	Required bool                 `json:"required"`
	Content  map[string]MediaType `json:"content"`
}

type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

type MediaType struct {
	Schema any `json:"schema"`
}

type Components struct {
	Schemas map[string]any `json:"schemas,omitempty"`
}

// toolOutput describes what a VisionQA tool returns. A nil typ means plain text.
type toolOutput struct {
	tag    string
	schema string
	typ    reflect.Type
}

var toolOutputs = map[string]toolOutput{
	toolValidateAsset:     {"validation", "ValidationResult", reflect.TypeOf(asset.ValidationResult{})},
	toolValidateHeroCard:  {"validation", "ValidationResult", reflect.TypeOf(asset.ValidationResult{})},
	toolValidateMascot:    {"validation", "ValidationResult", reflect.TypeOf(asset.ValidationResult{})},
	toolBatchValidate:     {"batch", "BatchResult", reflect.TypeOf(batchResponse{})},
	toolImprovementPrompt: {tag: "prompt"},
}

// OpenAPI returns the OpenAPI 3.0 JSON document for this server.
func (s *Server) OpenAPI() ([]byte, error) {
	return GenerateOpenAPI(s.mcpServer)
}

// GenerateOpenAPI maps every registered tool to POST /tools/{name}. Request bodies come
// from the tool's input schema. VisionQA tools also get a typed 200 response whose schema
// is built from the result type's JSON tags.
func GenerateOpenAPI(srv *mcplib.Server) ([]byte, error) {
	doc := OpenAPISpec{
		OpenAPI: "3.0.3",
		Info: OpenAPIInfo{
			Title:       "VisionQA MCP API",
			Description: "OpenAPI view of the VisionQA MCP tool registrations.",
			Version:     SchemaVersion,
		},
		Paths:      make(map[string]PathItem),
		Components: Components{Schemas: make(map[string]any)},
	}

	for _, t := range srv.Tools() {
		out, known := toolOutputs[t.Name]
		op := &Operation{
			OperationID: t.Name,
			Summary:     t.Description,
			Tags:        []string{"visionqa"},
			Responses: map[string]Response{
				"200": doc.okResponse(out, known),
				"400": {Description: "Invalid asset request"},
			},
		}
		if known {
			op.Tags = []string{out.tag}
		}
		if hasProperties(t.InputSchema) {
			op.RequestBody = &RequestBody{
				Required: true,
				Content:  map[string]MediaType{"application/json": {Schema: t.InputSchema}},
			}
		}
		doc.Paths["/tools/"+t.Name] = PathItem{Post: op}
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (doc *OpenAPISpec) okResponse(out toolOutput, known bool) Response {
	switch {
	case !known:
		return Response{Description: "Tool result"}
	case out.typ == nil:
		return Response{
			Description: "Tool result",
			Content:     map[string]MediaType{"text/plain": {Schema: map[string]any{"type": "string"}}},
		}
	}
	if _, ok := doc.Components.Schemas[out.schema]; !ok {
		doc.Components.Schemas[out.schema] = schemaOf(out.typ)
	}
	return Response{
		Description: "Tool result",
		Content: map[string]MediaType{
			"application/json": {Schema: map[string]any{"$ref": "#/components/schemas/" + out.schema}},
		},
	}
}

var timeType = reflect.TypeOf(time.Time{})

// schemaOf describes t the way encoding/json writes it.
func schemaOf(t reflect.Type) map[string]any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return map[string]any{"type": "string", "format": "date-time"}
	}
	switch t.Kind() {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": schemaOf(t.Elem())}
	case reflect.Map:
		return map[string]any{"type": "object", "additionalProperties": schemaOf(t.Elem())}
	case reflect.Struct:
		return structSchema(t)
	}
	return map[string]any{}
}

// structSchema lists exported fields under their JSON names. Fields without omitempty
// that are not pointers are required.
func structSchema(t reflect.Type) map[string]any {
	props := make(map[string]any)
	var required []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		props[name] = schemaOf(f.Type)
		if !strings.Contains(","+opts+",", ",omitempty,") && f.Type.Kind() != reflect.Pointer {
			required = append(required, name)
		}
	}
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		sort.Strings(required)
		s["required"] = required
	}
	return s
}

func hasProperties(schema any) bool {
	m, ok := schema.(map[string]any)
	if !ok {
		return false
	}
	props, ok := m["properties"].(map[string]any)
	return ok && len(props) > 0
}
