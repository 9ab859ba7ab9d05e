package server

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/felixgeelhaar/flowforge/internal/errors"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// LoadOpenAPIDocument parses and validates the embedded OpenAPI
// document. Called at startup so a malformed document fails fast
// instead of surfacing as a broken endpoint.
func LoadOpenAPIDocument(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileUnmarshal, "failed to parse OpenAPI document", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "OpenAPI document is invalid", err)
	}
	return doc, nil
}

func (a *api) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDocument)
}
