package rowform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-rowform/pkg/catalog"
	"github.com/goliatone/go-rowform/pkg/openapi"
)

// LoadTemplates reads every YAML or JSON template under fsys.
func LoadTemplates(fsys fs.FS, options ...catalog.LoadOption) (*catalog.Store, error) {
	return catalog.LoadFS(fsys, options...)
}

// BuiltinTemplates returns the templates shipped with the module.
func BuiltinTemplates(options ...catalog.LoadOption) (*catalog.Store, error) {
	return catalog.Builtin(options...)
}

// TemplateFromOpenAPI derives a template from the request body of an
// OpenAPI operation.
func TemplateFromOpenAPI(ctx context.Context, document []byte, operationID string, options ...openapi.Option) (Template, error) {
	return openapi.TemplateFromOperation(ctx, document, operationID, options...)
}
