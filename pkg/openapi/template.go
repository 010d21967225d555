package openapi

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-rowform/pkg/model"
)

var (
	ErrEmptyDocument     = errors.New("openapi: document payload is empty")
	ErrOperationNotFound = errors.New("openapi: operation not found")
	ErrNoRequestBody     = errors.New("openapi: operation has no request body schema")
	ErrNotObject         = errors.New("openapi: request body is not an object schema")
)

// Option configures TemplateFromOperation.
type Option func(*config)

type config struct {
	validate     bool
	templateName string
}

// WithValidation runs kin-openapi document validation before mapping.
func WithValidation(enabled bool) Option {
	return func(cfg *config) {
		cfg.validate = enabled
	}
}

// WithTemplateName overrides the derived template name. By default the
// operation summary is used, falling back to the operation id.
func WithTemplateName(name string) Option {
	return func(cfg *config) {
		cfg.templateName = strings.TrimSpace(name)
	}
}

// TemplateFromOperation loads an OpenAPI 3 document (JSON or YAML) and maps
// the request body of operationID onto a template.
func TemplateFromOperation(ctx context.Context, data []byte, operationID string, options ...Option) (model.Template, error) {
	cfg := config{validate: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	spec, err := loadDocument(ctx, data, cfg.validate)
	if err != nil {
		return model.Template{}, err
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return model.Template{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(operation.RequestBody)
	if body == nil {
		return model.Template{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}
	if body.Type != nil && !body.Type.Is(openapi3.TypeObject) {
		return model.Template{}, fmt.Errorf("%w: %q", ErrNotObject, operationID)
	}
	if len(body.Properties) == 0 {
		return model.Template{}, fmt.Errorf("%w: %q has no properties", ErrNotObject, operationID)
	}

	name := cfg.templateName
	if name == "" {
		name = strings.TrimSpace(operation.Summary)
	}
	if name == "" {
		name = operationID
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, key := range body.Required {
		required[key] = struct{}{}
	}

	tmpl := model.Template{Name: name}
	for _, key := range propertyOrder(body) {
		column, err := columnFromProperty(key, body.Properties[key])
		if err != nil {
			return model.Template{}, fmt.Errorf("openapi: operation %q property %q: %w", operationID, key, err)
		}
		_, column.Required = required[key]
		tmpl.Columns = append(tmpl.Columns, column)
	}

	if err := tmpl.Validate(); err != nil {
		return model.Template{}, fmt.Errorf("openapi: operation %q: %w", operationID, err)
	}
	return tmpl, nil
}

// OperationIDs lists the operation ids declared by the document, sorted.
func OperationIDs(ctx context.Context, data []byte) ([]string, error) {
	spec, err := loadDocument(ctx, data, false)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID != "" {
				ids = append(ids, operation.OperationID)
			}
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func loadDocument(ctx context.Context, data []byte, validate bool) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if spec.Paths == nil {
		spec.Paths = openapi3.NewPaths()
	}
	if validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return spec, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func propertyOrder(schema *openapi3.Schema) []string {
	keys := make([]string, 0, len(schema.Properties))
	seen := make(map[string]struct{}, len(schema.Properties))
	for _, key := range stringListExtension(schema.Extensions, extensionOrder) {
		if _, ok := schema.Properties[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	rest := make([]string, 0, len(schema.Properties)-len(keys))
	for key := range schema.Properties {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

func columnFromProperty(key string, ref *openapi3.SchemaRef) (model.Column, error) {
	column := model.Column{Name: key, DataType: model.DataTypeText}
	if ref == nil || ref.Value == nil {
		return column, nil
	}
	prop := ref.Value
	if title := strings.TrimSpace(prop.Title); title != "" {
		column.Name = title
	}
	column.Description = strings.TrimSpace(prop.Description)

	options, err := optionsExtension(prop.Extensions)
	if err != nil {
		return model.Column{}, err
	}

	switch model.DataType(stringExtension(prop.Extensions, extensionType)) {
	case model.DataTypeUser:
		column.DataType = model.DataTypeUser
		column.Options = options
		return column, nil
	case model.DataTypeSelect:
		column.DataType = model.DataTypeSelect
		column.Options = options
		if len(column.Options) == 0 {
			column.Options = enumOptions(prop.Enum)
		}
		return column, nil
	case model.DataTypeDate:
		column.DataType = model.DataTypeDate
		return column, nil
	case model.DataTypeText:
		return column, nil
	}

	switch {
	case prop.Format == "date" || prop.Format == "date-time":
		column.DataType = model.DataTypeDate
	case len(prop.Enum) > 0:
		column.DataType = model.DataTypeSelect
		column.Options = enumOptions(prop.Enum)
	}
	return column, nil
}

func enumOptions(values []any) []model.Option {
	if len(values) == 0 {
		return nil
	}
	out := make([]model.Option, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		out = append(out, model.Option{Value: fmt.Sprint(value)})
	}
	return out
}
