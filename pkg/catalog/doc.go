// Package catalog loads row templates from JSON or YAML files and keeps them
// in a name-indexed Store. A file holds either one template or a list under
// a top-level "templates" key.
//
// Loading applies the structural checks of model.Template.Validate. The
// optional CUE validation is stricter: it rejects data types outside the
// known set and options without a value, which the renderers would otherwise
// tolerate.
package catalog
