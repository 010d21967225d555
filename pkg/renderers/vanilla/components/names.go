package components

import "github.com/goliatone/go-rowform/pkg/model"

// Canonical component names used by the vanilla renderer and default registry.
// They match the control kinds a column resolves to.
const (
	NameText   = string(model.ControlText)
	NameSelect = string(model.ControlSelect)
	NameUser   = string(model.ControlUser)
	NameDate   = string(model.ControlDate)
)
