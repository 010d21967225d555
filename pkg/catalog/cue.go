package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/goliatone/go-rowform/pkg/model"
)

//go:embed schema.cue
var schemaSource string

type cueValidator struct {
	mu       sync.Mutex
	ctx      *cue.Context
	template cue.Value
}

var (
	validatorOnce sync.Once
	validator     *cueValidator
	validatorErr  error
)

func templateValidator() (*cueValidator, error) {
	validatorOnce.Do(func() {
		ctx := cuecontext.New()
		schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := schema.Err(); err != nil {
			validatorErr = fmt.Errorf("catalog: compile schema: %w", err)
			return
		}
		def := schema.LookupPath(cue.ParsePath("#Template"))
		if err := def.Err(); err != nil {
			validatorErr = fmt.Errorf("catalog: lookup #Template: %w", err)
			return
		}
		validator = &cueValidator{ctx: ctx, template: def}
	})
	return validator, validatorErr
}

// validate unifies the template with the #Template definition. cue.Context
// is not safe for concurrent use.
func (v *cueValidator) validate(tmpl model.Template) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	encoded := v.ctx.Encode(tmpl)
	if err := encoded.Err(); err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	return v.template.Unify(encoded).Validate(cue.Concrete(true))
}
