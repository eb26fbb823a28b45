package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/pairs/internal/board"
)

//go:embed schema.cue
var schemaCUE string

// ParseCUE compiles a CUE config, unifies it with the embedded schema and
// decodes the "game" struct. Schema violations are reported as
// *board.ConfigurationError with CUE's positioned messages.
func ParseCUE(data []byte, filename string) (Game, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Game{}, fmt.Errorf("compile embedded schema: %w", err)
	}

	user := ctx.CompileBytes(data, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return Game{}, fmt.Errorf("compile CUE: %w", err)
	}

	v := schema.Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Game{}, &board.ConfigurationError{Field: "game", Message: cueerrors.Details(err, nil)}
	}

	var raw rawGame
	if err := v.LookupPath(cue.ParsePath("game")).Decode(&raw); err != nil {
		return Game{}, fmt.Errorf("decode CUE: %w", err)
	}
	return raw.resolve()
}
