package schema

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed descriptor_schema.cue
var descriptorSchema string

// Load reads a descriptor from a YAML file. The file is validated against
// the embedded CUE schema before decoding, so a malformed descriptor is
// rejected with a position-carrying error instead of silently producing a
// half-empty Descriptor.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load descriptor: %w", err)
	}
	return Parse(path, data)
}

// Parse validates and decodes descriptor YAML. filename is used only for
// error positions.
func Parse(filename string, data []byte) (*Descriptor, error) {
	ctx := cuecontext.New()

	sch := ctx.CompileString(descriptorSchema, cue.Filename("descriptor_schema.cue"))
	if err := sch.Err(); err != nil {
		return nil, fmt.Errorf("parse descriptor: compile schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}
	val := ctx.BuildFile(file)
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}

	unified := sch.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("parse descriptor: invalid descriptor: %w", err)
	}

	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse descriptor: decode: %w", err)
	}
	if len(d.Fields) == 0 {
		return nil, fmt.Errorf("parse descriptor: descriptor %q has no fields", d.Table)
	}
	return &d, nil
}
