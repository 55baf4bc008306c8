package workflows

import (
	"fmt"
	"os"

	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"
	"github.com/9Mirrors-Lab/knowledge-index/internal/keys"
	"github.com/9Mirrors-Lab/knowledge-index/internal/utils"
)

// InspectKeyOptions configures the key inspect workflow.
type InspectKeyOptions struct {
	// Path inspects a file instead of the configured key source.
	Path string

	// Data inspects key material read elsewhere, such as stdin.
	Data []byte
}

// InspectKeyResult is a key diagnosis. It never contains key material.
type InspectKeyResult struct {
	Source    string         `json:"source"`
	Diagnosis keys.Diagnosis `json:"diagnosis"`

	// LoosePermissions is set for key files readable by group or others.
	LoosePermissions bool `json:"loose_permissions,omitempty"`
}

// InspectKey reads the private key and reports what it contains and why it
// does or does not parse.
//
// Returns ErrPrivateKeyNotFound or ErrAmbiguousKeySource when no material
// can be read. A key that reads but fails to parse is not an error: the
// failure is described in the diagnosis.
func InspectKey(cfg *configs.Config, opts InspectKeyOptions) (*InspectKeyResult, error) {
	if opts.Data != nil {
		material := &keys.Material{Data: opts.Data, Origin: "stdin"}
		return &InspectKeyResult{Source: material.Origin, Diagnosis: keys.Inspect(material)}, nil
	}

	source := KeySource(cfg)
	if opts.Path != "" {
		source = keys.Source{Path: opts.Path}
	}

	material, err := keys.ReadMaterial(source)
	if err != nil {
		return nil, err
	}

	result := &InspectKeyResult{
		Source:    source.String(),
		Diagnosis: keys.Inspect(material),
	}
	if source.Path != "" {
		if info, err := os.Stat(source.Path); err == nil {
			result.LoosePermissions = utils.LoosePermissions(info)
		}
	}
	return result, nil
}

// EncodeKeyOptions configures the key encode workflow.
type EncodeKeyOptions struct {
	Path string

	// Data is used instead of reading Path.
	Data []byte
}

// EncodeKeyResult holds the base64 form of a key file.
type EncodeKeyResult struct {
	Encoded string `json:"encoded"`
	Format  string `json:"format"`
	Bits    int    `json:"bits"`
}

// EncodeKey base64-encodes a key file for storage as PRIVATE_KEY_BASE64.
// The file must hold a usable key; encoding a broken key only moves the
// failure to the next run.
func EncodeKey(opts EncodeKeyOptions) (*EncodeKeyResult, error) {
	data := opts.Data
	if data == nil {
		if opts.Path == "" {
			return nil, fmt.Errorf("%w: no key file given", kerrors.ErrPrivateKeyNotFound)
		}
		material, err := keys.ReadMaterial(keys.Source{Path: opts.Path})
		if err != nil {
			return nil, err
		}
		data = material.Data
	}

	key, err := keys.Parse(data)
	if err != nil {
		return nil, err
	}

	return &EncodeKeyResult{
		Encoded: keys.Encode(data),
		Format:  key.Format.String(),
		Bits:    key.Bits(),
	}, nil
}
