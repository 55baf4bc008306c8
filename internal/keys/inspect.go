package keys

import (
	"bytes"
	"encoding/hex"
	"regexp"
	"unicode/utf8"
)

var beginLine = regexp.MustCompile(`-----BEGIN ([A-Z0-9 ]+)-----`)

// Diagnosis describes key material without exposing it. It backs the
// `key inspect` command and the doctor checks.
type Diagnosis struct {
	Origin           string `json:"origin,omitempty"`
	Size             int    `json:"size"`
	HeadHex          string `json:"head_hex"`
	ValidUTF8        bool   `json:"valid_utf8"`
	HasPEMHeader     bool   `json:"has_pem_header"`
	HasPEMFooter     bool   `json:"has_pem_footer"`
	PEMType          string `json:"pem_type,omitempty"`
	LiteralNewlines  bool   `json:"literal_newlines"`
	Base64WrappedPEM bool   `json:"base64_wrapped_pem"`
	Unescaped        bool   `json:"unescaped,omitempty"`
	Format           string `json:"format,omitempty"`
	Bits             int    `json:"bits,omitempty"`
	Error            string `json:"error,omitempty"`

	// Key is the parsed key when the material is usable.
	Key *Key `json:"-"`
}

// OK reports whether the material parsed into a usable key.
func (d Diagnosis) OK() bool {
	return d.Error == ""
}

// Inspect examines key material and attempts to parse it.
func Inspect(material *Material) Diagnosis {
	data := material.Data
	head := data
	if len(head) > 20 {
		head = head[:20]
	}

	diagnosis := Diagnosis{
		Origin:           material.Origin,
		Size:             len(data),
		HeadHex:          hex.EncodeToString(head),
		ValidUTF8:        utf8.Valid(data),
		HasPEMHeader:     bytes.Contains(data, []byte("-----BEGIN ")),
		HasPEMFooter:     bytes.Contains(data, []byte("-----END ")),
		LiteralNewlines:  bytes.Contains(data, []byte(`\n`)),
		Base64WrappedPEM: isBase64PEM(bytes.TrimSpace(data)),
		Unescaped:        material.Unescaped,
	}
	if match := beginLine.FindSubmatch(data); match != nil {
		diagnosis.PEMType = string(match[1])
	}

	key, err := Parse(data)
	if err != nil {
		diagnosis.Error = err.Error()
		return diagnosis
	}
	diagnosis.Key = key
	diagnosis.Format = key.Format.String()
	diagnosis.Bits = key.Bits()
	return diagnosis
}
