package kb

import (
	"bytes"
	_ "embed"
)

//go:embed testdata/insurance.json
var defaultKnowledge []byte

// Default returns the built-in insurance knowledge base. The embedded data
// is validated at load time, so a parse failure here is a build defect.
func Default() (*Store, error) {
	return Load(bytes.NewReader(defaultKnowledge))
}
