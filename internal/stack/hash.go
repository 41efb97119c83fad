// File: internal/stack/hash.go
// Brief: Template digest for determinism and drift checks.

package stack

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/example/jenkinsctl/internal/cfn"
)

// TemplateDigest returns sha256:<hex> over the encoded template. Two digests
// are equal exactly when the encoded templates are byte-identical.
func TemplateDigest(t *cfn.Template) (string, error) {
	if t == nil {
		return "", fmt.Errorf("nil template")
	}
	raw, err := t.Encode()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}
