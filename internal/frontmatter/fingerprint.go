package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
)

// Fingerprint computes the content fingerprint of a document.
//
// The fingerprint field itself is excluded; the remaining fields are serialized
// with sorted keys so the result does not depend on map order.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if strings.EqualFold(k, mdfp.FingerprintField) {
			continue
		}
		forHash[k] = v
	}

	serialized := ""
	if len(forHash) > 0 {
		out, err := SerializeYAML(forHash)
		if err != nil {
			return "", err
		}
		serialized = strings.TrimSuffix(string(out), "\n")
	}

	return mdfp.CalculateFingerprintFromParts(serialized, string(body)), nil
}
