package prompts

import (
	"fmt"

	"github.com/JaimeStill/lading/internal/dcsa"
)

const specRules = `Output rules:
- Respond with a single JSON object only, no markdown fencing or commentary
- Use null for any field that does not appear in the document; never guess
- Format every date as ISO-8601 (YYYY-MM-DD, or YYYY-MM-DDTHH:MM:SSZ when a time is given)
- Container numbers are 4 uppercase letters followed by 7 digits (e.g. MSKU1234565); remove spaces and dashes
- Location codes are UN/LOCODEs: a 2 letter country code plus 3 letters or digits (e.g. NLRTM)
- Weights and volumes are numbers without units; put the unit in the matching unit field
- Preserve the exact spelling of names, references, and addresses
- Set "documentType" to %q`

// Spec returns the immutable output specification for a document type: the
// JSON field template followed by the output rules. Returns
// ErrInvalidDocumentType if the type is not extractable.
func Spec(t dcsa.DocumentType) (string, error) {
	tmpl, err := dcsa.Template(t)
	if err != nil {
		return "", ErrInvalidDocumentType
	}

	return fmt.Sprintf(
		"Respond with a JSON object matching this exact structure:\n\n%s\n\n"+specRules,
		tmpl, t,
	), nil
}
