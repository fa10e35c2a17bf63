// Package classifier assigns a document type and carrier to page-group text
// using weighted keyword dictionaries. Classification is pure and
// deterministic: identical text always yields an identical Result.
package classifier

import (
	"strings"
	"unicode"

	"github.com/JaimeStill/lading/internal/dcsa"
)

// UnknownCarrier is reported when no carrier scores, or carriers tie.
const UnknownCarrier = "unknown"

const (
	typeWeight    = 0.6
	carrierWeight = 0.4

	typeScale    = 10.0
	carrierScale = 15.0
)

// Result is the classification of one page group.
type Result struct {
	DocumentType      dcsa.DocumentType `json:"documentType"`
	Carrier           string            `json:"carrier"`
	Confidence        float64           `json:"confidence"`
	TypeConfidence    float64           `json:"typeConfidence"`
	CarrierConfidence float64           `json:"carrierConfidence"`
	MatchedKeywords   []string          `json:"matchedKeywords"`
}

// LowConfidence reports whether the result falls below the threshold for
// its document type. A low-confidence result is a quality signal, not an error.
func (r Result) LowConfidence() bool {
	return r.Confidence < Threshold(r.DocumentType)
}

// Threshold returns the minimum acceptable confidence for t.
func Threshold(t dcsa.DocumentType) float64 {
	if v, ok := thresholds[t]; ok {
		return v
	}
	return thresholds[dcsa.TypeUnknown]
}

// Classify scores text against the type and carrier dictionaries.
func Classify(text string) Result {
	docType, typeConf, typeMatches := classifyType(text)
	carrier, carrierConf, carrierMatches := classifyCarrier(text)

	matched := make([]string, 0, len(typeMatches)+len(carrierMatches))
	matched = append(matched, typeMatches...)
	matched = append(matched, carrierMatches...)

	return Result{
		DocumentType:      docType,
		Carrier:           carrier,
		Confidence:        typeWeight*typeConf + carrierWeight*carrierConf,
		TypeConfidence:    typeConf,
		CarrierConfidence: carrierConf,
		MatchedKeywords:   matched,
	}
}

func classifyType(text string) (dcsa.DocumentType, float64, []string) {
	lower := strings.ToLower(text)

	var matched []string
	scores := make([]int, len(documentKeywords))

	for i, tk := range documentKeywords {
		for _, kw := range tk.keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			matched = append(matched, kw)
			scores[i] += keywordWeight(kw)
		}
	}

	best, winner := leader(scores)
	confidence := min(float64(best)/typeScale, 1.0)
	if winner < 0 {
		return dcsa.TypeUnknown, confidence, matched
	}
	return documentKeywords[winner].documentType, confidence, matched
}

func keywordWeight(kw string) int {
	if strings.Contains(kw, "confirmation") || strings.Contains(kw, "bill of lading") {
		return 2
	}
	return 1
}

func classifyCarrier(text string) (string, float64, []string) {
	lower := strings.ToLower(text)

	var matched []string
	scores := make([]int, len(carrierKeywords))

	for i, ca := range carrierKeywords {
		for _, alias := range ca.aliases {
			var n, weight int
			if isPrefixCode(alias) {
				n, weight = strings.Count(text, alias), 3
			} else {
				n, weight = strings.Count(lower, alias), 1
			}
			if n == 0 {
				continue
			}
			matched = append(matched, alias)
			scores[i] += n * weight
		}
	}

	best, winner := leader(scores)
	confidence := min(float64(best)/carrierScale, 1.0)
	if winner < 0 {
		return UnknownCarrier, confidence, matched
	}
	return carrierKeywords[winner].carrier, confidence, matched
}

// isPrefixCode reports whether alias is a 4 letter uppercase BIC owner code.
func isPrefixCode(alias string) bool {
	if len(alias) != 4 {
		return false
	}
	for _, r := range alias {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// leader returns the best score and its index, or -1 when the best score is
// zero or shared.
func leader(scores []int) (int, int) {
	best, winner, tied := 0, -1, false
	for i, s := range scores {
		switch {
		case s > best:
			best, winner, tied = s, i, false
		case s == best && s > 0:
			tied = true
		}
	}
	if tied {
		return best, -1
	}
	return best, winner
}
