// Package grouper splits the pages of a multi-document PDF into logical
// documents at recognizable header pages.
package grouper

import (
	"strings"

	"github.com/JaimeStill/lading/pkg/pdftext"
)

// Headers lists the document header phrases in match priority order.
var Headers = []string{
	"BOOKING CONFIRMATION",
	"BILL OF LADING",
	"DELIVERY ORDER",
	"TRANSPORT ORDER",
	"SHIPPING INSTRUCTION",
	"CARGO MANIFEST",
}

// Group is a contiguous run of pages believed to form one document.
type Group struct {
	StartPage    int            `json:"startPage"`
	EndPage      int            `json:"endPage"`
	Header       string         `json:"header,omitempty"`
	Pages        []pdftext.Page `json:"pages"`
	CombinedText string         `json:"combinedText"`
}

// DetectHeader reports the first header phrase found in text, ignoring case.
func DetectHeader(text string) (string, bool) {
	upper := strings.ToUpper(text)
	for _, h := range Headers {
		if strings.Contains(upper, h) {
			return h, true
		}
	}
	return "", false
}

// GroupPages walks pages in order. A page opens a new group only when a group is
// already in progress and the page carries a header; the first page always
// opens group one.
func GroupPages(pages []pdftext.Page) []Group {
	var groups []Group
	var current *Group

	for _, p := range pages {
		header, isHeader := DetectHeader(p.Text)

		if current != nil && isHeader {
			groups = append(groups, current.finish())
			current = nil
		}

		if current == nil {
			current = &Group{StartPage: p.PageNumber, Header: header}
		}
		current.Pages = append(current.Pages, p)
		current.EndPage = p.PageNumber
	}

	if current != nil {
		groups = append(groups, current.finish())
	}

	return groups
}

func (g *Group) finish() Group {
	texts := make([]string, len(g.Pages))
	for i, p := range g.Pages {
		texts[i] = p.Text
	}
	g.CombinedText = strings.Join(texts, "\n\n")
	return *g
}
