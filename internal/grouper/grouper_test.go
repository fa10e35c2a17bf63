package grouper_test

import (
	"testing"

	"github.com/JaimeStill/lading/internal/grouper"
	"github.com/JaimeStill/lading/pkg/pdftext"
)

func pages(texts ...string) []pdftext.Page {
	out := make([]pdftext.Page, len(texts))
	for i, t := range texts {
		out[i] = pdftext.Page{PageNumber: i + 1, Text: t}
	}
	return out
}

func TestDetectHeader(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"MAERSK\nBooking Confirmation\nRef 883301", "BOOKING CONFIRMATION", true},
		{"original bill of lading", "BILL OF LADING", true},
		{"Delivery Order referencing Bill of Lading MAEU1", "BILL OF LADING", true},
		{"CARGO MANIFEST", "CARGO MANIFEST", true},
		{"continued from previous page", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := grouper.DetectHeader(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("DetectHeader = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGroupPages(t *testing.T) {
	tests := []struct {
		name   string
		pages  []pdftext.Page
		ranges [][2]int
	}{
		{
			name:   "empty",
			pages:  nil,
			ranges: nil,
		},
		{
			name:   "single document with continuation pages",
			pages:  pages("BOOKING CONFIRMATION", "containers continued", "terms and conditions"),
			ranges: [][2]int{{1, 3}},
		},
		{
			name:   "first page without header still opens a group",
			pages:  pages("cover letter", "BILL OF LADING", "page 2 of b/l"),
			ranges: [][2]int{{1, 1}, {2, 3}},
		},
		{
			name:   "header on first page does not split",
			pages:  pages("DELIVERY ORDER", "TRANSPORT ORDER"),
			ranges: [][2]int{{1, 1}, {2, 2}},
		},
		{
			name: "mixed packet",
			pages: pages(
				"Booking Confirmation",
				"Bill of Lading",
				"rider page",
				"Shipping Instruction",
				"Cargo Manifest",
				"manifest continued",
			),
			ranges: [][2]int{{1, 1}, {2, 3}, {4, 4}, {5, 6}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grouper.GroupPages(tt.pages)
			if len(got) != len(tt.ranges) {
				t.Fatalf("groups = %d, want %d", len(got), len(tt.ranges))
			}
			for i, g := range got {
				if g.StartPage != tt.ranges[i][0] || g.EndPage != tt.ranges[i][1] {
					t.Errorf("group %d = %d-%d, want %d-%d", i, g.StartPage, g.EndPage, tt.ranges[i][0], tt.ranges[i][1])
				}
				if len(g.Pages) != g.EndPage-g.StartPage+1 {
					t.Errorf("group %d has %d pages", i, len(g.Pages))
				}
			}
		})
	}
}

func TestGroupCombinedText(t *testing.T) {
	got := grouper.GroupPages(pages("BILL OF LADING\nNo. 1", "rider"))
	if len(got) != 1 {
		t.Fatalf("groups = %d, want 1", len(got))
	}
	if got[0].CombinedText != "BILL OF LADING\nNo. 1\n\nrider" {
		t.Errorf("CombinedText = %q", got[0].CombinedText)
	}
	if got[0].Header != "BILL OF LADING" {
		t.Errorf("Header = %q", got[0].Header)
	}
}
