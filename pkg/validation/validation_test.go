package validation_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/JaimeStill/lading/pkg/validation"
)

func TestContainerFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid shape", "MSKU1234565", true},
		{"lowercase owner code", "msku1234565", false},
		{"too few digits", "MSKU123456", false},
		{"too many digits", "MSKU12345678", false},
		{"digit in owner code", "MS1U1234565", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validation.ContainerFormat(tt.input); got != tt.want {
				t.Errorf("ContainerFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestContainerCheckDigit(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"OOLU3703895", 5},
		{"MAEU1234567", 7},
		{"CSQU3054383", 3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := validation.ContainerCheckDigit(tt.input)
			if err != nil {
				t.Fatalf("ContainerCheckDigit error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ContainerCheckDigit(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}

	t.Run("malformed input", func(t *testing.T) {
		_, err := validation.ContainerCheckDigit("OOLU37038")
		if !errors.Is(err, validation.ErrContainerFormat) {
			t.Errorf("error = %v, want ErrContainerFormat", err)
		}
	})
}

func TestContainerChecksum(t *testing.T) {
	t.Run("known valid number", func(t *testing.T) {
		if !validation.ContainerChecksum("OOLU3703895") {
			t.Error("OOLU3703895 should pass checksum")
		}
	})

	t.Run("mutating the check digit invalidates", func(t *testing.T) {
		base := "OOLU3703895"
		for delta := 1; delta <= 9; delta++ {
			last := (int(base[10]-'0') + delta) % 10
			mutated := base[:10] + string(rune('0'+last))
			if validation.ContainerChecksum(mutated) {
				t.Errorf("ContainerChecksum(%q) = true, want false", mutated)
			}
		}
	})

	t.Run("remainder ten maps to zero", func(t *testing.T) {
		if !validation.ContainerChecksum("MSKU1000090") {
			t.Error("MSKU1000090 should pass checksum")
		}
		if validation.ContainerChecksum("MSKU1000091") {
			t.Error("MSKU1000091 should fail checksum")
		}
	})

	t.Run("format failure", func(t *testing.T) {
		if validation.ContainerChecksum("OOLU370389") {
			t.Error("short number should fail checksum")
		}
	})
}

func TestExtractContainerNumbers(t *testing.T) {
	text := `Containers: OOLU3703895, OOLU3703896 (typo)
	Repeat OOLU3703895 and CSQU3054383 loaded; seal SL1234567.`

	got := validation.ExtractContainerNumbers(text)
	want := []string{"OOLU3703895", "CSQU3054383"}

	if !slices.Equal(got, want) {
		t.Errorf("ExtractContainerNumbers = %v, want %v", got, want)
	}

	if got := validation.ExtractContainerNumbers("no containers here"); len(got) != 0 {
		t.Errorf("ExtractContainerNumbers = %v, want empty", got)
	}
}

func TestUNLocode(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"NLRTM", true},
		{"SGSIN", true},
		{"US2NY", true},
		{"nlrtm", false},
		{"NLRT", false},
		{"1LRTM", false},
		{"NL-RTM", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := validation.UNLocode(tt.input); got != tt.want {
				t.Errorf("UNLocode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestISODate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2024-10-21", true},
		{"2024-10-21T08:30:00Z", true},
		{"2024-10-21T08:30:00", true},
		{"2024-10-21T10:00", true},
		{"2024-10-21 10:00", true},
		{"2024-10-21 10:00:30", true},
		{"2024-10-21T10:00+02:00", true},
		{"2024-10-21T25:00", false},
		{"2024-10-21 morning", false},
		{"2024-02-30", false},
		{"21/10/2024", false},
		{"2024-1-5", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := validation.ISODate(tt.input); got != tt.want {
				t.Errorf("ISODate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
