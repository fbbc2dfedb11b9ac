package utils

import "testing"

func TestExtractDistrict(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"typical address", "123 Galle Rd, Colombo District, Western Province", "Colombo"},
		{"case insensitive", "45 Main St, KANDY district, Central Province", "KANDY"},
		{"multi word district", "7 Temple Rd, Nuwara Eliya District, Central Province", "Nuwara Eliya"},
		{"no district segment", "123 Galle Rd, Western Province", ""},
		{"district without trailing comma", "Main St, Colombo District", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDistrict(tt.address); got != tt.want {
				t.Errorf("ExtractDistrict(%q) = %q, want %q", tt.address, got, tt.want)
			}
		})
	}
}
