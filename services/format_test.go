package services

import "testing"

func TestFormatMoney_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "$0.00"},
		{"small integer", 5, "$5.00"},
		{"with decimals", 42.50, "$42.50"},
		{"hundreds", 999.99, "$999.99"},
		{"thousands", 1234.56, "$1,234.56"},
		{"ten thousands", 12345.00, "$12,345.00"},
		{"hundred thousands", 123456.78, "$123,456.78"},
		{"millions", 1234567.89, "$1,234,567.89"},
		{"rounds half cent", 153.846, "$153.85"},
		{"negative small", -100.00, "-$100.00"},
		{"negative thousands", -250000.50, "-$250,000.50"},
		{"negative rounds to zero", -0.001, "$0.00"},
		{"exact thousands boundary", 1000, "$1,000.00"},
		{"exact million boundary", 1000000, "$1,000,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMoney(tt.input)
			if got != tt.expect {
				t.Errorf("FormatMoney(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestApplyThousandsGrouping(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"5", "5"},
		{"42", "42"},
		{"999", "999"},
		{"1234", "1,234"},
		{"12345", "12,345"},
		{"123456", "123,456"},
		{"1234567", "1,234,567"},
		{"1234567890", "1,234,567,890"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := applyThousandsGrouping(tt.input)
			if got != tt.expect {
				t.Errorf("applyThousandsGrouping(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{10, "10"},
		{0, "0"},
		{2.5, "2.50"},
		{1.333, "1.33"},
	}
	for _, tt := range tests {
		if got := FormatQty(tt.input); got != tt.want {
			t.Errorf("FormatQty(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(75); got != "75.0%" {
		t.Errorf("FormatPercent(75) = %q", got)
	}
	if got := FormatPercent(33.333); got != "33.3%" {
		t.Errorf("FormatPercent(33.333) = %q", got)
	}
}
