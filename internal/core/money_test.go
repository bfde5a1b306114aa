package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"0.5", 50, false},
		{"100", 10000, false},
		{"-5", -500, false},
		{"-0.01", -1, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"12e3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToCents(%q) expected error, got %d", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneyMarshalJSON(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{0, "0.00"},
		{-20000, "-200.00"},
		{5, "0.05"},
	}
	for _, tt := range tests {
		got, err := Money{Cents: tt.cents}.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%d): %v", tt.cents, err)
		}
		if string(got) != tt.want {
			t.Errorf("MarshalJSON(%d) = %s, want %s", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	var m Money
	if err := m.UnmarshalJSON([]byte(`"45.60"`)); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if m.Cents != 4560 {
		t.Errorf("quoted decimal = %d cents, want 4560", m.Cents)
	}
	if err := m.UnmarshalJSON([]byte(`100.5`)); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 10050 {
		t.Errorf("number = %d cents, want 10050", m.Cents)
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name  string
		part  int64
		whole int64
		want  float64
	}{
		{"exact", 4560, 10000, 45.6},
		{"over 100", 12000, 10000, 120},
		{"zero denominator guard", 500, 0, 0},
		{"negative denominator guard", 500, -100, 0},
		{"rounds to 2dp", 1, 3, 33.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentOf(Money{Cents: tt.part}, Money{Cents: tt.whole})
			if got != tt.want {
				t.Errorf("PercentOf(%d, %d) = %v, want %v", tt.part, tt.whole, got, tt.want)
			}
		})
	}
}
