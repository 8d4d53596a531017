package report

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDurationString(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"whole seconds", 10 * time.Second, "10 s"},
		{"fractional", 5500 * time.Millisecond, "5.5 s"},
		{"sub-millisecond rounds", 1234567 * time.Nanosecond, "0.001 s"},
		{"zero", 0, "0 s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Duration{Value: tt.d, Precision: DefaultPrecision}
			if got := d.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPercentString(t *testing.T) {
	tests := []struct {
		name     string
		num, den time.Duration
		want     string
	}{
		{"whole", 7 * time.Second, 10 * time.Second, "70 %"},
		{"repeating rounds", time.Second, 3 * time.Second, "33.333 %"},
		{"zero denominator", time.Second, 0, "0 %"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Percent{Numerator: tt.num, Denominator: tt.den, Precision: DefaultPrecision}
			if got := p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDurationJSON(t *testing.T) {
	data, err := json.Marshal(Duration{Value: 5500 * time.Millisecond, Precision: DefaultPrecision})
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if string(data) != `"5.5 s"` {
		t.Errorf("Marshal() = %s, want \"5.5 s\"", data)
	}
}

func TestFieldsOrderYAML(t *testing.T) {
	f := Fields{
		{Key: "zebra", Value: 1},
		{Key: "apple", Value: 2},
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	want := "zebra: 1\napple: 2\n"
	if string(data) != want {
		t.Errorf("Marshal() = %q, want %q", data, want)
	}
}

func TestFieldsOrderJSON(t *testing.T) {
	f := Fields{
		{Key: "zebra", Value: 1},
		{Key: "apple", Value: Fields{{Key: "nested", Value: "x"}}},
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	want := `{"zebra":1,"apple":{"nested":"x"}}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestFieldsGet(t *testing.T) {
	f := Fields{{Key: "a", Value: 1}}
	if v, ok := f.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v, want 1, true", v, ok)
	}
	if _, ok := f.Get("b"); ok {
		t.Error("Get(b) should report false")
	}
}
