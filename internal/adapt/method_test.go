package adapt

import (
	"errors"
	"strings"
	"testing"
)

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(m.String())
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", m, err)
		}
		if got != m {
			t.Errorf("ParseMethod(%q) = %v", m, got)
		}
	}

	for _, name := range []string{"", "Linear", "fourier", "bogus"} {
		_, err := ParseMethod(name)
		if !errors.Is(err, ErrInvalidMethod) {
			t.Errorf("ParseMethod(%q) error = %v, want ErrInvalidMethod", name, err)
			continue
		}
		if !strings.Contains(err.Error(), `"`+name+`"`) {
			t.Errorf("error %q does not name %q", err, name)
		}
	}
}

func TestMethod_String(t *testing.T) {
	tests := []struct {
		m    Method
		want string
	}{
		{LinearFourier, "linear_fourier"},
		{Method(42), "Method(42)"},
		{Method(-1), "Method(-1)"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("Method(%d).String() = %q, want %q", int(tt.m), got, tt.want)
		}
	}
}

func TestMethod_Subsampled(t *testing.T) {
	want := map[Method]bool{
		Linear:        false,
		LinearFourier: false,
		Gaussian:      true,
		Sinkhorn:      true,
		EMD:           true,
	}
	for m, sub := range want {
		if got := m.Subsampled(); got != sub {
			t.Errorf("%s.Subsampled() = %v, want %v", m, got, sub)
		}
	}
}
