package diagram

import (
	"testing"

	"github.com/matzehuels/archviz/pkg/errors"
)

func TestParseLineStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    LineStyle
		wantErr bool
	}{
		{"", Solid, false},
		{"solid", Solid, false},
		{"Dashed", Dashed, false},
		{" dotted ", Dotted, false},
		{"wavy", Solid, true},
	}
	for _, tt := range tests {
		got, err := ParseLineStyle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLineStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidStyle) {
			t.Errorf("ParseLineStyle(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseLineStyle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseArrow(t *testing.T) {
	tests := []struct {
		in      string
		want    Arrow
		wantErr bool
	}{
		{"", ArrowForward, false},
		{"forward", ArrowForward, false},
		{"none", ArrowNone, false},
		{"both", ArrowBoth, false},
		{"bidirectional", ArrowBoth, false},
		{"backward", ArrowForward, true},
	}
	for _, tt := range tests {
		got, err := ParseArrow(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseArrow(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseArrow(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", DirectionDefault, false},
		{"TB", TopToBottom, false},
		{"lr", LeftToRight, false},
		{"left-to-right", LeftToRight, false},
		{"BT", DirectionDefault, true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []LineStyle{Solid, Dashed, Dotted} {
		got, err := ParseLineStyle(s.String())
		if err != nil || got != s {
			t.Errorf("ParseLineStyle(%q) = %v, %v", s.String(), got, err)
		}
	}
	for _, a := range []Arrow{ArrowForward, ArrowNone, ArrowBoth} {
		got, err := ParseArrow(a.String())
		if err != nil || got != a {
			t.Errorf("ParseArrow(%q) = %v, %v", a.String(), got, err)
		}
	}
}

func TestValidateEdgeColor(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"red", false},
		{"DarkGreen", false},
		{"#abc", false},
		{"#A1B2C3", false},
		{"#12345", true},
		{"#ggg", true},
		{"rgb(1,2,3)", true},
		{`#f00" onmouseover="alert(1)`, true},
		{"red blue", true},
	}
	for _, tt := range tests {
		err := ValidateEdgeColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEdgeColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidStyle) {
			t.Errorf("ValidateEdgeColor(%q) code = %s, want INVALID_STYLE", tt.in, errors.GetCode(err))
		}
	}
}
