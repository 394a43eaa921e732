package coordsys

import "testing"

func TestRoundTrip(t *testing.T) {
	types := []Type{
		NotApplicable, RectangularCartesian, CylindricalPolar,
		SphericalPolar, ProlateSpheroidal, OblateSpheroidal, Fibre,
	}
	for _, typ := range types {
		s := typ.String()
		got, err := ParseType(s)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", s, err)
		}
		if got != typ {
			t.Errorf("round trip: got %v, want %v", got, typ)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := ParseType("NOT_A_TYPE"); err == nil {
		t.Error("expected error for unknown type name")
	}
}

func TestWithFocusRejectsNonSpheroidal(t *testing.T) {
	if _, err := WithFocus(RectangularCartesian, 1.0); err == nil {
		t.Error("expected error setting focus on rectangular Cartesian")
	}
}

func TestWithFocusRejectsNonPositive(t *testing.T) {
	if _, err := WithFocus(ProlateSpheroidal, 0); err == nil {
		t.Error("expected error for non-positive focus")
	}
	if _, err := WithFocus(ProlateSpheroidal, -1); err == nil {
		t.Error("expected error for negative focus")
	}
}

func TestWithFocusAccepted(t *testing.T) {
	s, err := WithFocus(ProlateSpheroidal, 2.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Focus != 2.5 || s.Type != ProlateSpheroidal {
		t.Errorf("got %+v", s)
	}
}

func TestNewRejectsSpheroidal(t *testing.T) {
	if _, err := New(OblateSpheroidal); err == nil {
		t.Error("expected error building spheroidal System without focus")
	}
}
