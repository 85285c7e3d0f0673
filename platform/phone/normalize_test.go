package phone

import "testing"

func TestNormalizeE164_ValidInternational(t *testing.T) {
	got := NormalizeE164("+52 1 555 123 4567")
	if got != "+5215551234567" {
		t.Fatalf("expected +5215551234567, got %q", got)
	}
}

func TestNormalizeE164_BareGatewayNumber(t *testing.T) {
	// The gateway sends sender IDs without a plus sign.
	got := NormalizeE164("5215551234567")
	if got != "+5215551234567" {
		t.Fatalf("expected +5215551234567, got %q", got)
	}
}

func TestNormalizeE164_NationalNumberGetsCountryCode(t *testing.T) {
	got := NormalizeE164("555-123-4567")
	if got != "+525551234567" {
		t.Fatalf("expected +525551234567, got %q", got)
	}
}

func TestNormalizeE164_Empty(t *testing.T) {
	if got := NormalizeE164("   "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestDigits(t *testing.T) {
	if got := Digits("+52 (55) 5123-4567"); got != "525551234567" {
		t.Fatalf("expected 525551234567, got %q", got)
	}
}

func TestWireFormat_StripsPlus(t *testing.T) {
	if got := WireFormat("+5215551234567"); got != "5215551234567" {
		t.Fatalf("expected 5215551234567, got %q", got)
	}
}
