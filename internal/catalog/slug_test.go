package catalog

import "testing"

func TestStateName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"tamil-nadu":        "Tamil Nadu",
		"kerala":            "Kerala",
		"uttar-pradesh":     "Uttar Pradesh",
		"jammu-kashmir":     "Jammu Kashmir",
		"west-bengal":       "West Bengal",
		"  goa ":            "Goa",
		"":                  "",
		"andhra-pradesh":    "Andhra Pradesh",
		"arunachal-pradesh": "Arunachal Pradesh",
	}
	for slug, want := range tests {
		if got := StateName(slug); got != want {
			t.Errorf("StateName(%q) = %q, want %q", slug, got, want)
		}
	}
}

func TestStateSlugRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Tamil Nadu", "Uttar Pradesh", "Goa", "Madhya Pradesh"} {
		slug := StateSlug(name)
		if got := StateName(slug); got != name {
			t.Errorf("StateName(StateSlug(%q)) = %q via %q", name, got, slug)
		}
	}
	if got := StateSlug("  Himachal   Pradesh "); got != "himachal-pradesh" {
		t.Errorf("unexpected slug %q", got)
	}
}
