package normalizer

import "testing"

func TestNormalizeParty(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		normalized string
		entityType EntityType
	}{
		{"llc suffix", "Smith Oil, LLC", "SMITH OIL", EntityLLC},
		{"dotted llc suffix", "Acme Energy L.L.C.", "ACME ENERGY", EntityLLC},
		{"inc suffix", "Acme Energy, Inc.", "ACME ENERGY", EntityCorporation},
		{"lp suffix", "Jones Partners, L.P.", "JONES PARTNERS", EntityLimitedPartnership},
		{"et ux suffix", "SMITH, JOHN ET UX", "SMITH JOHN", EntityIndividual},
		{"et al suffix", "Brown, Robert, et al.", "BROWN ROBERT", EntityIndividual},
		{"trust kept in name", "The Smith Family Trust", "THE SMITH FAMILY TRUST", EntityTrust},
		{"estate kept in name", "Estate of John Smith", "ESTATE OF JOHN SMITH", EntityEstate},
		{"personal name", "JONES, MARY", "JONES MARY", EntityIndividual},
		{"company suffix", "Western Drilling Co.", "WESTERN DRILLING", EntityCompany},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeParty(tt.input)
			if got.NormalizedName != tt.normalized {
				t.Errorf("NormalizedName = %q, want %q", got.NormalizedName, tt.normalized)
			}
			if got.EntityType != tt.entityType {
				t.Errorf("EntityType = %q, want %q", got.EntityType, tt.entityType)
			}
		})
	}
}

func TestNormalizeParty_PreservesOriginal(t *testing.T) {
	got := NormalizeParty("Smith Oil, LLC")
	if got.OriginalName != "Smith Oil, LLC" {
		t.Errorf("OriginalName = %q, want the input unchanged", got.OriginalName)
	}
}

func TestNormalizeParty_EmptyName(t *testing.T) {
	got := NormalizeParty("")
	if got.NormalizedName != "" {
		t.Errorf("NormalizedName = %q, want empty", got.NormalizedName)
	}
	if got.OriginalName != "" {
		t.Errorf("OriginalName = %q, want empty", got.OriginalName)
	}
	if got.EntityType != EntityUnknown {
		t.Errorf("EntityType = %q, want unknown", got.EntityType)
	}
}

func TestNormalizeParty_PunctuationRemoved(t *testing.T) {
	got := NormalizeParty("O'Brien & Associates, LLC")
	for _, c := range []string{"'", "&", ","} {
		if contains(got.NormalizedName, c) {
			t.Errorf("NormalizedName %q still contains %q", got.NormalizedName, c)
		}
	}
}

func TestNormalizeParty_StrayInitialsDropped(t *testing.T) {
	got := NormalizeParty("Smith, John Q.")
	if got.NormalizedName != "SMITH JOHN" {
		t.Errorf("NormalizedName = %q, want SMITH JOHN", got.NormalizedName)
	}
}

func TestNormalizeParty_DiacriticsFolded(t *testing.T) {
	got := NormalizeParty("Peña Energy, LLC")
	if got.NormalizedName != "PENA ENERGY" {
		t.Errorf("NormalizedName = %q, want PENA ENERGY", got.NormalizedName)
	}
}

func TestNormalizeParty_Idempotent(t *testing.T) {
	inputs := []string{
		"Smith Oil, LLC",
		"Brown, Robert, et al.",
		"The Smith Family Trust",
		"Acme Energy, Inc.",
	}
	for _, in := range inputs {
		once := NormalizeParty(in)
		twice := NormalizeParty(once.NormalizedName)
		if twice.NormalizedName != once.NormalizedName {
			t.Errorf("normalize(%q): second pass changed %q to %q",
				in, once.NormalizedName, twice.NormalizedName)
		}
	}
}

func TestNormalizeParty_VariantsConverge(t *testing.T) {
	// Different renderings of the same entity must normalize identically.
	variants := []string{
		"Smith Oil, LLC",
		"SMITH OIL LLC",
		"Smith Oil, L.L.C.",
		"smith oil, llc",
	}
	want := "SMITH OIL"
	for _, v := range variants {
		if got := NormalizeParty(v).NormalizedName; got != want {
			t.Errorf("NormalizeParty(%q).NormalizedName = %q, want %q", v, got, want)
		}
	}
}

func TestDetectEntityType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want EntityType
	}{
		{"llc", "SMITH OIL, LLC", EntityLLC},
		{"dotted llc", "ACME L.L.C.", EntityLLC},
		{"corp", "ACME CORP", EntityCorporation},
		{"incorporated", "SMITH INCORPORATED", EntityCorporation},
		{"inc with comma", "JONES, INC.", EntityCorporation},
		{"lp", "SMITH PARTNERS, LP", EntityLimitedPartnership},
		{"dotted lp", "JONES L.P.", EntityLimitedPartnership},
		{"spelled out partnership", "SMITH LIMITED PARTNERSHIP", EntityLimitedPartnership},
		{"bare co", "WESTERN DRILLING CO.", EntityCompany},
		{"trust", "SMITH FAMILY TRUST", EntityTrust},
		{"estate", "ESTATE OF JOHN DOE", EntityEstate},
		{"et ux", "SMITH, JOHN ET UX", EntityIndividual},
		{"plain personal name", "JONES, MARY", EntityIndividual},
		{"unknown", "SOMETHING WITH MANY MANY EXTRA TRAILING WORDS 42", EntityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectEntityType(tt.text); got != tt.want {
				t.Errorf("DetectEntityType(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
