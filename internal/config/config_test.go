package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseTaxBrackets(t *testing.T) {
	brackets, err := ParseTaxBrackets("0-10000:0,10000-40000:0.10,40000-:0.20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(brackets) != 3 {
		t.Fatalf("expected 3 brackets, got %d", len(brackets))
	}

	if !brackets[0].Min.IsZero() || brackets[0].Max == nil || !brackets[0].Max.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("first bracket bounds wrong: %+v", brackets[0])
	}
	if !brackets[1].Rate.Equal(decimal.NewFromFloat(0.10)) {
		t.Errorf("second bracket rate wrong: %s", brackets[1].Rate)
	}
	if brackets[2].Max != nil {
		t.Errorf("top bracket should be unbounded")
	}
}

func TestParseTaxBracketsRejectsGaps(t *testing.T) {
	cases := []string{
		"",
		"0-10000:0,20000-40000:0.10",
		"0-:0,10000-:0.10",
		"0-10000",
		"10000-5000:0.10",
	}
	for _, c := range cases {
		if _, err := ParseTaxBrackets(c); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}

func TestParseStatutoryRules(t *testing.T) {
	rules, err := ParseStatutoryRules("social_security:0.062:10000,medicare:0.0145:-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}

	if rules[0].Name != "social_security" || rules[0].Cap == nil {
		t.Errorf("social security rule wrong: %+v", rules[0])
	}
	if !rules[0].Cap.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("social security cap wrong: %s", rules[0].Cap)
	}
	if rules[1].Cap != nil {
		t.Errorf("medicare should be uncapped")
	}

	if _, err := ParseStatutoryRules("broken:0.1"); err == nil {
		t.Error("expected error for malformed rule")
	}
}
