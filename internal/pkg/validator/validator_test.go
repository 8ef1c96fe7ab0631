package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // valid UUIDv7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // valid UUIDv7 (uppercase)
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"123E4567-E89B-12D3-A456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",                                     // empty
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidLatitude(t *testing.T) {
	valid := []float64{0, -6.175392, 90, -90, 45.5}
	invalid := []float64{90.1, -90.1, 180}
	for _, lat := range valid {
		if !IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%f) = false, want true", lat)
		}
	}
	for _, lat := range invalid {
		if IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%f) = true, want false", lat)
		}
	}
}

func TestIsValidLongitude(t *testing.T) {
	valid := []float64{0, 106.827153, 180, -180}
	invalid := []float64{180.1, -180.1, 360}
	for _, lon := range valid {
		if !IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%f) = false, want true", lon)
		}
	}
	for _, lon := range invalid {
		if IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%f) = true, want false", lon)
		}
	}
}

func TestIsValidStaffCode(t *testing.T) {
	valid := []string{"EMP001", "EMP123456"}
	invalid := []string{"EMP12", "emp001", "EMP1234567", "STF001", "EMP12a", ""}
	for _, code := range valid {
		if !IsValidStaffCode(code) {
			t.Errorf("IsValidStaffCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidStaffCode(code) {
			t.Errorf("IsValidStaffCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidPeriod(t *testing.T) {
	valid := []string{"2026-01", "2000-12"}
	invalid := []string{"2026-13", "2026-1", "2026/01", "2026-01-01", ""}
	for _, s := range valid {
		if _, ok := IsValidPeriod(s); !ok {
			t.Errorf("IsValidPeriod(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidPeriod(s); ok {
			t.Errorf("IsValidPeriod(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "reason", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; reason: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "reason", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"email": "invalid", "reason": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
