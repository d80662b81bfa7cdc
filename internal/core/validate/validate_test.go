package validate

import "testing"

func TestEmail(t *testing.T) {
	r := Email("  User@Example.COM ")
	if !r.OK {
		t.Fatalf("expected valid, got %v", r.Errors)
	}
	if r.Sanitized != "user@example.com" {
		t.Errorf("expected lowercased trim, got %v", r.Sanitized)
	}

	for _, bad := range []string{"", "plainaddress", "user@", "@example.com", "user@example"} {
		if Email(bad).OK {
			t.Errorf("expected %q rejected", bad)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := map[string]string{
		"0912345678":     "0912345678",
		"+84912345678":   "0912345678",
		"091 234 5678":   "0912345678",
		"091-234-5678":   "0912345678",
		" +84 912345678": "0912345678",
	}
	for in, want := range cases {
		r := Phone(in)
		if !r.OK {
			t.Errorf("expected %q valid, got %v", in, r.Errors)
			continue
		}
		if r.Sanitized != want {
			t.Errorf("Phone(%q) = %v, want %q", in, r.Sanitized, want)
		}
	}

	for _, bad := range []string{"", "12345", "0212345678", "+8491234567", "091234567890"} {
		if Phone(bad).OK {
			t.Errorf("expected %q rejected", bad)
		}
	}
}

func TestRequiredAndLength(t *testing.T) {
	if Required("   ").OK {
		t.Error("expected whitespace-only rejected")
	}
	r := Required("  hello  ")
	if !r.OK || r.Sanitized != "hello" {
		t.Errorf("expected trimmed hello, got %v", r.Sanitized)
	}

	if Length("ab", 3, 10).OK {
		t.Error("expected too-short rejected")
	}
	if !Length("  abc  ", 3, 10).OK {
		t.Error("expected trimmed in-range accepted")
	}
}

func TestURL(t *testing.T) {
	if !URL("https://example.com/path").OK {
		t.Error("expected https URL accepted")
	}
	for _, bad := range []string{"", "ftp://example.com", "example.com", "https://"} {
		if URL(bad).OK {
			t.Errorf("expected %q rejected", bad)
		}
	}
}

func TestSchemaValidate_SanitizedOnlyWhenAllValid(t *testing.T) {
	schema := Schema{
		"email": {RequiredRule(), EmailRule()},
		"name":  {RequiredRule(), LengthRule(2, 50)},
	}

	res := schema.Validate(map[string]any{
		"email": "User@Example.com",
		"name":  "",
	})
	if res.OK {
		t.Fatal("expected failure with empty name")
	}
	if res.Sanitized != nil {
		t.Error("partially valid input must not produce a sanitized object")
	}
	if len(res.FieldErrors["name"]) == 0 {
		t.Error("expected name error recorded")
	}
	if len(res.FieldErrors["email"]) != 0 {
		t.Errorf("expected no email error, got %v", res.FieldErrors["email"])
	}

	res = schema.Validate(map[string]any{
		"email": "User@Example.com",
		"name":  " Lan ",
	})
	if !res.OK {
		t.Fatalf("expected success, got %v", res.FieldErrors)
	}
	if res.Sanitized["email"] != "user@example.com" || res.Sanitized["name"] != "Lan" {
		t.Errorf("expected sanitized values, got %v", res.Sanitized)
	}
}

func TestSchemaValidate_RulesStopAtFirstFailure(t *testing.T) {
	schema := Schema{
		"email": {RequiredRule(), EmailRule()},
	}

	res := schema.Validate(map[string]any{"email": ""})
	if res.OK {
		t.Fatal("expected failure")
	}
	// Required fails first; Email must not add a second message
	if len(res.FieldErrors["email"]) != 1 {
		t.Errorf("expected single error, got %v", res.FieldErrors["email"])
	}
}

func TestArrayLengthRule(t *testing.T) {
	rule := ArrayLengthRule(1, 3)

	if rule([]any{}).OK {
		t.Error("expected empty list rejected")
	}
	if !rule([]any{1, 2}).OK {
		t.Error("expected in-range list accepted")
	}
	if rule([]any{1, 2, 3, 4}).OK {
		t.Error("expected oversized list rejected")
	}
	if rule("not a list").OK {
		t.Error("expected non-list rejected")
	}
}
