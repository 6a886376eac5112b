package credential

import "testing"

func TestValidEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"driver.one+test@mail.example.org", true},
		{"not-an-email", false},
		{"", false},
		{"@b.com", false},
		{"a@b", false}, // no dot in the domain
		{"a@.com", false},
		{"a b@c.com", false},
	}

	for _, c := range cases {
		if got := ValidEmail(c.in); got != c.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestValidPassword(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Abcdefg1@", true},
		{"abcdefg1", false}, // no uppercase, no symbol
		{"Ab1@", false},     // too short
		{"ABCDEFG1@", false}, // no lowercase
		{"Abcdefgh@", false}, // no digit
		{"Abcdefg12", false}, // no symbol
		{"Abcdefg1!", false}, // symbol outside the allowed set
		{"longEnough9=extra chars ok", true},
		{"ЖЖ@aA1", false},   // six characters over eight bytes: still too short
		{"ЖЖЖЖ@aA1", true},  // eight characters, all classes present
		{"", false},
	}

	for _, c := range cases {
		if got := ValidPassword(c.in); got != c.want {
			t.Errorf("ValidPassword(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestValidPassword_Stateless(t *testing.T) {
	// The UI re-evaluates the policy on every keystroke; repeated calls must
	// agree with themselves.
	for i := 0; i < 100; i++ {
		if !ValidPassword("Abcdefg1@") {
			t.Fatal("repeated evaluation changed the result")
		}
		if ValidPassword("abcdefg1") {
			t.Fatal("repeated evaluation changed the result")
		}
	}
}
