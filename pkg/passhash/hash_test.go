package passhash

import (
	"strings"
	"testing"
)

const testIters = 1000 // keep tests fast, production uses DefaultIterations

func TestHashVerify_RoundTrip(t *testing.T) {
	plaintexts := []string{"Abcdefg1@", "пароль123A@", "  spaces  ", "x"}

	for _, p := range plaintexts {
		enc, err := HashPasswordWithIters(p, testIters)
		if err != nil {
			t.Fatalf("hash %q: %v", p, err)
		}
		ok, err := VerifyPassword(p, enc)
		if err != nil {
			t.Fatalf("verify %q: %v", p, err)
		}
		if !ok {
			t.Fatalf("verify %q against its own hash returned false", p)
		}
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	enc, err := HashPasswordWithIters("CorrectHorse1@", testIters)
	if err != nil {
		t.Fatal(err)
	}
	ok, _ := VerifyPassword("WrongHorse1@", enc)
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHash_RandomSalt(t *testing.T) {
	a, err := HashPasswordWithIters("same input", testIters)
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPasswordWithIters("same input", testIters)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two hashes of the same input must differ (random salt)")
	}
}

func TestVerify_MalformedEncodings(t *testing.T) {
	bad := []string{
		"",
		"not-a-hash",
		"pbkdf2_sha256$",
		"pbkdf2_sha256$abc$def",
		"pbkdf2_sha256$0$c2FsdA$a2V5",
		"pbkdf2_sha256$1000$!!$a2V5",
	}
	for _, enc := range bad {
		ok, err := VerifyPassword("whatever", enc)
		if ok {
			t.Fatalf("malformed hash %q verified", enc)
		}
		if err == nil {
			t.Fatalf("malformed hash %q returned no error", enc)
		}
	}
}

func TestHash_EncodingShape(t *testing.T) {
	enc, err := HashPasswordWithIters("Abcdefg1@", testIters)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(enc, "pbkdf2_sha256$1000$") {
		t.Fatalf("unexpected encoding: %s", enc)
	}
	if got := len(strings.Split(enc, "$")); got != 4 {
		t.Fatalf("expected 4 segments, got %d", got)
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for b.Loop() {
		_, _ = HashPasswordWithIters("Abcdefg1@", testIters)
	}
}
