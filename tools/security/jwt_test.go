package security

import (
	"context"
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	secret := []byte("test-secret")
	token, exp, err := Generate(DefaultOptions(secret), "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry in the past: %s", exp)
	}

	user, err := Validator(secret)(context.Background(), token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if user == nil || user.ID != "alice" {
		t.Fatalf("user = %+v", user)
	}
}

func TestValidatorRejectsBadTokens(t *testing.T) {
	secret := []byte("test-secret")
	validate := Validator(secret)

	for name, token := range map[string]string{
		"garbage": "not-a-jwt",
		"empty":   "",
	} {
		user, err := validate(context.Background(), token)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if user != nil {
			t.Fatalf("%s: token accepted", name)
		}
	}
}

func TestValidatorRejectsWrongKey(t *testing.T) {
	token, _, err := Generate(DefaultOptions([]byte("key-a")), "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	user, err := Validator([]byte("key-b"))(context.Background(), token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if user != nil {
		t.Fatal("token signed with another key was accepted")
	}
}

func TestValidatorRejectsExpired(t *testing.T) {
	opts := DefaultOptions([]byte("test-secret"))
	opts.TTL = -time.Minute
	token, _, err := Generate(opts, "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	user, err := Validator(opts.Secret)(context.Background(), token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if user != nil {
		t.Fatal("expired token was accepted")
	}
}

func TestGenerateUnsupportedAlg(t *testing.T) {
	opts := DefaultOptions([]byte("k"))
	opts.Alg = "RS256"
	if _, _, err := Generate(opts, "alice"); err == nil {
		t.Fatal("expected an error for an unsupported alg")
	}
}
