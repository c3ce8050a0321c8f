package auth

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "" || hash == "hunter2" {
		t.Fatalf("hash = %q", hash)
	}

	if err := CheckPassword(hash, "hunter2"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword(hash, "hunter3"); err == nil {
		t.Error("wrong password accepted")
	}
	if err := CheckPassword(hash, ""); err == nil {
		t.Error("empty password accepted")
	}
}

func TestPasswordHashSalted(t *testing.T) {
	h1, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestCheckPasswordInvalidHash(t *testing.T) {
	if err := CheckPassword("not-a-bcrypt-hash", "hunter2"); err == nil {
		t.Error("want error for garbage hash")
	}
}
