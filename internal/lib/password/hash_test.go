package password

import "testing"

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "typical password",
			password: "invoice2025",
		},
		{
			name:     "special characters",
			password: "Inv#42!$%&*(-_=+)",
		},
		{
			name:     "long passphrase",
			password: "the accountant keeps a very long passphrase for the billing account",
		},
		{
			name:     "short password",
			password: "abc",
		},
		{
			name:     "unicode password",
			password: "пароль-бухгалтера",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			if err != nil {
				t.Fatalf("GetHash() error = %v", err)
			}

			if hash == "" {
				t.Error("GetHash() returned empty hash")
			}

			if hash == tt.password {
				t.Error("GetHash() returned the password in plain text")
			}

			if err := CompareHash(hash, tt.password); err != nil {
				t.Errorf("hash does not verify against original password: %v", err)
			}
		})
	}
}

func TestCompareHash(t *testing.T) {
	ownerHash, err := GetHash("owner_password")
	if err != nil {
		t.Fatalf("failed to create test hash: %v", err)
	}

	adminHash, err := GetHash("admin_password")
	if err != nil {
		t.Fatalf("failed to create test hash: %v", err)
	}

	tests := []struct {
		name        string
		hash        string
		password    string
		shouldMatch bool
	}{
		{
			name:        "correct password",
			hash:        ownerHash,
			password:    "owner_password",
			shouldMatch: true,
		},
		{
			name:        "wrong password",
			hash:        ownerHash,
			password:    "guessed_password",
			shouldMatch: false,
		},
		{
			name:        "password of another user",
			hash:        adminHash,
			password:    "owner_password",
			shouldMatch: false,
		},
		{
			name:        "empty password",
			hash:        ownerHash,
			password:    "",
			shouldMatch: false,
		},
		{
			name:        "garbage instead of hash",
			hash:        "not-a-bcrypt-hash",
			password:    "owner_password",
			shouldMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(tt.hash, tt.password)

			if tt.shouldMatch && err != nil {
				t.Errorf("CompareHash() should succeed, got error: %v", err)
			}

			if !tt.shouldMatch && err == nil {
				t.Error("CompareHash() should fail, but got no error")
			}
		})
	}
}

func TestGetHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	first, err := GetHash("repeatable_password")
	if err != nil {
		t.Fatalf("GetHash failed: %v", err)
	}

	second, err := GetHash("repeatable_password")
	if err != nil {
		t.Fatalf("GetHash failed: %v", err)
	}

	// bcrypt использует случайную соль, хэши не должны совпадать
	if first == second {
		t.Error("two hashes of the same password are identical, salt is not applied")
	}
}
