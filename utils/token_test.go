package utils

import "testing"

func TestSessionToken_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateSessionToken(secret, "client-123")
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	clientID, err := ParseSessionToken(secret, token)
	if err != nil {
		t.Fatalf("ParseSessionToken() error = %v", err)
	}
	if clientID != "client-123" {
		t.Errorf("Expected client-123, got %s", clientID)
	}
}

func TestSessionToken_Rejects(t *testing.T) {
	token, err := GenerateSessionToken([]byte("secret-a"), "client-123")
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "wrong secret", secret: "secret-b", token: token},
		{name: "garbage", secret: "secret-a", token: "not-a-token"},
		{name: "empty", secret: "secret-a", token: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSessionToken([]byte(tt.secret), tt.token); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := GenerateSessionToken(nil, "client"); err == nil {
		t.Error("expected an error for an empty secret")
	}
}
