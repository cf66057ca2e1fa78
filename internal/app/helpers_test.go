package app

import (
	"encoding/json"
	"net/http"
	"testing"

	"mindease-chat/internal/pkg/jwtutil"
)

func jsonDecode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func sessionIDFromToken(t *testing.T, token string) string {
	t.Helper()
	claims, err := jwtutil.ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	return claims.ID
}
