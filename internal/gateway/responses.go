package gateway

import (
	"encoding/json"
	"net/http"
)

// Fixed-shape terminal responses. External clients match these bodies
// byte-for-byte, so they are frozen here and written verbatim.

const (
	bodyNotAuthenticated = `{"code":"userNotAuthenticated","description":"User must authenticate in order to access this endpoint"}`
	bodyNotAuthorized    = `{"code":"userNotAuthorized","description":"User is not allowed to access this endpoint."}`
)

type codeDescription struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type codeMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	encoded, err := json.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, string(encoded))
}

// WriteNotAuthenticated answers a required-class request that carried no
// usable bearer header. 401.
func WriteNotAuthenticated(w http.ResponseWriter) {
	writeRaw(w, http.StatusUnauthorized, bodyNotAuthenticated)
}

// WriteExpiredToken answers a structurally valid but expired token. 401.
// message is the decoder's own message.
func WriteExpiredToken(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, codeMessage{
		Code:    "expired_token",
		Message: message,
	})
}

// WriteInvalidToken answers a malformed, tampered or otherwise unusable
// token. 403. description is the decoder's own message.
func WriteInvalidToken(w http.ResponseWriter, description string) {
	writeJSON(w, http.StatusForbidden, codeDescription{
		Code:        "invalid_token",
		Description: description,
	})
}

// WriteNotAuthorized answers a caller that the authorization gate rejected.
// 403.
func WriteNotAuthorized(w http.ResponseWriter) {
	writeRaw(w, http.StatusForbidden, bodyNotAuthorized)
}
