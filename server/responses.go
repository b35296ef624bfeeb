package server

import (
	"encoding/json"
	"net/http"
)

// User facing messages. Upstream detail never reaches the caller.
const (
	msgNoSession      = "Brak aktywnej sesji"
	msgSessionInvalid = "Sesja wygasła lub jest nieprawidłowa"
	msgLoginRequired  = "Login i hasło są wymagane"
	msgLoginFailed    = "Nie udało się zalogować. Sprawdź dane i spróbuj ponownie."
	msgGradesFailed   = "Nie udało się pobrać ocen. Spróbuj ponownie później."
	msgAbsenceFailed  = "Nie udało się pobrać frekwencji. Spróbuj ponownie później."
	msgTimetableFail  = "Nie udało się pobrać planu lekcji. Spróbuj ponownie później."
	msgInternal       = "Wystąpił nieoczekiwany błąd serwera."
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}
