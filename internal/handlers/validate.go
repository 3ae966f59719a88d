package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"promptpolish/internal/models"
)

// maxBodyBytes caps an optimize request body: MaxTextLen runes at the
// longest JSON escape (twelve bytes, a \uXXXX surrogate pair) plus room
// for the options.
const maxBodyBytes = 12*models.MaxTextLen + 16<<10

// errInvalidBody is reported for bodies that are not a JSON object.
var errInvalidBody = &models.ValidationError{Message: "Invalid request body"}

// decodeOptimizeRequest reads the raw optimize request from the body.
// Field-level validation is left to models.ParseRequest.
func decodeOptimizeRequest(w http.ResponseWriter, r *http.Request) (models.RawRequest, error) {
	var raw models.RawRequest

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return raw, &models.ValidationError{Message: models.TextTooLongMessage}
		}
		return raw, errInvalidBody
	}
	if dec.Decode(&struct{}{}) != io.EOF {
		return raw, errInvalidBody
	}
	return raw, nil
}
