package helpers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Validator lets request body types report their own validation errors.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the JSON request body into dest and, when dest
// implements Validator, runs its validation. On failure it writes a 400
// response and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}
