package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/veltapack/masterdata/modules/masterdata/presentation/controllers/dtos"
	"github.com/veltapack/masterdata/pkg/serrors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		panic(err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string, meta ...map[string]string) {
	payload := &dtos.APIError{
		Code:    code,
		Message: message,
	}
	if len(meta) > 0 && meta[0] != nil {
		payload.Meta = meta[0]
	}
	writeJSON(w, status, payload)
}

// respondError translates domain and infrastructure failures into the API
// error envelope. Coded errors carry their own code; anything unrecognized is
// a 500 without internals leaking into the response.
func respondError(w http.ResponseWriter, err error, notFound error) {
	if notFound != nil && errors.Is(err, notFound) {
		writeJSONError(w, http.StatusNotFound, "NOT_FOUND", notFound.Error())
		return
	}

	var coded *serrors.BaseError
	if errors.As(err, &coded) {
		switch coded.Code {
		case "DUPLICATE_KEY":
			writeJSONError(w, http.StatusConflict, coded.Code, coded.Message)
		case "ALLOCATION_EXHAUSTED":
			writeJSONError(w, http.StatusConflict, coded.Code, coded.Message)
		case "TENANT_RESOLUTION_FAILED":
			writeJSONError(w, http.StatusNotFound, coded.Code, coded.Message)
		case "PARTITION_BIND_FAILED":
			writeJSONError(w, http.StatusInternalServerError, coded.Code, coded.Message)
		default:
			writeJSONError(w, http.StatusInternalServerError, coded.Code, coded.Message)
		}
		return
	}

	writeJSONError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
}
