package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const (
	msgTemplateNotFound = "Template not found"
	msgCollectFailed    = "Failed to collect data"
	msgInvalidBody      = "Invalid request body"
	msgNameRequired     = "Template name required"
	msgInternal         = "Internal server error"
)

var marshaler = &runtime.JSONBuiltin{}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, code int, v interface{}) {
	b, err := marshaler.Marshal(v)
	if err != nil {
		logger.Error("marshal response", zap.Error(err))
		code = http.StatusInternalServerError
		b = []byte(`{"error":"` + msgInternal + `"}`)
	}

	w.Header().Set("Content-Type", marshaler.ContentType(v))
	w.WriteHeader(code)
	w.Write(b)
}

func writeError(logger *zap.Logger, w http.ResponseWriter, code int, msg string) {
	writeJSON(logger, w, code, errorBody{Error: msg})
}

func (a *App) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	writeJSON(a.logger, w, code, v)
}

func (a *App) writeError(w http.ResponseWriter, code int, msg string) {
	writeError(a.logger, w, code, msg)
}

// decode reads one JSON value from body. Numbers stay json.Number so params
// keep their textual form in query strings.
func decode(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	return dec.Decode(v)
}
