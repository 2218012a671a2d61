package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"linkcfg/pkg/codec"
)

// maxBodyBytes bounds request bodies; the largest accepted value is a short string.
const maxBodyBytes = 4096

func wantsCBOR(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), codec.ContentType)
}

// writeResponse encodes v as CBOR when the client asks for it and as JSON otherwise.
func writeResponse(w http.ResponseWriter, r *http.Request, status int, v any) {
	if wantsCBOR(r) {
		data, err := codec.Marshal(v)
		if err != nil {
			slog.Error("Failed to encode CBOR response", "error", err)
			http.Error(w, "encoding failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", codec.ContentType)
		w.WriteHeader(status)
		if _, err := w.Write(data); err != nil {
			slog.Error("Failed to write response", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeResponse(w, r, status, ErrorResponse{Error: msg})
}

// decodeBody reads a JSON or CBOR body depending on Content-Type.
func decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	defer func() { _ = r.Body.Close() }()

	if strings.HasPrefix(r.Header.Get("Content-Type"), codec.ContentType) {
		return codec.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}
