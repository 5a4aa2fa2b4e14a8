// Package httputil writes JSON and {code, msg, data} envelope responses.
package httputil

import (
	"encoding/json"
	"net/http"
)

// ContentTypeJSON is the Content-Type of every response written here.
const ContentTypeJSON = "application/json;charset=UTF-8"

// Envelope is the wire form of a backend response.
type Envelope struct {
	Code any    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteEnvelope writes env with HTTP status 200. Application status lives in
// the envelope code, not in the transport status.
func WriteEnvelope(w http.ResponseWriter, env Envelope) {
	WriteJSON(w, http.StatusOK, env)
}

// WriteSuccess writes {code: 200, msg: "success", data}.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteEnvelope(w, Envelope{Code: http.StatusOK, Msg: "success", Data: data})
}

// WriteCode writes an envelope carrying an application code and message.
func WriteCode(w http.ResponseWriter, code any, msg string) {
	WriteEnvelope(w, Envelope{Code: code, Msg: msg})
}

// WriteNotFound writes a 404 transport response with a 404 envelope.
func WriteNotFound(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusNotFound, Envelope{Code: http.StatusNotFound, Msg: msg})
}

// WriteInternalError writes a 500 transport response with a 500 envelope.
func WriteInternalError(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusInternalServerError, Envelope{Code: http.StatusInternalServerError, Msg: msg})
}

// WriteBadRequest writes a 400 transport response with a 400 envelope.
func WriteBadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, Envelope{Code: http.StatusBadRequest, Msg: msg})
}
