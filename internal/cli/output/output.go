// Package output writes the JSON envelopes emitted with --json.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/panel"
)

const SchemaVersion = "1.0.0"

// Error codes reported in ErrorBody.Code.
const (
	CodeUnknown       = "unknown"
	CodeCommandFailed = "command_failed"
	CodeInvalidArgs   = "invalid_args"
	CodeUnknownPanel  = "unknown_panel"
	CodeUnsupported   = "unsupported"
	CodeGroupTooSmall = "group_too_small"
)

type Meta struct {
	Command       string    `json:"command"`
	SchemaVersion string    `json:"schema_version"`
	Version       string    `json:"version,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
	DurationMS    float64   `json:"duration_ms,omitempty"`
	TS            time.Time `json:"ts"`
}

type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Ok    bool      `json:"ok"`
	Error ErrorBody `json:"error"`
	Meta  Meta      `json:"meta"`
}

type SuccessEnvelope struct {
	Ok   bool `json:"ok"`
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

func NewMeta(command, version string) Meta {
	return Meta{
		Command:       command,
		SchemaVersion: SchemaVersion,
		Version:       version,
		RequestID:     uuid.NewString(),
		TS:            time.Now().UTC(),
	}
}

func WithDuration(meta Meta, start time.Time) Meta {
	meta.DurationMS = float64(time.Since(start).Milliseconds())
	return meta
}

// ErrorCode maps known sentinel errors to a stable code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, panel.ErrUnknownPanel):
		return CodeUnknownPanel
	case errors.Is(err, panel.ErrUnsupported):
		return CodeUnsupported
	case errors.Is(err, layout.ErrGroupTooSmall):
		return CodeGroupTooSmall
	default:
		return CodeCommandFailed
	}
}

func WriteSuccess(w io.Writer, meta Meta, data any) error {
	return writeJSON(w, SuccessEnvelope{Ok: true, Data: data, Meta: meta})
}

func WriteError(w io.Writer, meta Meta, code, message string, details map[string]any) error {
	if code == "" {
		code = CodeUnknown
	}
	if message == "" {
		message = "unknown error"
	}
	return writeJSON(w, ErrorEnvelope{
		Ok: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: meta,
	})
}

func writeJSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
