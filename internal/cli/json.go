package cli

import (
	"encoding/json"
	"errors"
	"os"
)

// jsonOutput is set by the global --json flag.
var jsonOutput bool

// Response is the envelope every --json command prints.
type Response struct {
	OK       bool       `json:"ok"`
	Data     any        `json:"data,omitempty"`
	Error    *ErrorInfo `json:"error,omitempty"`
	Warnings []Warning  `json:"warnings,omitempty"`
	Meta     *Meta      `json:"meta,omitempty"`
}

// ErrorInfo describes a failed command. Code is one of the Err* constants.
type ErrorInfo struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning is a problem that did not stop the command.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

// Meta holds counts for list-like results.
type Meta struct {
	Count int `json:"count"`
}

func isJSONOutput() bool {
	return jsonOutput
}

func outputJSON(resp Response) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

func outputSuccess(data any, meta *Meta) {
	outputJSON(Response{OK: true, Data: data, Meta: meta})
}

func outputSuccessWithWarnings(data any, warnings []Warning, meta *Meta) {
	outputJSON(Response{OK: true, Data: data, Warnings: warnings, Meta: meta})
}

func outputErrorFromErr(code string, err error, suggestion string) {
	outputJSON(Response{Error: &ErrorInfo{Code: code, Message: err.Error(), Suggestion: suggestion}})
}

// handleError reports err. In JSON mode the error is printed as an envelope
// and nil is returned so cobra does not print it again.
func handleError(code string, err error, suggestion string) error {
	if jsonOutput {
		outputErrorFromErr(code, err, suggestion)
		return nil
	}
	return err
}

// handleErrorMsg is handleError for a plain message.
func handleErrorMsg(code, message, suggestion string) error {
	return handleError(code, errors.New(message), suggestion)
}
