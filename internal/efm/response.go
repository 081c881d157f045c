// Package efm is an HTTP client for the e-file proxy server that fronts
// Tyler EFM. The proxy speaks JSON whose payloads mirror JAXB-serialized
// NIEM XML; this package moves those payloads, and internal/xmljson makes
// sense of them.
package efm

import (
	"fmt"

	"github.com/openefiling/efmkit/internal/xmljson"
)

// Response carries the essentials of one proxy call. It is always a plain
// value: transport failures become a Response with a negative code and an
// error message, never a Go error, so callers downstream can treat every
// call uniformly.
type Response struct {
	ResponseCode int    `json:"response_code" yaml:"response_code"`
	ErrorMsg     string `json:"error_msg,omitempty" yaml:"error_msg,omitempty"`
	Data         any    `json:"data,omitempty" yaml:"data,omitempty"`
	SessionID    string `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	ReqID        string `json:"req_id,omitempty" yaml:"req_id,omitempty"`
}

// IsOk reports whether the proxy considered the call successful. 203 means
// the proxy answered but the court's case-management system connection is
// degraded; the data is still usable.
func (r Response) IsOk() bool {
	return r.ResponseCode >= 200 && r.ResponseCode <= 205
}

func (r Response) String() string {
	msg := fmt.Sprintf("response_code: %d", r.ResponseCode)
	if r.ErrorMsg != "" {
		msg += fmt.Sprintf(", error_msg: %s", r.ErrorMsg)
	}
	msg += fmt.Sprintf(", data: %v", r.Data)
	if r.SessionID != "" {
		msg += fmt.Sprintf(", session_id: %s", r.SessionID)
	}
	if r.ReqID != "" {
		msg += fmt.Sprintf(", req_id: %s", r.ReqID)
	}
	return msg
}

// errResponse wraps a client-side failure as a user-visible Response.
func errResponse(msg string) Response {
	return Response{ResponseCode: -1, ErrorMsg: msg}
}

// DebugDisplay renders a response for a troubleshooting screen: the error
// message when the call failed (with the status code when debug is on), a
// short all-clear when it succeeded with no body, and otherwise the data as
// a readable outline.
func DebugDisplay(resp Response, debug bool) string {
	if resp.IsOk() && resp.Data == nil {
		return "All ok!"
	}
	if !resp.IsOk() {
		out := resp.ErrorMsg
		if debug {
			out += fmt.Sprintf("\nResponse Code: %d", resp.ResponseCode)
		}
		return out
	}
	return xmljson.PrettyDisplay(resp.Data, 0, true, "")
}
