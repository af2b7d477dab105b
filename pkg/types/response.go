package types

// SuccessEnvelope is the wire shape of every successful API response.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError carries the machine code, human message and optional structured
// details of a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the wire shape of every failed API response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
