package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PagedEnvelope carries one page of results plus paging metadata.
type PagedEnvelope struct {
	Data        any   `json:"data"`
	TotalItems  int64 `json:"totalItems"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
