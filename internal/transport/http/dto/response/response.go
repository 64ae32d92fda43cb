package response

import (
	"errors"

	"tkphotos/internal/lib/validation"
)

type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorResponse struct {
	Status  string                 `json:"status"`
	Error   string                 `json:"error"`
	Details string                 `json:"details,omitempty"`
	Fields  validation.FieldErrors `json:"fields,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func ErrorResponseWithDetails(err, details string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   err,
		Details: details,
	}
}

// ValidationFailed renders field errors when err carries them.
func ValidationFailed(err error) ErrorResponse {
	resp := ErrorResponse{
		Status: "error",
		Error:  "validation_failed",
	}

	var verr *validation.Error
	if errors.As(validation.FromValidator(err), &verr) {
		resp.Fields = verr.Fields
	} else {
		resp.Details = err.Error()
	}
	return resp
}
