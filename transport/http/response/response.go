package response

import (
	"encoding/json"
	"net/http"
	"todolist/shared/constant"
	"todolist/shared/failure"
	"todolist/shared/logger"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Message: &message})
}

// WithJSON sends a response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, Data[any]{Data: &jsonPayload})
}

// WithRaw sends the payload without the data envelope.
func WithRaw(writer http.ResponseWriter, code int, payload any) {
	writer.Header().Set("Cache-Control", "no-store")
	response(writer, code, payload)
}

// WithNoContent sends an empty 204 response.
func WithNoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// WithError sends a response with an error message. Errors that are not a
// failure.Failure are logged and answered with a generic message.
func WithError(writer http.ResponseWriter, err error) {
	if !failure.IsFailure(err) {
		logger.ErrorWithStack(err)

		errMsg := constant.ResponseErrorInternal
		response(writer, http.StatusInternalServerError, Error{Error: &errMsg})

		return
	}

	code := failure.GetCode(err)
	errMsg := err.Error()

	if code == http.StatusUnauthorized {
		writer.Header().Set(constant.RequestHeaderWWWAuth, "Bearer")
	}

	response(writer, code, Error{Error: &errMsg})
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
