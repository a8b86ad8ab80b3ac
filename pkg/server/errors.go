// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/serializer"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// HTTPStatusFromCode maps an error code to the HTTP status returned to clients.
func HTTPStatusFromCode(code fherrors.ErrorCode) int {
	switch code {
	case fherrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case fherrors.ErrCodeNotFound:
		return http.StatusNotFound
	case fherrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case fherrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case fherrors.ErrCodeUnreachable, fherrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case fherrors.ErrCodeTelemetryUnavailable:
		return http.StatusBadGateway
	case fherrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case fherrors.ErrCodeConfiguration, fherrors.ErrCodeDispatch, fherrors.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// retryableFromCode reports whether the caller may succeed by repeating the request.
func retryableFromCode(code fherrors.ErrorCode) bool {
	switch code {
	case fherrors.ErrCodeUnreachable,
		fherrors.ErrCodeTelemetryUnavailable,
		fherrors.ErrCodeTimeout,
		fherrors.ErrCodeUnavailable,
		fherrors.ErrCodeRateLimitExceeded:
		return true
	default:
		return false
	}
}

func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// WriteError writes an ErrorResponse carrying the request ID from the context.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code fherrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr writes err using its StructuredError code when present
// and ErrCodeInternal otherwise. A context deadline maps to ErrCodeTimeout.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, details map[string]any) {
	code := fherrors.CodeOf(err)
	message := err.Error()

	var se *fherrors.StructuredError
	if errors.As(err, &se) {
		message = se.Message
		details = mergeDetails(se.Context, details)
		if se.Cause != nil {
			details = mergeDetails(details, map[string]any{"cause": se.Cause.Error()})
		}
	}

	if code == "" {
		code = fherrors.ErrCodeInternal
		if errors.Is(err, context.DeadlineExceeded) {
			code = fherrors.ErrCodeTimeout
		}
	}

	WriteError(w, r, HTTPStatusFromCode(code), code, message, retryableFromCode(code), details)
}
