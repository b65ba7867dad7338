// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"fmt"

	apperrors "forcecursor/cli/internal/errors"
)

// PresentError formats an error for user display with masking. Remote
// failures get a one-line hint about what to do next.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	msg := Mask(err.Error())
	if context != "" {
		msg = fmt.Sprintf("%s: %s", context, msg)
	}
	if hint := hintFor(err); hint != "" {
		msg += "\n" + hint
	}
	return msg
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return "The session was rejected. Run `forcecursor login` again."
	case errors.Is(err, apperrors.ErrSyntax):
		return "Check the query text and the parameter count."
	case errors.Is(err, apperrors.ErrFieldError), errors.Is(err, apperrors.ErrIntegrity):
		return "Check the field names and values for the collection."
	case errors.Is(err, apperrors.ErrUnsupportedOperation):
		return "Only SELECT, INSERT and DELETE statements are supported."
	default:
		return ""
	}
}
