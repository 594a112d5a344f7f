package models

import (
	"fmt"
	"strings"
)

// CancelReasonOther lets the customer type a free-form reason.
const CancelReasonOther = "Other"

// CancelReasons are the reasons offered on the cancel sheet.
var CancelReasons = []string{
	"Changed my mind",
	"Ordered by mistake",
	"Found a better price",
	"Delivery is taking too long",
	CancelReasonOther,
}

const maxCancelReasonLen = 500

// NormalizeCancelReason validates a reason picked from CancelReasons.
// For "Other" the free-form detail is required and becomes the stored reason.
func NormalizeCancelReason(reason, detail string) (string, error) {
	reason = strings.TrimSpace(reason)
	detail = strings.TrimSpace(detail)
	if reason == "" {
		return "", fmt.Errorf("%w: cancel reason is required", ErrValidation)
	}
	known := false
	for _, r := range CancelReasons {
		if strings.EqualFold(r, reason) {
			reason, known = r, true
			break
		}
	}
	if !known {
		return "", fmt.Errorf("%w: unknown cancel reason %q", ErrValidation, reason)
	}
	if reason != CancelReasonOther {
		return reason, nil
	}
	if detail == "" {
		return "", fmt.Errorf("%w: describe the reason when choosing %q", ErrValidation, CancelReasonOther)
	}
	if len(detail) > maxCancelReasonLen {
		return "", fmt.Errorf("%w: cancel reason too long", ErrValidation)
	}
	return detail, nil
}
