package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/smithy-go"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Category is advisory metadata attached to normalized failures.
// Callers branch on it or on the verbatim provider code; never on
// message text.
type Category string

const (
	CategoryAccessDenied Category = "AccessDenied"
	CategoryInvalidInput Category = "InvalidInput"
	CategoryNotFound     Category = "NotFound"
	CategoryThrottled    Category = "Throttled"
	CategoryUnavailable  Category = "Unavailable"
	CategoryUnknown      Category = "Unknown"
)

const maxErrorDetails = 2048

// categoryByCode maps provider error codes to categories. Codes
// missing here fall to CategoryUnknown with the raw code preserved.
var categoryByCode = map[string]Category{
	"AccessDenied":          CategoryAccessDenied,
	"AccessDeniedException": CategoryAccessDenied,
	"UnauthorizedOperation": CategoryAccessDenied,
	"AuthFailure":           CategoryAccessDenied,

	"InvalidParameterValue":       CategoryInvalidInput,
	"InvalidParameterCombination": CategoryInvalidInput,
	"InvalidParameterException":   CategoryInvalidInput,
	"ValidationError":             CategoryInvalidInput,
	"ValidationException":         CategoryInvalidInput,
	"MissingParameter":            CategoryInvalidInput,
	"MalformedPolicyDocument":     CategoryInvalidInput,
	"InvalidRequest":              CategoryInvalidInput,

	"ResourceNotFoundException":  CategoryNotFound,
	"NotFoundException":          CategoryNotFound,
	"NoSuchEntity":               CategoryNotFound,
	"NoSuchBucket":               CategoryNotFound,
	"NoSuchHostedZone":           CategoryNotFound,
	"DBInstanceNotFound":         CategoryNotFound,
	"DBInstanceNotFoundFault":    CategoryNotFound,
	"InvalidInstanceID.NotFound": CategoryNotFound,
	"InvalidVpcID.NotFound":      CategoryNotFound,
	"InvalidGroup.NotFound":      CategoryNotFound,

	"Throttling":               CategoryThrottled,
	"ThrottlingException":      CategoryThrottled,
	"RequestLimitExceeded":     CategoryThrottled,
	"TooManyRequestsException": CategoryThrottled,
	"SlowDown":                 CategoryThrottled,

	"ServiceUnavailable":          CategoryUnavailable,
	"InternalError":               CategoryUnavailable,
	"InternalFailure":             CategoryUnavailable,
	"RequestTimeout":              CategoryUnavailable,
	"RequestExpired":              CategoryUnavailable,
	"ExpiredToken":                CategoryUnavailable,
	"ExpiredTokenException":       CategoryUnavailable,
	"InvalidClientTokenId":        CategoryUnavailable,
	"UnrecognizedClientException": CategoryUnavailable,
}

// ErrorRecord is the normalized form of a provider failure. Code is
// the provider code verbatim, empty for errors that never reached the
// provider.
type ErrorRecord struct {
	Code     string
	Category Category
	Message  string
	Details  string
}

// Normalize derives a stable record from any error crossing the
// tool-call boundary. It is deterministic: the same error value always
// yields the same record.
func Normalize(err error) ErrorRecord {
	record := ErrorRecord{Category: CategoryUnknown}
	if err == nil {
		return record
	}
	record.Message = err.Error()
	record.Details = truncateDetails(err.Error())

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		record.Code = apiErr.ErrorCode()
		if msg := apiErr.ErrorMessage(); msg != "" {
			record.Message = msg
		}
		if category, ok := categoryByCode[record.Code]; ok {
			record.Category = category
		}
		return record
	}

	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) {
		record.Category = CategoryInvalidInput
		return record
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		record.Category = CategoryUnavailable
		return record
	}
	if isCredentialOrNetworkMessage(record.Message) {
		record.Category = CategoryUnavailable
	}
	return record
}

func isCredentialOrNetworkMessage(msg string) bool {
	lower := strings.ToLower(msg)
	markers := []string{
		"credential",
		"no ec2 imds role found",
		"failed to refresh cached credentials",
		"connection refused",
		"connection reset",
		"no such host",
		"dial tcp",
	}
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func truncateDetails(details string) string {
	if len(details) > maxErrorDetails {
		return details[:maxErrorDetails]
	}
	return details
}

// FailureEnvelope converts a tool error into the uniform failure
// shape. error_code carries the provider code verbatim so callers
// depending on exact codes are not broken by the abstraction.
func FailureEnvelope(err error) map[string]any {
	record := Normalize(err)
	out := map[string]any{
		"error":         true,
		"error_message": record.Message,
		"category":      string(record.Category),
	}
	if record.Code != "" {
		out["error_code"] = record.Code
	}
	if record.Details != "" {
		out["details"] = record.Details
	}
	return out
}
