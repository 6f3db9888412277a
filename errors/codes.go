package errors

// ErrorCode identifies a failure class in API responses
type ErrorCode string

const (
	ErrorCode_INTERNAL                  ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT          ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_INVALID_PAYLOAD           ErrorCode = "INVALID_PAYLOAD"
	ErrorCode_MISSING_RECORDING_URL     ErrorCode = "MISSING_RECORDING_URL"
	ErrorCode_INVALID_SIGNATURE         ErrorCode = "INVALID_SIGNATURE"
	ErrorCode_RUN_NOT_FOUND             ErrorCode = "RUN_NOT_FOUND"
	ErrorCode_RUN_NOT_READY             ErrorCode = "RUN_NOT_READY"
	ErrorCode_RUN_FAILED                ErrorCode = "RUN_FAILED"
	ErrorCode_TRANSCRIPTION_FAILED      ErrorCode = "TRANSCRIPTION_FAILED"
	ErrorCode_EMPTY_TRANSCRIPT          ErrorCode = "EMPTY_TRANSCRIPT"
	ErrorCode_CHUNKING_FAILED           ErrorCode = "CHUNKING_FAILED"
	ErrorCode_SCORING_VALIDATION_FAILED ErrorCode = "SCORING_VALIDATION_FAILED"
	ErrorCode_SCORING_FAILED            ErrorCode = "SCORING_FAILED"
	ErrorCode_NO_BLOCKS_ANALYZED        ErrorCode = "NO_BLOCKS_ANALYZED"
	ErrorCode_REPORT_EXPORT_FAILED      ErrorCode = "REPORT_EXPORT_FAILED"

	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = "INTEGRATION_STORAGE_FAILED"
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = "INTEGRATION_CACHE_FAILED"
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = "INTEGRATION_EXTERNAL_API_FAILED"
	ErrorCode_PROCESSING_FAILED               ErrorCode = "PROCESSING_FAILED"
)

func (c ErrorCode) String() string {
	return string(c)
}
