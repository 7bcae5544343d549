package models

import "errors"

// Ingestion errors reject the request and are never retried.
var (
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrEmptyOrMalformedFile = errors.New("file is empty or has an invalid format")
	ErrUnsupportedJsonShape = errors.New("JSON file must contain an array of objects or an object with an array property")
	ErrUploadTooLarge       = errors.New("uploaded file is too large")
)

// Client-input errors.
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrMessageNotFound = errors.New("chat message not found")
	ErrQuestionMissing = errors.New("question is required")
)

// Model errors are absorbed by the query bridge and never reach callers.
var (
	ErrExternalModelUnavailable = errors.New("external language model unavailable")
	ErrModelResponseUnparseable = errors.New("model response could not be parsed")
)
