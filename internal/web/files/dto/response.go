package dto

import "github.com/Laisky/filedrop/internal/web/files/model"

// SuccessResponse wraps a successful API payload.
type SuccessResponse struct {
	Success any `json:"success"`
}

// FailureResponse carries a user-facing failure message.
type FailureResponse struct {
	Failure string `json:"failure"`
}

// FileListResult is the payload of GET /upload-authorizations.
type FileListResult struct {
	Files []*model.File `json:"files"`
}
