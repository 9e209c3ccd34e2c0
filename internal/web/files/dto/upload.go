// Package dto provides data transfer objects for the upload API.
package dto

import "github.com/Laisky/filedrop/internal/web/files/model"

// AuthorizeUploadRequest is the body of POST /upload-authorizations.
// FileSize is a pointer so an absent field is distinguishable from zero.
type AuthorizeUploadRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize *int64 `json:"fileSize"`
	Checksum string `json:"checksum"`
}

// AuthorizeUploadResult carries the issued upload credential and the
// persisted record.
type AuthorizeUploadResult struct {
	URL  string      `json:"url"`
	File *model.File `json:"file"`
}
