package dto

import "errors"

// Custom errors
var (
	ErrNoInput      = errors.New("no input provided: supply a file or text")
	ErrFileTooLarge = errors.New("file too large")
	ErrBadFileType  = errors.New("unsupported file type")
)

// TextRequest is the JSON body for text-only extraction and the debug endpoints
type TextRequest struct {
	Text string `json:"text" binding:"required"`
}
