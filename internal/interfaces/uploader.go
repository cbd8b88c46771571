package interfaces

import "context"

// Uploader stores an image blob and returns its public URL. Satisfied by the
// cloudinary client; left nil when uploads are not configured, in which case
// avatar updates are rejected.
type Uploader interface {
	UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error)
}
