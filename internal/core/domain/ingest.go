package domain

// FileUpload is a single file submitted for ingestion.
type FileUpload struct {
	// Filename is the client-supplied name, validated for a supported
	// extension before any processing.
	Filename string

	// Data is the raw file content.
	Data []byte
}

// FileFailure records why one file in a batch was rejected.
// Failures are per-file; one file's failure never aborts its siblings.
type FileFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"error"`
}

// UploadResult is the outcome of an ingestion batch. Files are
// processed in the order supplied; each lands in exactly one of the
// two lists.
type UploadResult struct {
	Uploaded []Document
	Failed   []FileFailure
}

// Ingestion failure reasons, reported per file.
const (
	ReasonUnsupportedType = "unsupported file type"
	ReasonEmptyFile       = "empty file"
	ReasonUnreadable      = "unreadable or corrupted document"
	ReasonNoContent       = "no processable content"
)
