package domain

import (
	"fmt"
	"time"
)

// Document is the registry record for an ingested document.
// The registry is the authoritative answer to "does this document exist";
// vector index entries for a document id with no registry record are
// orphans, cleaned by the reconciliation sweep.
type Document struct {
	// ID is the unique identifier, generated at ingestion.
	ID string

	// Filename is the original upload filename.
	Filename string

	// UploadDate is when the document was ingested.
	UploadDate time.Time

	// NumChunks is the number of chunks indexed for this document.
	// It must equal the number of vector index entries sharing ID,
	// except transiently during a delete.
	NumChunks int

	// FileSize is the raw upload size in bytes.
	FileSize int64
}

// Chunk is one overlapping window of a document's extracted text,
// the unit of retrieval. Chunks are not persisted on their own; they
// live as records inside the vector index.
type Chunk struct {
	// ID is "{DocumentID}_{Sequence}", globally unique.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Filename is the owning document's filename, carried for citations.
	Filename string

	// Sequence is the zero-based position within the document.
	// Sequences for a document are contiguous from 0.
	Sequence int

	// Page is the 1-based source page, or UnknownPage when the chunk
	// lost its leading page marker to the chunking offset.
	Page int

	// Text is the chunk content.
	Text string

	// Embedding is the vector representation. All stored embeddings
	// share the dimensionality fixed by the embedding service.
	Embedding []float32
}

// UnknownPage is the sentinel stored when a chunk carries no page marker.
const UnknownPage = 0

// ChunkID derives the canonical chunk identifier for a document and
// sequence index.
func ChunkID(documentID string, sequence int) string {
	return fmt.Sprintf("%s_%d", documentID, sequence)
}

// Hit is a similarity search result from the vector index.
type Hit struct {
	// Chunk is the matched chunk. Embedding is not populated on hits.
	Chunk Chunk

	// Distance is the cosine distance to the query (lower is closer).
	Distance float64
}

// Source is a per-chunk citation returned alongside an answer.
type Source struct {
	// Text is the retrieved chunk text the answer drew on.
	Text string `json:"text"`

	// Filename is the owning document's filename.
	Filename string `json:"filename"`

	// Page is the source page, or UnknownPage.
	Page int `json:"page"`
}

// Answer is the result of the retrieval and answer pipeline.
type Answer struct {
	// Answer is the grounded answer text.
	Answer string `json:"answer"`

	// Sources lists the retrieved chunks in rank order, most similar
	// first. Distinct from the message-level filename set persisted
	// in chat history.
	Sources []Source `json:"sources"`
}
