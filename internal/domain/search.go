package domain

import (
	"context"
	"time"
)

// MatchType records which search strategy produced a document match.
type MatchType string

const (
	MatchTypeExact   MatchType = "exact"
	MatchTypeFuzzy   MatchType = "fuzzy"
	MatchTypeKeyword MatchType = "keyword"
)

// DocumentMatch is a document-level hit, one per distinct title per search.
type DocumentMatch struct {
	Title     string
	FileType  FileType
	Score     float64 // in [0, 1]
	MatchType MatchType
}

// ContentMatch is a passage-level hit from the vector index. PageNumber is
// nil when the chunk carried no page attribution.
type ContentMatch struct {
	Title      string
	EntryID    string
	ChunkText  string
	PageNumber *int
	Score      float64
}

// HybridSearchResult bundles the fused output of all search strategies.
// Both lists may be empty; that is a legitimate "nothing found" outcome,
// not an error.
type HybridSearchResult struct {
	DocumentMatches []DocumentMatch
	ContentMatches  []ContentMatch
}

// ChunkMetadata is the closed record attached to each indexed chunk.
type ChunkMetadata struct {
	PageNumber *int
	ChunkIndex int
}

// IndexChunk is one chunk as stored in the content index.
type IndexChunk struct {
	Text     string
	Metadata ChunkMetadata
}

// EntryFilters are the closed filter attributes stored with an index entry.
type EntryFilters struct {
	CategoryID string
	FileType   FileType
	UploadedAt time.Time
}

// IndexAddRequest describes a document to be added to the content index.
type IndexAddRequest struct {
	Namespace string
	Key       string // document identity; at most one entry per key
	Title     string
	Chunks    []IndexChunk
	Filters   EntryFilters
}

// IndexSearchRequest is a semantic query against the content index.
type IndexSearchRequest struct {
	Namespace      string
	Query          string
	Limit          int
	ScoreThreshold float64
}

// IndexSearchHit is one scored chunk group returned by the index.
type IndexSearchHit struct {
	EntryID string
	Score   float64
	Content []IndexChunk
}

// IndexEntryRef names an entry referenced by the hits of a search.
type IndexEntryRef struct {
	EntryID string
	Title   string
}

// IndexSearchResponse pairs hits with the entries they belong to. Hits
// whose entry is missing from Entries cannot be cited and are dropped
// during fusion.
type IndexSearchResponse struct {
	Results []IndexSearchHit
	Entries []IndexEntryRef
}

// ContentIndex is the opaque external embedding index. Implementations own
// chunk embedding and storage; callers only see text in and scored text out.
type ContentIndex interface {
	Add(ctx context.Context, req IndexAddRequest) (entryID string, err error)
	Search(ctx context.Context, req IndexSearchRequest) (*IndexSearchResponse, error)
	// Remove drops the entry for the given key, if one exists.
	Remove(ctx context.Context, namespace, key string) error
}
