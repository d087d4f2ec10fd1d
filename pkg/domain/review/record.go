package review

import (
	"time"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// DefaultMaxAttempts bounds how many regeneration rounds an asset gets.
const DefaultMaxAttempts = 3

// Record is the persisted review history of one asset.
type Record struct {
	AssetID   string                  `yaml:"asset_id" json:"asset_id"`
	Image     string                  `yaml:"image" json:"image"`
	Context   asset.Context           `yaml:"context" json:"context"`
	State     string                  `yaml:"state" json:"state"`
	Attempts  int                     `yaml:"attempts" json:"attempts"`
	Last      *asset.ValidationResult `yaml:"last,omitempty" json:"last,omitempty"`
	UpdatedAt time.Time               `yaml:"updated_at" json:"updated_at"`
}

// NewRecord starts a review in the pending state.
func NewRecord(id, image string, c asset.Context) *Record {
	return &Record{
		AssetID:   id,
		Image:     image,
		Context:   c,
		State:     StatePending,
		UpdatedAt: time.Now(),
	}
}

// IsTerminal reports whether the asset needs no further automated work.
func (r *Record) IsTerminal() bool {
	return r.State == StateApproved || r.State == StateRejected
}

// Book holds every review keyed by asset ID.
type Book struct {
	Records map[string]*Record `yaml:"records" json:"records"`
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{Records: make(map[string]*Record)}
}

// Get returns the record for id or nil.
func (b *Book) Get(id string) *Record {
	if b.Records == nil {
		return nil
	}
	return b.Records[id]
}

// Put stores a record.
func (b *Book) Put(r *Record) {
	if b.Records == nil {
		b.Records = make(map[string]*Record)
	}
	b.Records[r.AssetID] = r
}

// Counts tallies records per state.
func (b *Book) Counts() map[string]int {
	counts := make(map[string]int)
	for _, r := range b.Records {
		counts[r.State]++
	}
	return counts
}
