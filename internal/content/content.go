// Package content models the host record store: records of every post type
// and the metadata attached to them.
package content

import (
	"context"
	"time"
)

// Meta keys read by the attachment fields.
const (
	MetaAttachedFile       = "_wp_attached_file"
	MetaAttachmentImageAlt = "_wp_attachment_image_alt"
	MetaAttachmentMetadata = "_wp_attachment_metadata"
)

// Record is one stored post of any type.
type Record struct {
	ID        int64          `yaml:"id"`
	PostType  string         `yaml:"post_type"`
	Status    string         `yaml:"status"`
	Slug      string         `yaml:"slug"`
	Title     string         `yaml:"title"`
	Content   string         `yaml:"content"`
	Excerpt   string         `yaml:"excerpt"`
	MimeType  string         `yaml:"mime_type"`
	ParentID  int64          `yaml:"parent_id"`
	AuthorID  int64          `yaml:"author_id"`
	MenuOrder int            `yaml:"menu_order"`
	GUID      string         `yaml:"guid"`
	Date      time.Time      `yaml:"date"`
	Modified  time.Time      `yaml:"modified"`
	Meta      map[string]any `yaml:"meta"`
}

// Query selects records. Zero values mean "no constraint" except where noted.
type Query struct {
	PostType string
	// Status defaults to "publish" when empty.
	Status   string
	ID       int64
	ParentID *int64
	Search   string
	// PerPage limits the page size; negative returns every match.
	PerPage int
	Page    int
	OrderBy string
	Order   string
}

// MediaSize is one generated image size of an attachment.
type MediaSize struct {
	Name     string `yaml:"name"`
	File     string `yaml:"file"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	MimeType string `yaml:"mime_type"`
}

// MediaMetadata is the decoded value of the attachment metadata entry.
type MediaMetadata struct {
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	File   string      `yaml:"file"`
	Sizes  []MediaSize `yaml:"sizes"`
}

// Store is the host record store.
//
// Only Query and Get may fail. Metadata lookups report a missing value
// instead of an error, so field resolvers can degrade to empty values.
type Store interface {
	Query(ctx context.Context, q Query) ([]*Record, error)
	Get(ctx context.Context, id int64) (*Record, error)
	// Meta returns the single value stored under key for the record id.
	Meta(ctx context.Context, id int64, key string) (any, bool)
	// IsImage reports whether the attachment id is an image.
	IsImage(ctx context.Context, id int64) bool
	// AttachmentURL returns the public URL of the attachment id, or "".
	AttachmentURL(ctx context.Context, id int64) string
	// UploadURL returns the public URL of a file relative to the uploads root.
	UploadURL(file string) string
}
