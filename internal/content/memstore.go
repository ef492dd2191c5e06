package content

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// StatusAny matches records of every status in a Query.
const StatusAny = "any"

const defaultPerPage = 10

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "jpe": true, "gif": true,
	"png": true, "webp": true, "avif": true, "bmp": true,
	"ico": true, "heic": true,
}

// MemStore is an in-memory Store.
type MemStore struct {
	mu         sync.RWMutex
	records    map[int64]*Record
	uploadsURL string
}

// NewMemStore creates an empty store. uploadsURL is the public base URL of
// uploaded files, without a trailing slash.
func NewMemStore(uploadsURL string) *MemStore {
	return &MemStore{
		records:    make(map[int64]*Record),
		uploadsURL: strings.TrimRight(uploadsURL, "/"),
	}
}

// Put stores r, replacing any record with the same ID.
func (s *MemStore) Put(r *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	if cp.Status == "" {
		cp.Status = "publish"
	}
	if cp.Meta == nil {
		cp.Meta = map[string]any{}
	}
	s.records[cp.ID] = &cp
}

// SetMeta stores value under key for the record id. It reports false when
// the record does not exist.
func (s *MemStore) SetMeta(id int64, key string, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return false
	}
	r.Meta[key] = value
	return true
}

// Len returns the number of stored records.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemStore) Query(ctx context.Context, q Query) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	status := q.Status
	if status == "" {
		status = "publish"
	}
	search := strings.ToLower(q.Search)

	s.mu.RLock()
	matches := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		if q.PostType != "" && r.PostType != q.PostType {
			continue
		}
		if status != StatusAny && r.Status != status {
			continue
		}
		if q.ID != 0 && r.ID != q.ID {
			continue
		}
		if q.ParentID != nil && r.ParentID != *q.ParentID {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		matches = append(matches, r)
	}
	s.mu.RUnlock()

	less, err := orderFunc(q.OrderBy)
	if err != nil {
		return nil, err
	}
	desc := !strings.EqualFold(q.Order, "ASC")
	sort.SliceStable(matches, func(i, j int) bool {
		if desc {
			return less(matches[j], matches[i])
		}
		return less(matches[i], matches[j])
	})

	perPage := q.PerPage
	if perPage == 0 {
		perPage = defaultPerPage
	}
	if perPage > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * perPage
		if start >= len(matches) {
			return []*Record{}, nil
		}
		end := start + perPage
		if end > len(matches) {
			end = len(matches)
		}
		matches = matches[start:end]
	}

	out := make([]*Record, len(matches))
	for i, r := range matches {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}

func matchesSearch(r *Record, needle string) bool {
	return strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(r.Content), needle) ||
		strings.Contains(strings.ToLower(r.Excerpt), needle)
}

func orderFunc(orderBy string) (func(a, b *Record) bool, error) {
	switch strings.ToLower(orderBy) {
	case "", "date":
		return func(a, b *Record) bool {
			if a.Date.Equal(b.Date) {
				return a.ID < b.ID
			}
			return a.Date.Before(b.Date)
		}, nil
	case "modified":
		return func(a, b *Record) bool {
			if a.Modified.Equal(b.Modified) {
				return a.ID < b.ID
			}
			return a.Modified.Before(b.Modified)
		}, nil
	case "id":
		return func(a, b *Record) bool { return a.ID < b.ID }, nil
	case "title":
		return func(a, b *Record) bool {
			if a.Title == b.Title {
				return a.ID < b.ID
			}
			return a.Title < b.Title
		}, nil
	case "menu_order":
		return func(a, b *Record) bool {
			if a.MenuOrder == b.MenuOrder {
				return a.ID < b.ID
			}
			return a.MenuOrder < b.MenuOrder
		}, nil
	}
	return nil, fmt.Errorf("unsupported orderby %q", orderBy)
}

func (s *MemStore) Get(ctx context.Context, id int64) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *MemStore) Meta(_ context.Context, id int64, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, false
	}
	v, ok := r.Meta[key]
	return v, ok
}

func (s *MemStore) IsImage(ctx context.Context, id int64) bool {
	s.mu.RLock()
	r, ok := s.records[id]
	s.mu.RUnlock()
	if !ok || r.PostType != "attachment" {
		return false
	}
	if strings.HasPrefix(r.MimeType, "image/") {
		return true
	}
	file, _ := s.Meta(ctx, id, MetaAttachedFile)
	name, _ := file.(string)
	if name == "" {
		name = r.GUID
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	return imageExtensions[ext]
}

func (s *MemStore) AttachmentURL(ctx context.Context, id int64) string {
	s.mu.RLock()
	r, ok := s.records[id]
	s.mu.RUnlock()
	if !ok || r.PostType != "attachment" {
		return ""
	}
	if file, _ := s.Meta(ctx, id, MetaAttachedFile); file != nil {
		if name, ok := file.(string); ok && name != "" {
			return s.UploadURL(name)
		}
	}
	return r.GUID
}

func (s *MemStore) UploadURL(file string) string {
	if file == "" {
		return ""
	}
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
		return file
	}
	if s.uploadsURL == "" {
		return file
	}
	return s.uploadsURL + "/" + strings.TrimLeft(file, "/")
}

var _ Store = (*MemStore)(nil)
