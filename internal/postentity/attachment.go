package postentity

import (
	"context"
	"fmt"
	"path"

	"github.com/hanpama/postgraph/internal/content"
	"github.com/hanpama/postgraph/internal/hooks"
	"github.com/hanpama/postgraph/internal/postobject"
	"github.com/hanpama/postgraph/internal/schema"
)

// Media type names.
const (
	MediaDetailsType = "MediaDetails"
	MediaSizeType    = "MediaSize"
)

// AttachmentStatus is the only status attachments are queried in.
const AttachmentStatus = "inherit"

// AttachmentDefaultArgs forces the attachment status into args. The caller's
// map is left untouched.
func AttachmentDefaultArgs(_ context.Context, args map[string]any) map[string]any {
	out := make(map[string]any, len(args)+1)
	for k, v := range args {
		out[k] = v
	}
	out[postobject.ArgStatus] = AttachmentStatus
	return out
}

// AttachmentFields returns the extender adding media fields to attachments.
func AttachmentFields(store content.Store) hooks.Filter[[]*schema.Field] {
	return func(_ context.Context, fields []*schema.Field) []*schema.Field {
		return append(fields,
			schema.NewField("caption", "The caption for the resource", schema.StringRef()).
				SetResolver(postobject.RecordResolver(func(_ context.Context, r *content.Record) any {
					return content.EscapeHTML(r.Excerpt)
				})),
			schema.NewField("alt_text", "Alternative text to display when resource is not displayed", schema.StringRef()).
				SetResolver(postobject.RecordResolver(func(ctx context.Context, r *content.Record) any {
					return content.EscapeHTML(metaString(ctx, store, r.ID, content.MetaAttachmentImageAlt))
				})),
			schema.NewField("description", "The description for the resource", schema.StringRef()).
				SetResolver(postobject.RecordResolver(func(_ context.Context, r *content.Record) any {
					return content.EscapeHTML(r.Excerpt)
				})),
			schema.NewField("media_type", "Type of resource", schema.StringRef()).
				SetResolver(postobject.RecordResolver(func(ctx context.Context, r *content.Record) any {
					if store.IsImage(ctx, r.ID) {
						return "image"
					}
					return "file"
				})),
			schema.NewField("mime_type", "Mime type of resource", schema.StringRef()).
				SetResolver(postobject.RecordResolver(func(_ context.Context, r *content.Record) any {
					return content.EscapeHTML(r.MimeType)
				})),
			schema.NewField("associated_post_id", "The id for the associated post of the resource", schema.IntRef()).
				SetResolver(postobject.RecordResolver(associatedPostID)),
			schema.NewField("associtated_post_id", "The id for the associated post of the resource", schema.IntRef()).
				Deprecate("Use associated_post_id").
				SetResolver(postobject.RecordResolver(associatedPostID)),
			schema.NewField("source_url", "The URL of the resource", schema.StringRef()).
				SetResolver(postobject.RecordResolver(func(ctx context.Context, r *content.Record) any {
					return store.AttachmentURL(ctx, r.ID)
				})),
			schema.NewField("media_details", "Details about the media object", schema.NamedType(MediaDetailsType)).
				SetResolver(postobject.RecordResolver(func(_ context.Context, r *content.Record) any {
					return r
				})),
		)
	}
}

func associatedPostID(_ context.Context, r *content.Record) any {
	if r.ParentID == 0 {
		return nil
	}
	return r.ParentID
}

func metaString(ctx context.Context, store content.Store, id int64, key string) string {
	v, ok := store.Meta(ctx, id, key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// mediaSize is the source value of MediaSize fields.
type mediaSize struct {
	content.MediaSize
	url string
}

func mediaMetadata(ctx context.Context, store content.Store, id int64) content.MediaMetadata {
	v, ok := store.Meta(ctx, id, content.MetaAttachmentMetadata)
	if !ok {
		return content.MediaMetadata{}
	}
	md, err := content.DecodeMediaMetadata(v)
	if err != nil {
		return content.MediaMetadata{}
	}
	return md
}

func metadataResolver(store content.Store, get func(md content.MediaMetadata) any) schema.ResolveFunc {
	return postobject.RecordResolver(func(ctx context.Context, r *content.Record) any {
		return get(mediaMetadata(ctx, store, r.ID))
	})
}

func sizeResolver(get func(s mediaSize) any) schema.ResolveFunc {
	return func(_ context.Context, source any, _ map[string]any) (any, error) {
		s, ok := source.(mediaSize)
		if !ok {
			return nil, nil
		}
		return get(s), nil
	}
}

// MediaTypes returns the MediaDetails and MediaSize object types. Their
// resolvers read the attachment metadata entry of the source record; a
// missing or malformed entry resolves to empty values.
func MediaTypes(store content.Store) []*schema.Type {
	details := schema.NewType(MediaDetailsType, schema.TypeKindObject, "Details about a media object").
		AddField(schema.NewField("width", "Width of the original file in pixels", schema.IntRef()).
			SetResolver(metadataResolver(store, func(md content.MediaMetadata) any { return md.Width }))).
		AddField(schema.NewField("height", "Height of the original file in pixels", schema.IntRef()).
			SetResolver(metadataResolver(store, func(md content.MediaMetadata) any { return md.Height }))).
		AddField(schema.NewField("file", "Path of the original file relative to the uploads root", schema.StringRef()).
			SetResolver(metadataResolver(store, func(md content.MediaMetadata) any { return md.File }))).
		AddField(schema.NewField("sizes", "Generated sizes of the media object", schema.ListType(schema.NamedType(MediaSizeType))).
			SetResolver(metadataResolver(store, func(md content.MediaMetadata) any {
				dir := path.Dir(md.File)
				sizes := make([]mediaSize, 0, len(md.Sizes))
				for _, s := range md.Sizes {
					file := s.File
					if dir != "." && dir != "/" {
						file = dir + "/" + file
					}
					sizes = append(sizes, mediaSize{MediaSize: s, url: store.UploadURL(file)})
				}
				return sizes
			})))

	size := schema.NewType(MediaSizeType, schema.TypeKindObject, "One generated size of a media object").
		AddField(schema.NewField("name", "Size name, e.g. thumbnail", schema.StringRef()).
			SetResolver(sizeResolver(func(s mediaSize) any { return s.Name }))).
		AddField(schema.NewField("file", "File name of this size", schema.StringRef()).
			SetResolver(sizeResolver(func(s mediaSize) any { return s.File }))).
		AddField(schema.NewField("width", "Width in pixels", schema.IntRef()).
			SetResolver(sizeResolver(func(s mediaSize) any { return s.Width }))).
		AddField(schema.NewField("height", "Height in pixels", schema.IntRef()).
			SetResolver(sizeResolver(func(s mediaSize) any { return s.Height }))).
		AddField(schema.NewField("mime_type", "Mime type of this size", schema.StringRef()).
			SetResolver(sizeResolver(func(s mediaSize) any { return content.EscapeHTML(s.MimeType) }))).
		AddField(schema.NewField("source_url", "The URL of this size", schema.StringRef()).
			SetResolver(sizeResolver(func(s mediaSize) any { return s.url })))

	return []*schema.Type{details, size}
}
