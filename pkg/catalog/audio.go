package catalog

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxAudioSizeBytes is the ceiling for audio asset payloads (10 MiB).
const MaxAudioSizeBytes = 10 << 20

// audioKeyPrefix namespaces audio objects within the bucket.
const audioKeyPrefix = "audio/"

// AttachAudio validates, uploads and references an audio asset for a content
// item. The upload happens before the row mutation, so an upload failure
// leaves the row untouched. Re-attaching overwrites the previous object:
// the storage key is deterministic per content id and file extension.
func (s *service) AttachAudio(ctx context.Context, req AttachAudioRequest) (*Content, error) {
	if s.blobStore == nil {
		return nil, fmt.Errorf("no blob store configured")
	}

	content, err := s.repository.GetContent(ctx, req.ContentID)
	if err != nil {
		return nil, &EntityError{Entity: "content", ID: req.ContentID, Op: "attach_audio", Err: err}
	}

	contentType, err := validateAudioAsset(req.Data, req.ContentType)
	if err != nil {
		return nil, err
	}

	key := audioObjectKey(req.ContentID, req.FileName)

	if err := s.blobStore.Upload(ctx, key, bytes.NewReader(req.Data), contentType); err != nil {
		return nil, &StorageError{Key: key, Op: "upload", Err: fmt.Errorf("%w: %v", ErrStoreUnavailable, err)}
	}

	publicURL, err := s.blobStore.GetPublicURL(key)
	if err != nil {
		// The object exists but no row points at it yet.
		return nil, &StorageError{Key: key, Op: "public_url", Err: fmt.Errorf("%w: %v", ErrOrphanedAsset, err)}
	}

	content.AudioURL = &publicURL
	if err := s.repository.UpdateContent(ctx, content); err != nil {
		return nil, &EntityError{
			Entity: "content",
			ID:     content.ID,
			Op:     "attach_audio",
			Err:    fmt.Errorf("%w: %v", ErrOrphanedAsset, err),
		}
	}

	// Sink failures never fail the operation.
	_ = s.events.AudioAttached(ctx, content.ID, publicURL)

	return content, nil
}

// DetachAudio deletes a content item's audio object and clears its audio_url.
// The blob delete happens first: clearing the pointer while the blob still
// exists would orphan it with no way to find it again.
func (s *service) DetachAudio(ctx context.Context, contentID uuid.UUID) (*Content, error) {
	if s.blobStore == nil {
		return nil, fmt.Errorf("no blob store configured")
	}

	content, err := s.repository.GetContent(ctx, contentID)
	if err != nil {
		return nil, &EntityError{Entity: "content", ID: contentID, Op: "detach_audio", Err: err}
	}
	if content.AudioURL == nil {
		return nil, &EntityError{Entity: "content", ID: contentID, Op: "detach_audio", Err: ErrNoAudioAttached}
	}

	key := audioKeyFromURL(*content.AudioURL)

	if err := s.blobStore.Delete(ctx, key); err != nil {
		return nil, &StorageError{Key: key, Op: "delete", Err: fmt.Errorf("%w: %v", ErrStoreUnavailable, err)}
	}

	content.AudioURL = nil
	if err := s.repository.UpdateContent(ctx, content); err != nil {
		// The blob is gone; the row still points at it.
		return nil, &EntityError{
			Entity: "content",
			ID:     contentID,
			Op:     "detach_audio",
			Err:    fmt.Errorf("%w: %v", ErrDanglingAudioURL, err),
		}
	}

	// Sink failures never fail the operation.
	_ = s.events.AudioDetached(ctx, contentID)

	return content, nil
}

// validateAudioAsset checks media kind and size before any upload. When no
// content type is declared the payload's leading bytes are sniffed.
func validateAudioAsset(data []byte, declaredType string) (string, error) {
	if len(data) == 0 {
		return "", &InvalidAssetError{Reason: "empty payload"}
	}
	if len(data) >= MaxAudioSizeBytes {
		return "", &InvalidAssetError{Reason: fmt.Sprintf("payload of %d bytes exceeds the %d byte ceiling", len(data), MaxAudioSizeBytes)}
	}

	contentType := declaredType
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "audio/") {
		return "", &InvalidAssetError{Reason: fmt.Sprintf("media type %q is not audio", contentType)}
	}

	return contentType, nil
}

// audioObjectKey derives the deterministic storage key for a content item's
// audio object: the content id plus the original file extension.
func audioObjectKey(contentID uuid.UUID, fileName string) string {
	return audioKeyPrefix + contentID.String() + path.Ext(fileName)
}

// audioKeyFromURL recovers the storage key from a public URL's trailing path
// segment.
func audioKeyFromURL(publicURL string) string {
	if u, err := url.Parse(publicURL); err == nil {
		return audioKeyPrefix + path.Base(u.Path)
	}
	return audioKeyPrefix + path.Base(publicURL)
}
