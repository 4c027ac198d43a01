package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

type photoBlob struct {
	MIME string `json:"mime"`
	Data string `json:"data"`
}

func photoKey(id string) string {
	return keyPhotoPrefix + id
}

// SetPhoto stores the inspection photo of an extinguisher and marks the
// record as having one.
func (s *Store) SetPhoto(ctx context.Context, id string, data []byte, mime string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadExtinguishers(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("setting photo for %q: %w", id, ErrExtinguisherNotFound)
	}

	blob, err := json.Marshal(photoBlob{MIME: mime, Data: base64.StdEncoding.EncodeToString(data)})
	if err != nil {
		return fmt.Errorf("encoding photo: %w", err)
	}
	if err := s.kv.Set(ctx, photoKey(id), string(blob)); err != nil {
		return fmt.Errorf("storing photo: %w", err)
	}

	if !list[idx].HasPhoto {
		list[idx].HasPhoto = true
		return writeList(ctx, s.kv, KeyExtinguishers, list)
	}
	return nil
}

// Photo returns the inspection photo of an extinguisher and its MIME type.
// data is nil when no photo is stored.
func (s *Store) Photo(ctx context.Context, id string) ([]byte, string, error) {
	raw, ok, err := s.kv.Get(ctx, photoKey(id))
	if err != nil {
		return nil, "", fmt.Errorf("getting photo: %w", err)
	}
	if !ok {
		return nil, "", nil
	}

	var blob photoBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, "", fmt.Errorf("%w: decoding photo %q: %v", ErrStorageCorruption, id, err)
	}
	data, err := base64.StdEncoding.DecodeString(blob.Data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: decoding photo %q: %v", ErrStorageCorruption, id, err)
	}
	return data, blob.MIME, nil
}
