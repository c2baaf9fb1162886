package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/CareConnect-Health/care-service/internal/storage"
	"github.com/CareConnect-Health/care-service/internal/users"
)

type storedAvatar struct {
	data        []byte
	contentType string
}

// MockAvatarStore keeps uploaded avatars in memory
type MockAvatarStore struct {
	mu      sync.Mutex
	avatars map[string]storedAvatar
}

var _ users.AvatarStorage = (*MockAvatarStore)(nil)

func NewMockAvatarStore() *MockAvatarStore {
	return &MockAvatarStore{avatars: map[string]storedAvatar{}}
}

func (m *MockAvatarStore) Upload(ctx context.Context, userID, contentType string, r io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(r, storage.MaxAvatarBytes+1))
	if err != nil {
		return err
	}
	if len(data) > storage.MaxAvatarBytes {
		return storage.ErrAvatarTooLarge
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.avatars[userID] = storedAvatar{data: data, contentType: contentType}
	return nil
}

func (m *MockAvatarStore) Download(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	avatar, ok := m.avatars[userID]
	if !ok {
		return nil, "", storage.ErrAvatarNotFound
	}
	return io.NopCloser(bytes.NewReader(avatar.data)), avatar.contentType, nil
}

func (m *MockAvatarStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.avatars, userID)
	return nil
}

func (m *MockAvatarStore) PublicURL(userID string) string {
	return fmt.Sprintf("https://avatars.careconnect.test/%s", userID)
}
