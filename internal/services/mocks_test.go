package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/models"
)

// recorder collects the order of calls across mocks.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

type mockStore struct {
	rec        *recorder
	containers map[string]*models.Container
	files      []models.ContainerFile
	nextID     string

	createErr error
	setErr    error
	addErr    error
	getErr    error
}

func newMockStore(rec *recorder) *mockStore {
	return &mockStore{rec: rec, containers: map[string]*models.Container{}, nextID: "c-1"}
}

func (m *mockStore) CreateContainer(context.Context) (*models.Container, error) {
	m.rec.add("store.create")
	if m.createErr != nil {
		return nil, m.createErr
	}
	c := &models.Container{ID: m.nextID}
	m.containers[c.ID] = c
	return &models.Container{ID: c.ID}, nil
}

func (m *mockStore) GetContainer(_ context.Context, id string) (*models.Container, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.containers[id]
	if !ok {
		return nil, fmt.Errorf("%w: container %q", core.ErrNotFound, id)
	}
	cp := *c
	return &cp, nil
}

func (m *mockStore) SetEmbeddingsTable(_ context.Context, id, table string) error {
	m.rec.add("store.set_table %s", table)
	if m.setErr != nil {
		return m.setErr
	}
	m.containers[id].EmbeddingsTable = &table
	return nil
}

func (m *mockStore) DeleteContainer(_ context.Context, id string) error {
	m.rec.add("store.delete %s", id)
	delete(m.containers, id)
	return nil
}

func (m *mockStore) AddContainerFile(_ context.Context, f *models.ContainerFile) error {
	m.rec.add("store.add_file %s", f.FileName)
	if m.addErr != nil {
		return m.addErr
	}
	m.files = append(m.files, *f)
	return nil
}

func (m *mockStore) ListContainerFiles(_ context.Context, id string) ([]models.ContainerFile, error) {
	var out []models.ContainerFile
	for _, f := range m.files {
		if f.ContainerID == id {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockStore) Ping(context.Context) error { return nil }

type mockIndex struct {
	rec       *recorder
	populated []models.Chunk
	initErr   error
	popErr    error
}

func (m *mockIndex) InitTable(_ context.Context, id string) error {
	m.rec.add("index.init %s", id)
	return m.initErr
}

func (m *mockIndex) Populate(ctx context.Context, id string, chunks []models.Chunk) error {
	m.rec.add("index.populate %s %d", id, len(chunks))
	if m.popErr != nil {
		return m.popErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.populated = chunks
	return nil
}

func (m *mockIndex) Search(context.Context, string, []float32, int) ([]models.ScoredChunk, error) {
	return nil, nil
}

func (m *mockIndex) DropTable(ctx context.Context, id string) error {
	m.rec.add("index.drop %s", id)
	return ctx.Err()
}

type mockArchive struct {
	rec       *recorder
	uploadErr error
	getErr    error
	objects   map[string][]byte
}

func (m *mockArchive) UploadFile(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	m.rec.add("archive.upload %s", key)
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	b, _ := io.ReadAll(data)
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = b
	return "https://bucket.s3.us-east-2.amazonaws.com/" + key, nil
}

func (m *mockArchive) DeleteFile(_ context.Context, key string) error {
	m.rec.add("archive.delete %s", key)
	return nil
}

func (m *mockArchive) GetFile(_ context.Context, key string) ([]byte, error) {
	m.rec.add("archive.get %s", key)
	if m.getErr != nil {
		return nil, m.getErr
	}
	b, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: no such key %s", core.ErrStore, key)
	}
	return b, nil
}

type mockLLM struct {
	prompts []string
	replies []string
	errAt   int // 1-based call that fails; 0 never
	err     error
}

func (m *mockLLM) Generate(_ context.Context, _, userPrompt string) (string, error) {
	m.prompts = append(m.prompts, userPrompt)
	n := len(m.prompts)
	if m.errAt == n {
		return "", m.err
	}
	if n <= len(m.replies) {
		return m.replies[n-1], nil
	}
	return "", nil
}

type mockRetriever struct {
	chunks  []models.Chunk
	err     error
	gotID   string
	gotText string
}

func (m *mockRetriever) Retrieve(_ context.Context, containerID, query string) ([]models.Chunk, error) {
	m.gotID, m.gotText = containerID, query
	return m.chunks, m.err
}
