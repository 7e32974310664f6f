package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/core/ingestion_engine"
	"github.com/markdave123-py/Pressroom/internal/logger"
	"github.com/markdave123-py/Pressroom/internal/models"
)

var _ ingestion_engine.ContainerCreator = (*ContainerService)(nil)

// ContainerService creates containers and their vector tables. Creation is
// all-or-nothing: a failed CreateFor undoes whatever it had written.
type ContainerService struct {
	store   core.ContainerStore
	index   core.VectorIndex
	archive core.ObjectClient
}

// NewContainerService wires the service. archive may be nil, in which case
// uploads are not copied to object storage.
func NewContainerService(store core.ContainerStore, index core.VectorIndex, archive core.ObjectClient) *ContainerService {
	return &ContainerService{store: store, index: index, archive: archive}
}

// CreateEmpty inserts a container with no vector table.
func (s *ContainerService) CreateEmpty(ctx context.Context) (*models.Container, error) {
	c, err := s.store.CreateContainer(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("container created", "container_id", c.ID, "files", 0)
	return c, nil
}

// CreateFor inserts a container, records (and optionally archives) its
// files, creates and fills its vector table, and finally points
// embeddings_table at it. With zero chunks the table is still created.
func (s *ContainerService) CreateFor(ctx context.Context, chunks []models.Chunk, files []ingestion_engine.ExtractedFile) (_ *models.Container, err error) {
	c, err := s.store.CreateContainer(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.With("container_id", c.ID)

	var undo []func(context.Context) error
	defer func() {
		if err == nil {
			return
		}
		// Cleanup must run even when the request itself was cancelled.
		cleanupCtx := context.WithoutCancel(ctx)
		for i := len(undo) - 1; i >= 0; i-- {
			if cerr := undo[i](cleanupCtx); cerr != nil {
				log.Error("compensation failed", "step", i, "error", cerr)
			}
		}
		log.Warn("container creation rolled back", "error", err)
	}()
	undo = append(undo, func(ctx context.Context) error { return s.store.DeleteContainer(ctx, c.ID) })

	for _, f := range files {
		record := &models.ContainerFile{
			ContainerID: c.ID,
			FileName:    f.Name,
			ContentType: f.ContentType,
			CharCount:   len([]rune(f.Text)),
		}
		if s.archive != nil {
			key := objectKey(c.ID, f.Name)
			url, err := s.archive.UploadFile(ctx, key, bytes.NewReader(f.Data), f.ContentType)
			if err != nil {
				return nil, err
			}
			undo = append(undo, func(ctx context.Context) error { return s.archive.DeleteFile(ctx, key) })
			record.StorageURL = url
		}
		if err := s.store.AddContainerFile(ctx, record); err != nil {
			return nil, err
		}
	}

	if err := s.index.InitTable(ctx, c.ID); err != nil {
		return nil, err
	}
	undo = append(undo, func(ctx context.Context) error { return s.index.DropTable(ctx, c.ID) })

	if err := s.index.Populate(ctx, c.ID, chunks); err != nil {
		return nil, err
	}

	if err := s.store.SetEmbeddingsTable(ctx, c.ID, c.ID); err != nil {
		return nil, err
	}
	table := c.ID
	c.EmbeddingsTable = &table

	log.Info("container created", "files", len(files), "chunks", len(chunks))
	return c, nil
}

func (s *ContainerService) Get(ctx context.Context, id string) (*models.Container, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: container id is required", core.ErrInvalidInput)
	}
	return s.store.GetContainer(ctx, id)
}

// Files lists the uploads recorded for an existing container.
func (s *ContainerService) Files(ctx context.Context, id string) ([]models.ContainerFile, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListContainerFiles(ctx, id)
}

// Download returns the record and archived bytes of one file the container was
// built from. Files uploaded while archiving was disabled are not found.
func (s *ContainerService) Download(ctx context.Context, id, name string) (*models.ContainerFile, []byte, error) {
	files, err := s.Files(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	var file *models.ContainerFile
	for i := range files {
		if files[i].FileName == name {
			file = &files[i]
			break
		}
	}
	if file == nil {
		return nil, nil, fmt.Errorf("%w: file %q in container %q", core.ErrNotFound, name, id)
	}
	if s.archive == nil || file.StorageURL == "" {
		return nil, nil, fmt.Errorf("%w: file %q was not archived", core.ErrNotFound, name)
	}

	data, err := s.archive.GetFile(ctx, objectKey(id, file.FileName))
	if err != nil {
		return nil, nil, err
	}
	return file, data, nil
}

func (s *ContainerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// objectKey creates a consistent S3 key layout.
func objectKey(containerID, filename string) string {
	filename = strings.TrimSpace(filename)
	filename = strings.ReplaceAll(filename, " ", "_")
	filename = strings.ReplaceAll(filename, "/", "_")
	return path.Join("containers", containerID, filename)
}
