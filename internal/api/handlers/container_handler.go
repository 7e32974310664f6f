package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/core/ingestion_engine"
	"github.com/markdave123-py/Pressroom/internal/models"
)

// ContainerReader looks up containers and their recorded uploads.
type ContainerReader interface {
	Get(ctx context.Context, id string) (*models.Container, error)
	Files(ctx context.Context, id string) ([]models.ContainerFile, error)
	Download(ctx context.Context, id, name string) (*models.ContainerFile, []byte, error)
}

type ContainerHandler struct {
	ingestor       ingestion_engine.Ingestor
	containers     ContainerReader
	maxUploadBytes int64
}

func NewContainerHandler(ing ingestion_engine.Ingestor, containers ContainerReader, maxUploadMB int) *ContainerHandler {
	return &ContainerHandler{ingestor: ing, containers: containers, maxUploadBytes: int64(maxUploadMB) << 20}
}

// CreateContainer ingests the multipart "files" field. No files, or no
// multipart body at all, creates an empty container.
func (h *ContainerHandler) CreateContainer(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, ingestion_engine.IngestOptions{})
}

// CreateContainerWithPropositions is CreateContainer with the proposition
// stage always on.
func (h *ContainerHandler) CreateContainerWithPropositions(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, ingestion_engine.IngestOptions{ForcePropositions: true})
}

func (h *ContainerHandler) create(w http.ResponseWriter, r *http.Request, opts ingestion_engine.IngestOptions) {
	files, err := h.readUploads(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		writeError(w, r, err)
		return
	}

	container, err := h.ingestor.Ingest(r.Context(), files, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg := "Container created"
	if len(files) > 0 {
		msg = "Container created with text chunks"
	}
	writeJSON(w, http.StatusOK, messageResponse{Msg: msg, Data: []*models.Container{container}})
}

func (h *ContainerHandler) readUploads(w http.ResponseWriter, r *http.Request) ([]ingestion_engine.UploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		// The files field is optional, so an empty multipart body is not an error.
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, io.EOF) {
			return nil, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: parse multipart form: %w", core.ErrInvalidInput, err)
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	files := make([]ingestion_engine.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", core.ErrInvalidInput, fh.Filename, err)
		}
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		files = append(files, ingestion_engine.UploadedFile{
			Name:        filepath.Base(fh.Filename),
			ContentType: contentType,
			Data:        data,
		})
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

type containerDetail struct {
	Container *models.Container      `json:"container"`
	Files     []models.ContainerFile `json:"files"`
}

// GetContainer returns the container and the files it was built from.
func (h *ContainerHandler) GetContainer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.containers.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	files, err := h.containers.Files(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": containerDetail{Container: c, Files: files}})
}

// DownloadFile streams back the archived original of one uploaded file.
func (h *ContainerHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	file, data, err := h.containers.Download(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.FileName}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
