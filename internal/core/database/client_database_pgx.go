package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/models"
)

// Open connects to Postgres through the pgx stdlib driver, checks the
// connection and bootstraps the schema.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return db, nil
}

var _ core.ContainerStore = (*ContainerStore)(nil)

// ContainerStore keeps container rows and their file records in Postgres.
type ContainerStore struct {
	db *sql.DB
}

func NewContainerStore(db *sql.DB) *ContainerStore {
	return &ContainerStore{db: db}
}

func (c *ContainerStore) CreateContainer(ctx context.Context) (*models.Container, error) {
	const q = `
		INSERT INTO containers (id)
		VALUES ($1)
		RETURNING created_at
	`
	container := &models.Container{ID: uuid.NewString()}
	if err := c.db.QueryRowContext(ctx, q, container.ID).Scan(&container.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: insert container: %w", core.ErrStore, err)
	}
	return container, nil
}

func (c *ContainerStore) GetContainer(ctx context.Context, id string) (*models.Container, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: container %q", core.ErrNotFound, id)
	}

	const q = `
		SELECT id, embeddings_table, created_at
		FROM containers
		WHERE id = $1
	`
	var (
		container models.Container
		table     sql.NullString
	)
	err := c.db.QueryRowContext(ctx, q, id).Scan(&container.ID, &table, &container.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: container %q", core.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get container: %w", core.ErrStore, err)
	}
	if table.Valid {
		container.EmbeddingsTable = &table.String
	}
	return &container, nil
}

// SetEmbeddingsTable is the only update a container ever receives.
func (c *ContainerStore) SetEmbeddingsTable(ctx context.Context, id string, table string) error {
	const q = `
		UPDATE containers
		SET embeddings_table = $2
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, table)
	if err != nil {
		return fmt.Errorf("%w: set embeddings table: %w", core.ErrStore, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: set embeddings table: %w", core.ErrStore, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: container %q", core.ErrNotFound, id)
	}
	return nil
}

// DeleteContainer removes the row and, by cascade, its file records.
func (c *ContainerStore) DeleteContainer(ctx context.Context, id string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM containers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: delete container: %w", core.ErrStore, err)
	}
	return nil
}

func (c *ContainerStore) AddContainerFile(ctx context.Context, file *models.ContainerFile) error {
	if file == nil {
		return fmt.Errorf("%w: nil container file", core.ErrInvalidInput)
	}
	if file.ID == "" {
		file.ID = uuid.NewString()
	}

	const q = `
		INSERT INTO container_files
			(id, container_id, file_name, content_type, storage_url, char_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := c.db.QueryRowContext(ctx, q,
		file.ID, file.ContainerID, file.FileName, file.ContentType, file.StorageURL, file.CharCount,
	).Scan(&file.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert container file: %w", core.ErrStore, err)
	}
	return nil
}

func (c *ContainerStore) ListContainerFiles(ctx context.Context, containerID string) ([]models.ContainerFile, error) {
	const q = `
		SELECT id, container_id, file_name, content_type, storage_url, char_count, created_at
		FROM container_files
		WHERE container_id = $1
		ORDER BY created_at ASC, file_name ASC
	`
	rows, err := c.db.QueryContext(ctx, q, containerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list container files: %w", core.ErrStore, err)
	}
	defer rows.Close()

	out := []models.ContainerFile{}
	for rows.Next() {
		var f models.ContainerFile
		if err := rows.Scan(
			&f.ID, &f.ContainerID, &f.FileName, &f.ContentType, &f.StorageURL, &f.CharCount, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan container file: %w", core.ErrStore, err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list container files: %w", core.ErrStore, err)
	}
	return out, nil
}

func (c *ContainerStore) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", core.ErrStore, err)
	}
	return nil
}
