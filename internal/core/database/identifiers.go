package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/markdave123-py/Pressroom/internal/core"
)

// TableName is the embedding table owned by a container.
func TableName(containerID string) string {
	return "table_" + containerID
}

// QueryName is the similarity-search function owned by a container.
func QueryName(containerID string) string {
	return "match_docs_" + containerID
}

// quote renders name as a safely quoted SQL identifier.
func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// validContainerID guards every statement that interpolates a derived name.
func validContainerID(containerID string) error {
	if _, err := uuid.Parse(containerID); err != nil {
		return fmt.Errorf("%w: container id %q is not a uuid", core.ErrInvalidInput, containerID)
	}
	return nil
}
