package docker

import (
	"time"

	"github.com/hailstack/hailstack/internal/config"
)

// Label keys applied to the Postgres container so it can be rediscovered
// by `db status` and `db down`. The labels, not the container name, are
// the source of truth: a user may rename the container and the CLI will
// still find it.
const (
	// LabelPrefix namespaces all hailstack labels to avoid collisions
	// with labels set by other tooling.
	LabelPrefix = "hailstack."

	// LabelManagedBy identifies containers created by this CLI.
	// Key: "hailstack.managed-by", value: always "hailstack".
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelRole distinguishes container roles. The database container
	// carries "hailstack.role=database".
	LabelRole = LabelPrefix + "role"

	// LabelDatabase records the Postgres database name the container
	// was initialized with.
	LabelDatabase = LabelPrefix + "database"

	// LabelHostPort records the host port the container's 5432 is
	// published on, as a string.
	LabelHostPort = LabelPrefix + "host-port"

	// LabelCreatedAt records the RFC3339 creation timestamp.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the constant value of the LabelManagedBy label.
const ManagedByValue = "hailstack"

// RoleDatabase is the LabelRole value for the Postgres container.
const RoleDatabase = "database"

// BuildDatabaseLabels constructs the label map for the Postgres container
// from the resolved DB configuration.
func BuildDatabaseLabels(db config.DB, createdAt time.Time) map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelRole:      RoleDatabase,
		LabelDatabase:  db.Name,
		LabelHostPort:  db.Port,
		LabelCreatedAt: createdAt.UTC().Format(time.RFC3339),
	}
}
