// postgres.go implements the lifecycle of the stack's PostgreSQL dev
// container: pull, create, start, stop, remove, and label-based discovery.
//
// `hailstack up` launches application processes; this file covers the one
// piece of infrastructure those processes assume is already running.
package docker

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/go-connections/nat"

	"github.com/hailstack/hailstack/internal/config"
	"github.com/hailstack/hailstack/internal/model"
)

// DefaultImage is the Postgres image used for the dev container.
const DefaultImage = "postgres:16-alpine"

// containerName is the fixed name given to the database container at
// creation. Discovery still goes through labels; the name is only for
// `docker ps` readability.
const containerName = "hailstack-db"

// postgresPort is the port Postgres listens on inside the container.
const postgresPort = "5432/tcp"

// DatabaseInfo describes the discovered database container.
type DatabaseInfo struct {
	// ID is the container id.
	ID string

	// Name is the container name without the API's leading slash.
	Name string

	// State is Docker's short state string ("running", "exited", ...).
	State string

	// Image is the image reference the container was created from.
	Image string

	// Database is the Postgres database name, from the container label.
	Database string

	// HostPort is the published host port, from the container label.
	HostPort string
}

// Running reports whether the container is currently running.
func (i *DatabaseInfo) Running() bool {
	return i.State == "running"
}

// FindDatabase looks up the managed database container by label.
// Returns nil (and no error) when none exists.
func FindDatabase(ctx context.Context, cli *Client) (*DatabaseInfo, error) {
	// Filter server-side on our labels so unrelated containers on the
	// host are never touched.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
		filters.Arg("label", LabelRole+"="+RoleDatabase),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "failed to list Docker containers", err)
	}
	if len(containers) == 0 {
		return nil, nil
	}

	// More than one match means a previous run leaked a container; the
	// newest one wins and `db down --remove` cleans up the rest.
	newest := containers[0]
	for _, c := range containers[1:] {
		if c.Created > newest.Created {
			newest = c
		}
	}
	return summaryToInfo(newest), nil
}

// summaryToInfo converts a Docker API container summary into DatabaseInfo.
// The API returns names with a leading "/", which is stripped for display.
func summaryToInfo(c types.Container) *DatabaseInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}
	return &DatabaseInfo{
		ID:       c.ID,
		Name:     name,
		State:    c.State,
		Image:    c.Image,
		Database: c.Labels[LabelDatabase],
		HostPort: c.Labels[LabelHostPort],
	}
}

// EnsureDatabase creates (if needed) and starts the database container,
// returning its state afterwards.
//
// The container is created from imageRef with POSTGRES_USER/PASSWORD/DB
// taken from the resolved DB configuration and container port 5432
// published on db.Port. An existing managed container is reused: stopped
// means start it, running means nothing to do. Credential changes require
// `db down --remove` first; this function never recreates silently.
func EnsureDatabase(ctx context.Context, cli *Client, db config.DB, imageRef string) (*DatabaseInfo, error) {
	if imageRef == "" {
		imageRef = DefaultImage
	}

	existing, err := FindDatabase(ctx, cli)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Running() {
			return existing, nil
		}
		if err := cli.Inner().ContainerStart(ctx, existing.ID, container.StartOptions{}); err != nil {
			return nil, model.WrapCLIError(model.ExitDockerNotRunning,
				fmt.Sprintf("failed to start database container %q", existing.Name), err)
		}
		existing.State = "running"
		return existing, nil
	}

	if err := pullImage(ctx, cli, imageRef); err != nil {
		return nil, err
	}

	portSet, portMap, err := databasePortBindings(db.Port)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "invalid database port mapping", err)
	}

	created, err := cli.Inner().ContainerCreate(ctx,
		&container.Config{
			Image: imageRef,
			Env: []string{
				"POSTGRES_USER=" + db.User,
				"POSTGRES_PASSWORD=" + db.Password,
				"POSTGRES_DB=" + db.Name,
			},
			Labels:       BuildDatabaseLabels(db, time.Now()),
			ExposedPorts: portSet,
		},
		&container.HostConfig{
			PortBindings: portMap,
		},
		nil, nil, containerName,
	)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "failed to create database container", err)
	}

	if err := cli.Inner().ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "failed to start database container", err)
	}

	return &DatabaseInfo{
		ID:       created.ID,
		Name:     containerName,
		State:    "running",
		Image:    imageRef,
		Database: db.Name,
		HostPort: db.Port,
	}, nil
}

// StopDatabase stops the managed database container if it is running.
// Returns the container info, or nil when no container exists.
func StopDatabase(ctx context.Context, cli *Client) (*DatabaseInfo, error) {
	info, err := FindDatabase(ctx, cli)
	if err != nil || info == nil {
		return info, err
	}
	if info.Running() {
		// Nil timeout uses Docker's default grace period before SIGKILL,
		// which gives Postgres time to checkpoint.
		if err := cli.Inner().ContainerStop(ctx, info.ID, container.StopOptions{}); err != nil {
			return nil, model.WrapCLIError(model.ExitDockerNotRunning,
				fmt.Sprintf("failed to stop database container %q", info.Name), err)
		}
		info.State = "exited"
	}
	return info, nil
}

// RemoveDatabase stops and removes the managed database container and its
// anonymous volumes. Returns the removed container info, or nil when no
// container existed.
func RemoveDatabase(ctx context.Context, cli *Client) (*DatabaseInfo, error) {
	info, err := StopDatabase(ctx, cli)
	if err != nil || info == nil {
		return info, err
	}
	err = cli.Inner().ContainerRemove(ctx, info.ID, container.RemoveOptions{
		RemoveVolumes: true,
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to remove database container %q", info.Name), err)
	}
	return info, nil
}

// pullImage pulls the image and drains the progress stream. The pull is
// not complete until the reader is consumed.
func pullImage(ctx context.Context, cli *Client, imageRef string) error {
	reader, err := cli.Inner().ImagePull(ctx, imageRef, image.PullOptions{})
	if err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to pull image %q", imageRef), err)
	}
	defer func() { _ = reader.Close() }()

	if _, err := io.Copy(io.Discard, reader); err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("image pull for %q interrupted", imageRef), err)
	}
	return nil
}

// databasePortBindings builds the exposed-port set and host binding map
// publishing container port 5432 on the given host port.
func databasePortBindings(hostPort string) (nat.PortSet, nat.PortMap, error) {
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(hostPort) == "" {
		return nil, nil, fmt.Errorf("host port is empty")
	}

	portSet := nat.PortSet{port: struct{}{}}
	portMap := nat.PortMap{
		port: []nat.PortBinding{
			{HostIP: "0.0.0.0", HostPort: hostPort},
		},
	}
	return portSet, portMap, nil
}
