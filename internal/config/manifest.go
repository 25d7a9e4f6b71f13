package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/hailstack/hailstack/internal/model"
)

// DefaultManifestName is the manifest file `hailstack up` looks for in the
// working directory when no --manifest flag is given. The JSON and JSONC
// spellings are accepted as well, in that order.
const DefaultManifestName = "hailstack.yaml"

// manifestCandidates lists the file names probed by FindManifest,
// most-preferred first.
var manifestCandidates = []string{
	"hailstack.yaml",
	"hailstack.yml",
	"hailstack.json",
	"hailstack.jsonc",
}

// Service describes one stack process to launch: an already-built
// application started with a fixed command line. The launcher passes the
// database environment through to every service; Env adds per-service
// extras on top.
type Service struct {
	// Name identifies the service in launcher output and logs.
	Name string `yaml:"name" json:"name"`

	// Command is the argv to execute. The first element is the program.
	Command []string `yaml:"command" json:"command"`

	// Dir is the working directory for the process. Empty means the
	// launcher's own working directory.
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// Port is the TCP port the service is expected to bind. Used only
	// for the advisory preflight check and for display; the launcher
	// never enforces it. Zero means no port.
	Port int `yaml:"port,omitempty" json:"port,omitempty"`

	// Env holds additional environment variables for this service,
	// applied after the shared database variables.
	Env map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// Manifest is the parsed stack manifest.
type Manifest struct {
	// Services lists the processes to launch, in launch order.
	Services []Service `yaml:"services" json:"services"`
}

// serviceNameRegex matches valid service names: alphanumeric and hyphens,
// starting and ending with an alphanumeric character.
var serviceNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)

// FindManifest locates the stack manifest. An explicit path wins and must
// exist; otherwise the default file names are probed in the given
// directory, and an empty path means none was found (callers fall back to
// the built-in default manifest).
func FindManifest(dir, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", model.WrapCLIError(model.ExitManifestError,
				fmt.Sprintf("stack manifest not found: %s", explicit), err)
		}
		return explicit, nil
	}

	for _, name := range manifestCandidates {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// LoadManifest reads and validates a stack manifest. The format is chosen
// by extension: .yaml/.yml parse as YAML, .json/.jsonc parse as JSONC
// (comments and trailing commas stripped before encoding/json).
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitManifestError,
			fmt.Sprintf("failed to read stack manifest %s", path), err)
	}

	var m Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, model.WrapCLIError(model.ExitManifestError,
				fmt.Sprintf("failed to parse stack manifest %s", path), err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
			return nil, model.WrapCLIError(model.ExitManifestError,
				fmt.Sprintf("failed to parse stack manifest %s", path), err)
		}
	default:
		return nil, model.NewCLIError(model.ExitManifestError,
			fmt.Sprintf("unsupported manifest format %q (use .yaml, .yml, .json or .jsonc)", filepath.Ext(path)))
	}

	if err := m.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitManifestError,
			fmt.Sprintf("invalid stack manifest %s", path), err)
	}
	return &m, nil
}

// Validate checks the manifest structure: at least one service, valid
// names and commands, sane ports, no duplicate names or ports. Environment
// variable values are not validated — they are the services' business.
func (m *Manifest) Validate() error {
	if len(m.Services) == 0 {
		return fmt.Errorf("manifest defines no services")
	}

	seenNames := make(map[string]struct{}, len(m.Services))
	seenPorts := make(map[int]string, len(m.Services))

	for i, svc := range m.Services {
		if svc.Name == "" {
			return fmt.Errorf("service[%d] has no name", i)
		}
		if !serviceNameRegex.MatchString(svc.Name) {
			return fmt.Errorf("service[%d] name %q invalid: alphanumeric and hyphens only", i, svc.Name)
		}
		if _, dup := seenNames[svc.Name]; dup {
			return fmt.Errorf("duplicate service name %q", svc.Name)
		}
		seenNames[svc.Name] = struct{}{}

		if len(svc.Command) == 0 || svc.Command[0] == "" {
			return fmt.Errorf("service %q has no command", svc.Name)
		}

		if svc.Port != 0 {
			if svc.Port < 1 || svc.Port > 65535 {
				return fmt.Errorf("service %q port %d out of range (1-65535)", svc.Name, svc.Port)
			}
			if owner, dup := seenPorts[svc.Port]; dup {
				return fmt.Errorf("services %q and %q both claim port %d", owner, svc.Name, svc.Port)
			}
			seenPorts[svc.Port] = svc.Name
		}
	}
	return nil
}

// DefaultManifest returns the built-in stack definition used by
// `hailstack up --print-manifest` to scaffold a manifest file: the
// orchestrator API on port 8000 and the event service on port 8080,
// mirroring the stack this tool was built to run.
func DefaultManifest() *Manifest {
	return &Manifest{
		Services: []Service{
			{
				Name:    "orchestrator",
				Command: []string{"uvicorn", "main:app", "--host", "0.0.0.0", "--port", "8000"},
				Port:    8000,
			},
			{
				Name:    "events",
				Command: []string{"uvicorn", "event.event_server:app", "--host", "0.0.0.0", "--port", "8080"},
				Port:    8080,
			},
		},
	}
}
