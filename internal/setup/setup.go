// Package setup registers the stdio MCP server with a desktop MCP client.
package setup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ServerKey names this server inside the client's mcpServers table.
const ServerKey = "naranjo-adr-assessor"

// DataDirEnv is passed to the registered server so it finds the same settings database.
const DataDirEnv = "NARANJO_DATA_DIR"

// ServerEntry is a single MCP server launch definition.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// ClientConfig is the client's configuration file. Keys other than mcpServers are
// carried through untouched.
type ClientConfig struct {
	MCPServers map[string]ServerEntry
	other      map[string]json.RawMessage
}

// Options controls how the server is registered.
type Options struct {
	BinaryPath string
	DataDir    string
	ConfigFile string
}

// Status describes the current registration.
type Status struct {
	ConfigPath string   `json:"config_path"`
	Registered bool     `json:"registered"`
	Command    string   `json:"command,omitempty"`
	DataDir    string   `json:"data_dir,omitempty"`
	Issues     []string `json:"issues"`
}

// DefaultClientConfigPath returns the desktop client's config file location for this OS.
func DefaultClientConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support", "Claude")
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "Claude")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config", "Claude")
		}
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New("APPDATA environment variable not set")
		}
		configDir = filepath.Join(appData, "Claude")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return filepath.Join(configDir, "claude_desktop_config.json"), nil
}

// Load reads the client configuration. A missing file yields an empty configuration.
func Load(path string) (*ClientConfig, error) {
	cfg := &ClientConfig{
		MCPServers: make(map[string]ServerEntry),
		other:      make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg.other); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw, ok := cfg.other["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &cfg.MCPServers); err != nil {
			return nil, fmt.Errorf("failed to parse mcpServers: %w", err)
		}
		delete(cfg.other, "mcpServers")
		if cfg.MCPServers == nil {
			cfg.MCPServers = make(map[string]ServerEntry)
		}
	}

	return cfg, nil
}

// Save writes the configuration, creating its directory when needed.
func Save(path string, cfg *ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := make(map[string]any, len(cfg.other)+1)
	for k, v := range cfg.other {
		out[k] = v
	}
	out["mcpServers"] = cfg.MCPServers

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Register adds or replaces this server's entry in the client configuration at path.
func Register(path string, opts Options) (ServerEntry, error) {
	binary := opts.BinaryPath
	if binary == "" {
		exe, err := os.Executable()
		if err != nil {
			return ServerEntry{}, fmt.Errorf("could not determine binary path: %w", err)
		}
		binary = exe
	}
	if abs, err := filepath.Abs(binary); err == nil {
		binary = abs
	}

	entry := ServerEntry{Command: binary, Args: []string{"mcp"}}
	if opts.ConfigFile != "" {
		entry.Args = append(entry.Args, "--config", opts.ConfigFile)
	}
	if opts.DataDir != "" {
		entry.Env = map[string]string{DataDirEnv: opts.DataDir}
	}

	cfg, err := Load(path)
	if err != nil {
		return ServerEntry{}, err
	}
	cfg.MCPServers[ServerKey] = entry
	if err := Save(path, cfg); err != nil {
		return ServerEntry{}, err
	}
	return entry, nil
}

// Inspect reports whether the server is registered at path and whether the entry is usable.
func Inspect(path string) (*Status, error) {
	status := &Status{ConfigPath: path, Issues: []string{}}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	entry, ok := cfg.MCPServers[ServerKey]
	if !ok {
		status.Issues = append(status.Issues, "server is not registered with the MCP client")
		return status, nil
	}

	status.Registered = true
	status.Command = entry.Command
	status.DataDir = entry.Env[DataDirEnv]

	info, err := os.Stat(entry.Command)
	switch {
	case os.IsNotExist(err):
		status.Issues = append(status.Issues, fmt.Sprintf("server binary not found: %s", entry.Command))
	case err == nil && runtime.GOOS != "windows" && info.Mode()&0111 == 0:
		status.Issues = append(status.Issues, fmt.Sprintf("server binary is not executable: %s", entry.Command))
	}

	return status, nil
}
