package runner

import (
	"os"
	"path/filepath"

	envutil "github.com/projectdiscovery/utils/env"
	folderutil "github.com/projectdiscovery/utils/folder"
	"gopkg.in/yaml.v3"
)

var (
	configDir                     = folderutil.AppConfigDirOrDefault(".", "subdig")
	defaultProviderConfigLocation = envutil.GetEnvOrDefault("SUBDIG_PROVIDER_CONFIG", filepath.Join(configDir, "provider-config.yaml"))
)

// ProviderConfig holds per-source API keys, keyed by source tag. None of
// the nine registry sources currently need a key; this shape exists so a
// future keyed source has somewhere to put one, matching the provider
// config layout conventional for this class of CLI.
type ProviderConfig struct {
	APIKeys map[string][]string
}

// loadProviderConfig reads the provider config file at path, returning an
// empty config if the file does not exist yet.
func loadProviderConfig(path string) (*ProviderConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &ProviderConfig{APIKeys: map[string][]string{}}, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := &ProviderConfig{APIKeys: map[string][]string{}}
	if err := yaml.Unmarshal(data, &cfg.APIKeys); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createDefaultProviderConfig writes an empty, commented provider config
// file at path if nothing is there yet, mirroring the teacher's
// first-run config bootstrap.
func createDefaultProviderConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	const header = "# subdig provider config\n" +
		"# none of the built-in sources require an API key; this file is a\n" +
		"# placeholder for sources that are added later and do.\n"
	return os.WriteFile(path, []byte(header), 0o644)
}
