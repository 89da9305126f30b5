package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Credentials holds the API token used for the Authorization header.
// The token never lives in config.json so the config can be committed.
type Credentials struct {
	Token string `toml:"token"`
}

// LoadCredentials reads <root>/.qber/credentials.toml. The QBER_TOKEN
// environment variable, when set, takes precedence over the file. A missing
// file with no env var yields empty credentials, not an error: anonymous
// read-only access is valid against public questionnaires.
func LoadCredentials(root string) (*Credentials, error) {
	if token := os.Getenv("QBER_TOKEN"); token != "" {
		return &Credentials{Token: token}, nil
	}

	path := filepath.Join(root, ".qber", "credentials.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{}, nil
		}
		return nil, err
	}

	var creds Credentials
	if err := toml.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Save writes the credentials file with owner-only permissions.
func (c *Credentials) Save(root string) error {
	dir := filepath.Join(root, ".qber")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "credentials.toml"),
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
