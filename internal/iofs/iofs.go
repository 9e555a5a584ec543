package iofs

import (
	_ "embed"
	"os"

	"github.com/gnames/geobuckets/pkg/config"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var ConfigYAML string

// SeedYAML contains sample listings around Lagos.
//
//go:embed seed.yaml
var SeedYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	// Write embedded config.yaml to the config directory
	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// SeedListings returns the embedded sample listings.
func SeedListings() ([]geobucket.ListingInput, error) {
	return parseListings("seed.yaml", []byte(SeedYAML))
}

// ReadListings reads listings from a YAML file. A YAML sequence of
// listings is expected. JSON arrays are accepted as well.
func ReadListings(path string) ([]geobucket.ListingInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return parseListings(path, data)
}

func parseListings(path string, data []byte) ([]geobucket.ListingInput, error) {
	var res []geobucket.ListingInput
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, ParseFileError(path, err)
	}
	return res, nil
}
