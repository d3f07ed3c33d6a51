package db

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// Config holds the repository settings read from <gitdir>/config.
type Config struct {
	FormatVersion int
	FileMode      bool
	Bare          bool
	UserName      string
	UserEmail     string
}

// LoadConfig reads and validates the config file at path.  Only
// repository format version 0 is supported.
func LoadConfig(path string) (conf *Config, err error) {
	if !canstat(path) {
		return nil, &ConfigError{Path: path, Reason: "missing"}
	}
	file, err := ini.Load(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: err.Error()}
	}
	core := file.Section("core")
	if !core.HasKey("repositoryformatversion") {
		return nil, &ConfigError{Path: path, Reason: "core.repositoryformatversion not set"}
	}
	version, err := core.Key("repositoryformatversion").Int()
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: err.Error()}
	}
	if version != 0 {
		return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("unsupported repositoryformatversion %d", version)}
	}
	conf = &Config{
		FormatVersion: version,
		FileMode:      core.Key("filemode").MustBool(false),
		Bare:          core.Key("bare").MustBool(false),
		UserName:      file.Section("user").Key("name").String(),
		UserEmail:     file.Section("user").Key("email").String(),
	}
	return
}

// writeDefaultConfig writes the config Create gives a new repository.
func writeDefaultConfig(path string) (err error) {
	file := ini.Empty()
	core, err := file.NewSection("core")
	if err != nil {
		return
	}
	for _, kv := range [][2]string{
		{"repositoryformatversion", "0"},
		{"filemode", "false"},
		{"bare", "false"},
	} {
		_, err = core.NewKey(kv[0], kv[1])
		if err != nil {
			return
		}
	}
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, WRITE)
	if err != nil {
		return
	}
	_, err = file.WriteTo(fh)
	if err != nil {
		fh.Close()
		return
	}
	return fh.Close()
}
