package am

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/vkdoc/errors"
)

// backupCount is how many previous versions Write keeps (.back1 newest)
const backupCount = 3

func backupPath(configPath string, n int) string {
	return configPath + ".back" + strconv.Itoa(n)
}

// rotateBackups shifts path.backN to path.backN+1, dropping the oldest, and
// copies the current file to path.back1. A missing file needs no backup.
func rotateBackups(configPath string) error {
	content, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read %s for backup", configPath)
	}

	oldest := backupPath(configPath, backupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete old backup %s", oldest)
	}
	for n := backupCount - 1; n >= 1; n-- {
		from, to := backupPath(configPath, n), backupPath(configPath, n+1)
		if err := os.Rename(from, to); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to rotate %s", from)
		}
	}

	if err := os.WriteFile(backupPath(configPath, 1), content, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write backup of %s", configPath)
	}
	return nil
}

// Marshal renders the configuration as TOML
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return data, nil
}

// Write saves cfg to path, keeping rotating backups of any file it replaces
func Write(cfg *Config, path string) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := rotateBackups(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// WriteDefault writes the default configuration to path
func WriteDefault(path string) error {
	return Write(DefaultConfig(), path)
}
