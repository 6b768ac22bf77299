package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/bhcwatch/y9c/internal/catalog"
	"github.com/bhcwatch/y9c/internal/common"
	"github.com/bhcwatch/y9c/internal/downloader"
	"github.com/bhcwatch/y9c/internal/loader"
	"github.com/bhcwatch/y9c/internal/model"
	"github.com/bhcwatch/y9c/internal/storage"
)

// openStorage opens the configured SQLite database, creating parent
// directories as needed. Callers own the returned handle and must Close it.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return store, nil
}

func dataDirs() (raw, manual string, err error) {
	root := viper.GetString("data.dir")
	raw = filepath.Join(root, "raw")
	manual = filepath.Join(root, "manual_downloads")

	for _, dir := range []string{raw, manual} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return raw, manual, nil
}

func newDownloader() (*downloader.Downloader, error) {
	raw, manual, err := dataDirs()
	if err != nil {
		return nil, err
	}

	return downloader.New(raw, manual), nil
}

func newLoader(store *storage.SQLiteStorage) (*loader.Loader, error) {
	raw, _, err := dataDirs()
	if err != nil {
		return nil, err
	}

	rssdID := viper.GetString("institution.rssd_id")
	if rssdID == "" {
		return nil, fmt.Errorf("%w: institution.rssd_id", common.ErrMissingConfig)
	}

	return loader.New(store, raw, rssdID, catalog.Codes()), nil
}

func configuredInstitution() model.Institution {
	return model.Institution{
		RSSDID:           viper.GetString("institution.rssd_id"),
		Name:             viper.GetString("institution.name"),
		City:             viper.GetString("institution.city"),
		State:            viper.GetString("institution.state"),
		EntityType:       viper.GetString("institution.entity_type"),
		PrimaryRegulator: viper.GetString("institution.primary_regulator"),
	}
}
