/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/friendsincode/grimnir_rotation/internal/models"
)

// Migrate creates the catalog tables. The rotation tools only read them, but
// local SQLite catalogs and tests need the schema in place.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(
		&models.Station{},
		&models.MediaItem{},
		&models.PlayHistory{},
	); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}
	return nil
}
