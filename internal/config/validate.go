package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if err := c.Import.validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	return nil
}

func (c *ImportConfig) validate() error {
	c.SchoolType = strings.ToLower(strings.TrimSpace(c.SchoolType))
	if !c.SchoolKind().IsValid() {
		return fmt.Errorf("school_type must be one of ortaokul, lise (got %q)", c.SchoolType)
	}
	if c.SchoolProgressEvery <= 0 {
		return fmt.Errorf("school_progress_every must be > 0 (got %d)", c.SchoolProgressEvery)
	}
	if c.AssociationProgressEvery <= 0 {
		return fmt.Errorf("association_progress_every must be > 0 (got %d)", c.AssociationProgressEvery)
	}
	if c.ErrorPreviewLimit < 0 {
		return fmt.Errorf("error_preview_limit must be >= 0 (got %d)", c.ErrorPreviewLimit)
	}
	if c.TopProvinces < 0 {
		return fmt.Errorf("top_provinces must be >= 0 (got %d)", c.TopProvinces)
	}
	return nil
}
