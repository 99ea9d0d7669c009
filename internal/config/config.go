package config

import (
	"time"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

// Config is the root importer configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Import   ImportConfig   `yaml:"import"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// The importer holds exactly one connection for the whole run.
type DatabaseConfig struct {
	DSN            string        `yaml:"dsn"             env:"DATABASE_DSN"             env-required:"true"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DATABASE_CONNECT_TIMEOUT" env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// ImportConfig holds the dataset files and run parameters.
type ImportConfig struct {
	SchoolPath               string `yaml:"school_path"                env:"IMPORT_SCHOOL_PATH"                env-default:"data/okullar.xlsx"`
	SchoolType               string `yaml:"school_type"                env:"IMPORT_SCHOOL_TYPE"                env-default:"ortaokul"`
	AssociationPath          string `yaml:"association_path"           env:"IMPORT_ASSOCIATION_PATH"           env-default:"data/dernekler.xlsx"`
	Sheet                    string `yaml:"sheet"                      env:"IMPORT_SHEET"`
	SchoolProgressEvery      int    `yaml:"school_progress_every"      env:"IMPORT_SCHOOL_PROGRESS_EVERY"      env-default:"500"`
	AssociationProgressEvery int    `yaml:"association_progress_every" env:"IMPORT_ASSOCIATION_PROGRESS_EVERY" env-default:"100"`
	ErrorPreviewLimit        int    `yaml:"error_preview_limit"        env:"IMPORT_ERROR_PREVIEW_LIMIT"        env-default:"10"`
	TopProvinces             int    `yaml:"top_provinces"              env:"IMPORT_TOP_PROVINCES"              env-default:"10"`
	AuditDir                 string `yaml:"audit_dir"                  env:"IMPORT_AUDIT_DIR"`
	DryRun                   bool   `yaml:"dry_run"                    env:"IMPORT_DRY_RUN"`
}

// SchoolKind returns SchoolType as a domain value. Validate guarantees it is valid.
func (c ImportConfig) SchoolKind() domain.SchoolType {
	return domain.SchoolType(c.SchoolType)
}

// ProgressEvery returns the success interval between progress log records for a dataset.
func (c ImportConfig) ProgressEvery(kind domain.DatasetKind) int {
	if kind == domain.DatasetAssociations {
		return c.AssociationProgressEvery
	}
	return c.SchoolProgressEvery
}

// Path returns the configured source file of a dataset.
func (c ImportConfig) Path(kind domain.DatasetKind) string {
	if kind == domain.DatasetAssociations {
		return c.AssociationPath
	}
	return c.SchoolPath
}
