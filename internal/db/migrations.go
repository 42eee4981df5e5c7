package db

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/terraincognita07/lunacycle/migrations"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_[^/]*\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?is)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+(?:COLUMN\s+)?(\S+)`)

	errEmptyMigration = errors.New("migration has no SQL statements")
)

// schemaMigration is one row of the applied-migration ledger.
type schemaMigration struct {
	Version   string    `gorm:"column:version;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type migrationFile struct {
	Version string
	Order   int
	Name    string
	SQL     string
}

// migrate applies every pending file from the embedded migrations directory
// and returns the names it ran.
func migrate(database *gorm.DB) ([]string, error) {
	return migrateFrom(database, migrations.Files)
}

func migrateFrom(database *gorm.DB, files fs.FS) ([]string, error) {
	if err := database.AutoMigrate(&schemaMigration{}); err != nil {
		return nil, fmt.Errorf("prepare schema_migrations: %w", err)
	}

	pending, err := readMigrations(files)
	if err != nil {
		return nil, err
	}

	var done []string
	if err := database.Model(&schemaMigration{}).Pluck("version", &done).Error; err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(done))
	for _, version := range done {
		applied[version] = true
	}

	var ran []string
	for _, file := range pending {
		if applied[file.Version] {
			continue
		}
		if err := runMigration(database, file); err != nil {
			return ran, err
		}
		ran = append(ran, file.Name)
	}
	return ran, nil
}

// readMigrations lists NNN_name.sql files ordered by their numeric prefix.
func readMigrations(files fs.FS) ([]migrationFile, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	result := make([]migrationFile, 0, len(names))
	byOrder := make(map[int]string, len(names))
	for _, name := range names {
		match := migrationNamePattern.FindStringSubmatch(path.Base(name))
		if match == nil {
			continue
		}

		order, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		if other, taken := byOrder[order]; taken {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", match[1], other, name)
		}
		byOrder[order] = name

		body, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		result = append(result, migrationFile{Version: match[1], Order: order, Name: name, SQL: string(body)})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func runMigration(database *gorm.DB, file migrationFile) error {
	statements := sqlStatements(file.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s: %w", file.Name, errEmptyMigration)
	}

	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			if columnAlreadyAdded(tx, statement) {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("migration %s: %q: %w", file.Name, statement, err)
			}
		}

		record := schemaMigration{Version: file.Version, Name: file.Name, AppliedAt: time.Now().UTC()}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", file.Name, err)
		}
		return nil
	})
}

func sqlStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// columnAlreadyAdded makes ALTER TABLE ... ADD COLUMN safe to replay against
// databases created before the migration ledger existed.
func columnAlreadyAdded(tx *gorm.DB, statement string) bool {
	match := addColumnPattern.FindStringSubmatch(statement)
	if match == nil {
		return false
	}
	table := strings.Trim(match[1], "\"`[]")
	column := strings.Trim(match[2], "\"`[]")
	return tx.Migrator().HasColumn(table, column)
}
