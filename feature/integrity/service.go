package integrity

import (
	"fmt"
	"sort"

	"translation-manager/core/database"
	"translation-manager/feature/branches/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// expectedColumns lists, per table, the columns the application relies on.
var expectedColumns = map[string][]string{
	models.Space{}.TableName():          {"id", "name", "created_at", "updated_at"},
	models.Branch{}.TableName():         {"id", "space_id", "base_branch_id", "name", "is_default", "created_at", "updated_at"},
	models.TranslationKey{}.TableName(): {"id", "branch_id", "key", "description", "created_at", "updated_at"},
	models.Translation{}.TableName():    {"id", "key_id", "language_code", "value", "created_at", "updated_at"},
	models.BranchSnapshot{}.TableName(): {"branch_id", "state", "created_at"},
	models.Environment{}.TableName():    {"id", "space_id", "name", "branch_id", "created_at", "updated_at"},
}

// TableReport is the schema check result for a single table.
type TableReport struct {
	Table          string   `json:"table"`
	Exists         bool     `json:"exists"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	Status         string   `json:"status"` // "PASS" or "FAIL"
}

// Service verifies that the database schema matches the translation models.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CheckSchema inspects every translation table and reports missing tables
// and columns. Reports are ordered by table name.
func (s *Service) CheckSchema() ([]TableReport, error) {
	if s.db == nil {
		return nil, fmt.Errorf("no database connection")
	}

	reports := make([]TableReport, 0, len(expectedColumns))
	for table, expected := range expectedColumns {
		report := TableReport{Table: table, Status: "PASS"}

		columns, err := database.GetTableColumns(s.db, table)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			report.Exists = false
			report.Status = "FAIL"
			reports = append(reports, report)
			continue
		}

		report.Exists = true
		present := make(map[string]struct{}, len(columns))
		for _, col := range columns {
			present[col.Field] = struct{}{}
		}
		for _, name := range expected {
			if _, ok := present[name]; !ok {
				report.MissingColumns = append(report.MissingColumns, name)
			}
		}
		if len(report.MissingColumns) > 0 {
			report.Status = "FAIL"
		}
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Table < reports[j].Table
	})
	return reports, nil
}
