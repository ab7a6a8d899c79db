package models

import "time"

// Space is the grouping boundary containing a set of related branches.
type Space struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name      string    `gorm:"column:name;size:120;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the default table name.
func (Space) TableName() string {
	return "spaces"
}

// Branch is a named, independently editable snapshot of translation keys
// and values within a space. BaseBranchID records the single branch this one
// was cloned from at creation time; it is immutable and provides the
// ancestor lineage for three-way conflict classification.
type Branch struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	SpaceID      string    `gorm:"column:space_id;size:36;index;uniqueIndex:uq_branch_space_name" json:"space_id"`
	BaseBranchID *string   `gorm:"column:base_branch_id;size:36" json:"base_branch_id"`
	Name         string    `gorm:"column:name;size:120;uniqueIndex:uq_branch_space_name" json:"name"`
	IsDefault    bool      `gorm:"column:is_default" json:"is_default"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	// UpdatedAt doubles as the branch's optimistic concurrency marker:
	// every write to the branch's keys or translations moves it forward.
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the default table name.
func (Branch) TableName() string {
	return "branches"
}

// TranslationKey is a named key owned exclusively by one branch.
// Key names are unique within a branch.
type TranslationKey struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	BranchID    string    `gorm:"column:branch_id;size:36;index;uniqueIndex:uq_key_branch_name" json:"branch_id"`
	Key         string    `gorm:"column:key;size:255;uniqueIndex:uq_key_branch_name" json:"key"`
	Description string    `gorm:"column:description;size:500" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the default table name.
func (TranslationKey) TableName() string {
	return "translation_keys"
}

// Translation is the value of a key in one language. Exactly one row exists
// per (key, language) pair; absence of a row means "untranslated", which is
// distinct from an empty string value.
type Translation struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	KeyID        string    `gorm:"column:key_id;size:36;index;uniqueIndex:uq_translation_key_lang" json:"key_id"`
	LanguageCode string    `gorm:"column:language_code;size:16;uniqueIndex:uq_translation_key_lang" json:"language_code"`
	Value        string    `gorm:"column:value" json:"value"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the default table name.
func (Translation) TableName() string {
	return "translations"
}

// BranchSnapshot preserves a branch's full key/value state as it was at
// clone time, serialized as JSON. It is the ancestor used for three-way
// conflict classification when the branch is later diffed against its base.
type BranchSnapshot struct {
	BranchID  string    `gorm:"column:branch_id;primaryKey;size:36" json:"branch_id"`
	State     []byte    `gorm:"column:state" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the default table name.
func (BranchSnapshot) TableName() string {
	return "branch_snapshots"
}

// Environment is an external pointer to a branch (e.g. a deployment target).
// A branch referenced by an environment cannot be deleted.
type Environment struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	SpaceID   string    `gorm:"column:space_id;size:36;index" json:"space_id"`
	Name      string    `gorm:"column:name;size:120" json:"name"`
	BranchID  string    `gorm:"column:branch_id;size:36;index" json:"branch_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the default table name.
func (Environment) TableName() string {
	return "environments"
}

// All returns every model in this package, in migration order.
func All() []any {
	return []any{&Space{}, &Branch{}, &TranslationKey{}, &Translation{}, &BranchSnapshot{}, &Environment{}}
}
