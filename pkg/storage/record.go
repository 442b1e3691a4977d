package storage

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/jdziat/simple-eca/pkg/rule"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RuleRecord is the database row for a rule.
type RuleRecord struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Name       string    `gorm:"uniqueIndex;size:255;not null"`
	Event      string    `gorm:"index;size:255;not null"`
	Priority   int       `gorm:"index;default:0"`
	Disabled   bool      `gorm:"default:false"`
	Conditions []byte    `gorm:"type:bytes"` // JSON-encoded []rule.Step
	Actions    []byte    `gorm:"type:bytes"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName sets the table name for RuleRecord.
func (RuleRecord) TableName() string {
	return "eca_rules"
}

func toRecord(r rule.Rule) (*RuleRecord, error) {
	conditions, err := json.Marshal(r.Conditions)
	if err != nil {
		return nil, err
	}
	actions, err := json.Marshal(r.Actions)
	if err != nil {
		return nil, err
	}
	return &RuleRecord{
		ID:         r.ID,
		Name:       r.Name,
		Event:      r.Event,
		Priority:   r.Priority,
		Disabled:   r.Disabled,
		Conditions: conditions,
		Actions:    actions,
	}, nil
}

// Rule decodes the record.
func (rec *RuleRecord) Rule() (rule.Rule, error) {
	r := rule.Rule{
		ID:       rec.ID,
		Name:     rec.Name,
		Event:    rec.Event,
		Priority: rec.Priority,
		Disabled: rec.Disabled,
	}
	if len(rec.Conditions) > 0 {
		if err := json.Unmarshal(rec.Conditions, &r.Conditions); err != nil {
			return rule.Rule{}, err
		}
	}
	if len(rec.Actions) > 0 {
		if err := json.Unmarshal(rec.Actions, &r.Actions); err != nil {
			return rule.Rule{}, err
		}
	}
	return r, nil
}
