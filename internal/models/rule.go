package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// AntiDetectionRule - справочное правило. Заполняется сидом, в рантайме не меняется.
type AntiDetectionRule struct {
	BaseModel
	Key          string       `gorm:"uniqueIndex;not null"`
	Name         string       `gorm:"not null"`
	Category     string       `gorm:"type:varchar(50)"`
	Severity     RuleSeverity `gorm:"type:varchar(20);not null"`
	Description  string
	DoExamples   datatypes.JSON `gorm:"type:jsonb"`
	DontExamples datatypes.JSON `gorm:"type:jsonb"`
	Tips         datatypes.JSON `gorm:"type:jsonb"`
	SortOrder    int            `gorm:"default:0"`
}

func (r *AntiDetectionRule) GetDoExamples() []string {
	return decodeStrings(r.DoExamples)
}

func (r *AntiDetectionRule) GetDontExamples() []string {
	return decodeStrings(r.DontExamples)
}

func (r *AntiDetectionRule) GetTips() []string {
	return decodeStrings(r.Tips)
}

// RuleViolation - запись в журнале нарушений гида
type RuleViolation struct {
	BaseModel
	GuideID      string `gorm:"type:uuid;index;not null"`
	RuleKey      string `gorm:"index;not null"`
	SubmissionID *string
	Note         string
	RecordedBy   string
}

func decodeStrings(raw datatypes.JSON) []string {
	var out []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

// EncodeStrings упаковывает список строк в JSON-колонку
func EncodeStrings(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return datatypes.JSON(b)
}
