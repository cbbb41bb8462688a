package quality

import (
	"time"

	"github.com/google/uuid"
)

type Result string

const (
	ResultPass    Result = "PASS"
	ResultFail    Result = "FAIL"
	ResultWarning Result = "WARNING"
)

// CheckResult is the outcome of a single validation check. Results are
// append-only: a new pipeline run adds new rows rather than overwriting
// earlier outcomes.
type CheckResult struct {
	Id          uuid.UUID
	TableName   string
	CheckName   string
	Result      Result
	Details     string
	RecordCount int64
	CheckedAt   time.Time
}

func NewCheckResult(tableName string, checkName string, result Result, details string, recordCount int64) CheckResult {
	return CheckResult{
		Id:          uuid.New(),
		TableName:   tableName,
		CheckName:   checkName,
		Result:      result,
		Details:     details,
		RecordCount: recordCount,
		CheckedAt:   time.Now().UTC(),
	}
}
