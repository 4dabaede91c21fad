// internal/workers/application/create-application-record/code.go
package createapplicationrecord

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// CodeGenerator draws applicant codes.
type CodeGenerator func() string

// NewApplicantCode formats APP-<last six digits of unix millis>-<0..999>.
func NewApplicantCode(now time.Time, suffix int) string {
	return fmt.Sprintf("APP-%06d-%d", now.UnixMilli()%1_000_000, suffix%1000)
}

func randomCode() string {
	return NewApplicantCode(time.Now(), rand.IntN(1000))
}
