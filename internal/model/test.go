package model

import (
	"strings"
	"time"
)

// TestStatus is the lifecycle state of a test
type TestStatus string

const (
	TestStatusDraft     TestStatus = "draft"     // the only state written at creation
	TestStatusPublished TestStatus = "published" // set by dashboard tooling
	TestStatusClosed    TestStatus = "closed"
)

// TestWindow is how long a new test stays open
const TestWindow = 30 * 24 * time.Hour

// DefaultTestName is used when a caller does not name the test
const DefaultTestName = "Core Values Assessment"

// Test is a generated assessment. CoreValues is a snapshot of the owner's
// list at generation time; later edits to the live list do not touch it.
type Test struct {
	Name        string      `json:"name"`
	Company     string      `json:"company"`
	Description string      `json:"description,omitempty"`
	CoreValues  []CoreValue `json:"core_values"`
	Questions   []Question  `json:"questions"`
	Status      TestStatus  `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	OwnerID     string      `json:"owner_id"`
	Students    []string    `json:"students"`
}

// ExportFileName derives the download file name from the display name
func (t *Test) ExportFileName() string {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = DefaultTestName
	}
	return strings.ReplaceAll(strings.ToLower(name), " ", "_") + ".json"
}

// CompanyFromEmail returns the first label of the email's domain,
// e.g. "jane@acme.co.uk" -> "acme"
func CompanyFromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	domain := email[at+1:]
	if dot := strings.Index(domain, "."); dot >= 0 {
		domain = domain[:dot]
	}
	return domain
}
