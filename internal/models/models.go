package models

import "time"

// SessionState is the staging state of a report session
type SessionState string

const (
	StateEmpty  SessionState = "empty"
	StateStaged SessionState = "staged"
)

// ReportSession holds the images staged for the next generation action
type ReportSession struct {
	ID        string        `json:"id"`
	State     SessionState  `json:"state"`
	Epoch     int           `json:"epoch"`
	Images    []SourceImage `json:"images"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SourceImage is an uploaded photograph. Data is never serialized to clients.
type SourceImage struct {
	Filename string `json:"filename"`
	Size     int    `json:"size"`
	Data     []byte `json:"-"`
}

// NormalizedImage is a re-encoded JPEG written to a scratch file
type NormalizedImage struct {
	Filename string
	Path     string
	Width    int
	Height   int
}

// Letterhead is the fixed identity block printed at the top of every report
type Letterhead struct {
	Project string `yaml:"project" json:"project"`
	Name    string `yaml:"name" json:"name"`
	Email   string `yaml:"email" json:"email"`
	Address string `yaml:"address" json:"address"`
}

// ReportMetadata is the free-text input of one generation pass
type ReportMetadata struct {
	Weather        string
	Subcontractors []string
	Areas          []string
	Letterhead     Letterhead
	Date           time.Time
}
