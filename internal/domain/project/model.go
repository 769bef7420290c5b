package project

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mhutchens/taskbridge/internal/bridge"
)

// Status is the stable API vocabulary for a project's lifecycle state.
type Status string

const (
	StatusActive  Status = "active"
	StatusOnHold  Status = "on_hold"
	StatusDone    Status = "done"
	StatusDropped Status = "dropped"
)

// Statuses lists the accepted project status values.
var Statuses = []string{
	string(StatusActive),
	string(StatusOnHold),
	string(StatusDone),
	string(StatusDropped),
}

// Project is a normalized project record. FolderPath is ordered from root
// to immediate parent; empty means root level.
type Project struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Note                string     `json:"note,omitempty"`
	Status              Status     `json:"status"`
	FolderPath          []string   `json:"folder_path"`
	Sequential          bool       `json:"sequential"`
	ReviewIntervalWeeks int        `json:"review_interval_weeks,omitempty"`
	LastReviewDate      *time.Time `json:"last_review_date,omitempty"`
	NextReviewDate      *time.Time `json:"next_review_date,omitempty"`
	CreationDate        *time.Time `json:"creation_date,omitempty"`
	ModificationDate    *time.Time `json:"modification_date,omitempty"`
	CompletionDate      *time.Time `json:"completion_date,omitempty"`
	DroppedDate         *time.Time `json:"dropped_date,omitempty"`
}

// Folder is a normalized folder record; folders only contribute a
// project's materialized path.
type Folder struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Path []string `json:"path"`
}

type rawProject struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Note                string   `json:"note"`
	Status              string   `json:"status"`
	FolderPath          []string `json:"folderPath"`
	Sequential          bool     `json:"sequential"`
	ReviewIntervalWeeks int      `json:"reviewIntervalWeeks"`
	LastReviewDate      string   `json:"lastReviewDate"`
	NextReviewDate      string   `json:"nextReviewDate"`
	CreationDate        string   `json:"creationDate"`
	ModificationDate    string   `json:"modificationDate"`
	CompletionDate      string   `json:"completionDate"`
	DroppedDate         string   `json:"droppedDate"`
}

// DecodeProjects parses the bridge's JSON output into normalized projects.
func DecodeProjects(text string) ([]Project, error) {
	var raws []rawProject
	if err := json.Unmarshal([]byte(text), &raws); err != nil {
		return nil, &bridge.BackendError{Message: fmt.Sprintf("unparseable project list: %v", err)}
	}
	projects := make([]Project, 0, len(raws))
	for _, raw := range raws {
		projects = append(projects, normalizeProject(raw))
	}
	return projects, nil
}

// DecodeFolders parses the bridge's folder listing.
func DecodeFolders(text string) ([]Folder, error) {
	var folders []Folder
	if err := json.Unmarshal([]byte(text), &folders); err != nil {
		return nil, &bridge.BackendError{Message: fmt.Sprintf("unparseable folder list: %v", err)}
	}
	for i := range folders {
		if folders[i].Path == nil {
			folders[i].Path = []string{}
		}
	}
	return folders, nil
}

func normalizeProject(raw rawProject) Project {
	p := Project{
		ID:                  raw.ID,
		Name:                raw.Name,
		Note:                raw.Note,
		Status:              normalizeStatus(raw.Status),
		FolderPath:          raw.FolderPath,
		Sequential:          raw.Sequential,
		ReviewIntervalWeeks: raw.ReviewIntervalWeeks,
		LastReviewDate:      parseBackendDate(raw.LastReviewDate),
		NextReviewDate:      parseBackendDate(raw.NextReviewDate),
		CreationDate:        parseBackendDate(raw.CreationDate),
		ModificationDate:    parseBackendDate(raw.ModificationDate),
		CompletionDate:      parseBackendDate(raw.CompletionDate),
		DroppedDate:         parseBackendDate(raw.DroppedDate),
	}
	if p.FolderPath == nil {
		p.FolderPath = []string{}
	}
	return p
}

// normalizeStatus strips the backend's descriptive suffix ("on hold
// status") down to the bare API enum.
func normalizeStatus(label string) Status {
	label = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(label)), " status")
	switch label {
	case "on hold":
		return StatusOnHold
	case "done":
		return StatusDone
	case "dropped":
		return StatusDropped
	default:
		return StatusActive
	}
}

// denormalizeStatus maps the API enum back to the backend label.
func denormalizeStatus(s Status) string {
	switch s {
	case StatusOnHold:
		return "on hold status"
	case StatusDone:
		return "done status"
	case StatusDropped:
		return "dropped status"
	default:
		return "active status"
	}
}

func parseBackendDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
