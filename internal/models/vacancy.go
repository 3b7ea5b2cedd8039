package models

import (
	"fmt"
	"strings"
)

// Status is the publication state of a vacancy.
type Status string

const (
	StatusActive   Status = "active"
	StatusClosed   Status = "closed"
	StatusDraft    Status = "draft"
	StatusOutdated Status = "outdated"
)

// Statuses lists every status the service accepts, in display order.
var Statuses = []Status{StatusActive, StatusClosed, StatusDraft, StatusOutdated}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label is the display name of s; unrecognised values read "unknown".
func (s Status) Label() string {
	if !s.Valid() {
		return "unknown"
	}
	return string(s)
}

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown status: %s", value)
	}
	return status, nil
}

// Vacancy is a posting as returned by the vacancy service.
type Vacancy struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	CompanyName    string     `json:"company_name"`
	CompanyAddress string     `json:"company_address"`
	CompanyLogo    string     `json:"company_logo,omitempty"`
	Description    string     `json:"description"`
	Status         Status     `json:"status"`
	HHID           string     `json:"hh_id,omitempty"`
	CreatedAt      Timestamp  `json:"created_at"`
	PublishedAt    *Timestamp `json:"published_at,omitempty"`
	UpdatedAt      *Timestamp `json:"updated_at,omitempty"`
}

// HasExternalID reports whether the vacancy can be refreshed from HH.
func (v Vacancy) HasExternalID() bool {
	return strings.TrimSpace(v.HHID) != ""
}

// ExternalURL is the public HH page of the vacancy, or "" without an hh_id.
func (v Vacancy) ExternalURL() string {
	if !v.HasExternalID() {
		return ""
	}
	return "https://hh.ru/vacancy/" + strings.TrimSpace(v.HHID)
}
