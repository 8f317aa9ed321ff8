package org

import "time"

type Department struct {
	ID        string
	TenantID  string
	Name      string
	ManagerID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Site keeps the legacy single ManagerID column. New assignments go through
// the SiteManager join table; the legacy column is read as a fallback only.
type Site struct {
	ID           string
	TenantID     string
	Name         string
	ManagerID    *string
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SiteManager assigns a manager to a site, optionally restricted to one
// department within that site.
type SiteManager struct {
	ID           string
	TenantID     string
	SiteID       string
	ManagerID    string
	DepartmentID *string
	CreatedAt    time.Time
}

type Team struct {
	ID        string
	TenantID  string
	Name      string
	ManagerID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
