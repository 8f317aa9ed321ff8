package org

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrSiteNotFound       = errors.New("site not found")
	ErrTeamNotFound       = errors.New("team not found")
)
