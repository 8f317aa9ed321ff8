package org

// LevelKind discriminates the manager level a user resolves to. The set is
// closed; callers switch over it exhaustively.
type LevelKind string

const (
	LevelNone       LevelKind = "NONE"
	LevelDepartment LevelKind = "DEPARTMENT"
	LevelSite       LevelKind = "SITE"
	LevelTeam       LevelKind = "TEAM"
)

// ManagerLevel is the resolved authority of a user. Exactly the fields of
// the matching Kind are populated:
//
//	DEPARTMENT: DepartmentID
//	SITE:       SiteIDs, optionally SiteDepartmentID restricting the scope
//	            to one department across those sites
//	TEAM:       TeamID
//	NONE:       nothing
type ManagerLevel struct {
	Kind             LevelKind
	DepartmentID     string
	SiteIDs          []string
	SiteDepartmentID *string
	TeamID           string
}

func NoLevel() ManagerLevel {
	return ManagerLevel{Kind: LevelNone}
}

func (l ManagerLevel) IsManager() bool {
	return l.Kind != LevelNone
}
