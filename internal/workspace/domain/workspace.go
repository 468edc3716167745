package domain

import (
	"errors"
	"slices"
	"strings"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrNotOwner          = errors.New("only the workspace owner can do this")
	ErrAlreadyMember     = errors.New("user is already a member of this workspace")
	ErrEmptyName         = errors.New("workspace name is required")
	ErrNoActiveWorkspace = errors.New("no active workspace selected")
	ErrInvalidFilter     = errors.New("invalid filter")
)

// Color is the visual tag of a workspace.
type Color string

const (
	ColorIndigo  Color = "indigo"
	ColorEmerald Color = "emerald"
	ColorRose    Color = "rose"
	ColorAmber   Color = "amber"
	ColorSky     Color = "sky"
	ColorViolet  Color = "violet"
	ColorSlate   Color = "slate"
)

var Colors = []Color{ColorIndigo, ColorEmerald, ColorRose, ColorAmber, ColorSky, ColorViolet, ColorSlate}

// ParseColor maps free input onto the palette. Unknown or empty values become indigo.
func ParseColor(raw string) Color {
	c := Color(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(Colors, c) {
		return c
	}
	return ColorIndigo
}

type Workspace struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Color      Color    `json:"color"`
	OwnerEmail string   `json:"ownerEmail"`
	Members    []string `json:"members"`
}

func (w *Workspace) IsOwner(email string) bool {
	return email != "" && w.OwnerEmail == email
}

func (w *Workspace) HasMember(email string) bool {
	return slices.Contains(w.Members, email)
}

// VisibleTo reports whether the user owns the workspace or is listed as a member.
func (w *Workspace) VisibleTo(email string) bool {
	if email == "" {
		return false
	}
	return w.IsOwner(email) || w.HasMember(email)
}

// Clone returns a copy that shares no slices with w.
func (w Workspace) Clone() Workspace {
	w.Members = append([]string{}, w.Members...)
	return w
}

// Stats is the per-workspace completion summary shown on the dashboard.
type Stats struct {
	Workspace Workspace `json:"workspace"`
	Total     int       `json:"total"`
	Done      int       `json:"done"`
	Percent   int       `json:"percent"`
	IsOwner   bool      `json:"isOwner"`
	Access    string    `json:"access"`
}
