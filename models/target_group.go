package models

import "strings"

// AllMembersLabel is the reserved target label that addresses every user.
const AllMembersLabel = "Tất cả tín đồ"

type TargetGroupKind int

const (
	TargetAllMembers TargetGroupKind = iota + 1
	TargetDepartment
)

// TargetGroup is a parsed target label: either every member or one department.
// Label keeps the text as the admin typed it so it can be shown back unchanged.
type TargetGroup struct {
	Kind  TargetGroupKind
	Label string
}

func ParseTargetGroup(label string) TargetGroup {
	label = strings.TrimSpace(label)
	if label == AllMembersLabel {
		return TargetGroup{Kind: TargetAllMembers, Label: label}
	}
	return TargetGroup{Kind: TargetDepartment, Label: label}
}

func ParseTargetGroups(labels []string) []TargetGroup {
	groups := make([]TargetGroup, 0, len(labels))
	for _, label := range labels {
		groups = append(groups, ParseTargetGroup(label))
	}
	return groups
}

// Department returns the department name, or "" for the all-members group.
func (g TargetGroup) Department() string {
	if g.Kind != TargetDepartment {
		return ""
	}
	return g.Label
}
