package models

import "testing"

func TestParseTargetGroup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label    string
		wantKind TargetGroupKind
		wantDept string
	}{
		{AllMembersLabel, TargetAllMembers, ""},
		{"  " + AllMembersLabel + "  ", TargetAllMembers, ""},
		{"Ban Trị Sự", TargetDepartment, "Ban Trị Sự"},
		{" Ban Nhạc Lễ\t", TargetDepartment, "Ban Nhạc Lễ"},
		{"tất cả tín đồ", TargetDepartment, "tất cả tín đồ"},
	}

	for _, tt := range tests {
		g := ParseTargetGroup(tt.label)
		if g.Kind != tt.wantKind {
			t.Errorf("ParseTargetGroup(%q).Kind = %v, want %v", tt.label, g.Kind, tt.wantKind)
		}
		if g.Department() != tt.wantDept {
			t.Errorf("ParseTargetGroup(%q).Department() = %q, want %q", tt.label, g.Department(), tt.wantDept)
		}
	}
}

func TestParseTargetGroups(t *testing.T) {
	t.Parallel()

	groups := ParseTargetGroups([]string{AllMembersLabel, "Ban Trị Sự"})
	if len(groups) != 2 || groups[0].Kind != TargetAllMembers || groups[1].Label != "Ban Trị Sự" {
		t.Errorf("ParseTargetGroups() = %+v", groups)
	}
}
