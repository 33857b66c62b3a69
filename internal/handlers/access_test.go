package handlers

import (
	"testing"

	"github.com/crucial707/family-tree-api/internal/models"
)

func intp(v int) *int { return &v }

func TestCanAccess(t *testing.T) {
	cases := []struct {
		name   string
		owner  *int
		caller *int
		want   bool
	}{
		{"anonymous tree, anonymous caller", nil, nil, true},
		{"anonymous tree, any caller", nil, intp(7), true},
		{"owned tree, owner", intp(5), intp(5), true},
		{"owned tree, other caller", intp(5), intp(7), false},
		{"owned tree, anonymous caller", intp(5), nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := models.Tree{UserID: tc.owner}
			if got := canAccess(tree, tc.caller); got != tc.want {
				t.Errorf("canAccess: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanDelete(t *testing.T) {
	cases := []struct {
		name   string
		owner  *int
		caller int
		want   bool
	}{
		{"owner deletes own tree", intp(5), 5, true},
		{"other user", intp(5), 7, false},
		// An anonymous tree has no owner to match, so no caller can delete it.
		{"anonymous tree", nil, 5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := models.Tree{UserID: tc.owner}
			if got := canDelete(tree, tc.caller); got != tc.want {
				t.Errorf("canDelete: got %v, want %v", got, tc.want)
			}
		})
	}
}
