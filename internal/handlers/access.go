package handlers

import "github.com/crucial707/family-tree-api/internal/models"

// Ownership rules for trees. caller is nil for anonymous requests.
//
// Trees without an owner are world-readable and world-writable; trees with an
// owner are only visible to that owner. Deletion additionally requires a
// matching owner, so anonymous trees cannot be deleted through the API at
// all (owner null never equals any caller id).

// canAccess reports whether the caller may read or update the tree.
func canAccess(tree models.Tree, caller *int) bool {
	if tree.UserID == nil {
		return true
	}
	return caller != nil && *caller == *tree.UserID
}

// canDelete reports whether the caller may delete the tree.
func canDelete(tree models.Tree, callerID int) bool {
	return tree.UserID != nil && *tree.UserID == callerID
}
