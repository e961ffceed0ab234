// SPDX-License-Identifier: Apache-2.0

package policy

// Fixed diagnostic substrings for the engine's rejection/acceptance
// messages. The engine (engine.go) composes these with the ref/object identifiers
// the diagnostic is about; every diagnostic line still contains the
// literal substring a caller greps for.
const (
	MsgDeleteBranchDenied = "Deleting a branch is not allowed"
	MsgDeleteRemoteDenied = "Deleting a remote-tracking ref is not allowed"
	MsgDeleteTagDenied    = "Deleting a tag is not allowed"
	MsgMasterMergesOnly   = "Master only accepts merges of feature branches."
	MsgCreateBranchDenied = "Creating a branch is not allowed"
	MsgModifyTagDenied    = "Modifying a tag is not allowed"
)
