package commands

import (
	"strings"

	"github.com/olafwrieden/azurechat-v3/pkg/utils"
)

// CreateThreadCommand creates a thread on the agent service
type CreateThreadCommand struct {
	UserID string `json:"userId,omitempty" validate:"maxbytes=512"`
}

// Validate validates the command
func (c CreateThreadCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ToggleBookmarkCommand flips the bookmark flag of a thread
type ToggleBookmarkCommand struct {
	ThreadID string `json:"id" validate:"required,threadid"`
}

// Validate validates the command
func (c ToggleBookmarkCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// RenameThreadCommand sets a thread's display title
type RenameThreadCommand struct {
	ThreadID string `json:"id" validate:"required,threadid"`
	Title    string `json:"title" validate:"required,maxbytes=512"`
}

// Validate validates the command
func (c RenameThreadCommand) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	return utils.ValidateStruct(c)
}

// DeleteThreadCommand removes a thread
type DeleteThreadCommand struct {
	ThreadID string `json:"id" validate:"required,threadid"`
}

// Validate validates the command
func (c DeleteThreadCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DeleteResult reports whether the agent service deleted the thread
type DeleteResult struct {
	Success bool `json:"success"`
}
