package queries

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
)

func TestListThreadsQuery_Validate(t *testing.T) {
	assert.NoError(t, ListThreadsQuery{}.Validate())
	assert.NoError(t, ListThreadsQuery{Limit: 50, Order: "desc"}.Validate())

	err := ListThreadsQuery{Order: "sideways"}.Validate()
	assert.True(t, apperrors.IsValidation(err))

	err = ListThreadsQuery{Limit: MaxListLimit + 1}.Validate()
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetThreadQuery_Validate(t *testing.T) {
	assert.NoError(t, GetThreadQuery{ThreadID: "thread_abc"}.Validate())

	for _, id := range []string{"", "a/b", "with space", strings.Repeat("x", 200)} {
		err := GetThreadQuery{ThreadID: id}.Validate()
		assert.True(t, apperrors.IsValidation(err), "id %q", id)
	}
}
