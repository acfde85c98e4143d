package thread

import (
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBookmarked(t *testing.T) {
	tests := []struct {
		name   string
		thread *Thread
		want   bool
	}{
		{"nil thread", nil, false},
		{"nil metadata", &Thread{ID: "t1"}, false},
		{"flag true", &Thread{Metadata: Metadata{KeyBookmarked: "true"}}, true},
		{"flag false", &Thread{Metadata: Metadata{KeyBookmarked: "false"}}, false},
		{"flag not a boolean", &Thread{Metadata: Metadata{KeyBookmarked: "yes"}}, false},
		{"flag wrong case", &Thread{Metadata: Metadata{KeyBookmarked: "True"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBookmarked(tt.thread))
		})
	}
}

func TestToggledBookmarkMetadata_SetsFlagAndKeepsOtherKeys(t *testing.T) {
	th := &Thread{ID: "t1", Metadata: Metadata{"title": "Trip planning", "userId": "u1"}}

	md, err := ToggledBookmarkMetadata(th)

	require.NoError(t, err)
	assert.Equal(t, Metadata{"title": "Trip planning", "userId": "u1", KeyBookmarked: "true"}, md)
	// source map untouched
	_, present := th.Metadata[KeyBookmarked]
	assert.False(t, present)
}

func TestToggledBookmarkMetadata_UnbookmarkWritesFalse(t *testing.T) {
	th := &Thread{ID: "t1", Metadata: Metadata{KeyBookmarked: "true", "title": "x"}}

	md, err := ToggledBookmarkMetadata(th)

	require.NoError(t, err)
	assert.Equal(t, "false", md[KeyBookmarked])
	assert.Equal(t, "x", md["title"])
}

func TestToggledBookmarkMetadata_NilMetadata(t *testing.T) {
	md, err := ToggledBookmarkMetadata(&Thread{ID: "t1"})

	require.NoError(t, err)
	assert.Equal(t, Metadata{KeyBookmarked: "true"}, md)
}

func TestToggledBookmarkMetadata_FullMetadata(t *testing.T) {
	full := Metadata{}
	for i := 0; i < MaxMetadataPairs; i++ {
		full[fmt.Sprintf("k%d", i)] = "v"
	}

	_, err := ToggledBookmarkMetadata(&Thread{ID: "t1", Metadata: full})
	assert.True(t, apperrors.IsValidation(err))

	// replacing an existing flag does not grow the map
	full["k0"] = "v"
	delete(full, "k1")
	full[KeyBookmarked] = "true"
	md, err := ToggledBookmarkMetadata(&Thread{ID: "t1", Metadata: full})
	require.NoError(t, err)
	assert.Len(t, md, MaxMetadataPairs)
}

func TestRenamedMetadata(t *testing.T) {
	th := &Thread{ID: "t1", Metadata: Metadata{KeyBookmarked: "true"}}

	md, err := RenamedMetadata(th, "  Budget review  ")
	require.NoError(t, err)
	assert.Equal(t, "Budget review", md[KeyTitle])
	assert.Equal(t, "true", md[KeyBookmarked])

	_, err = RenamedMetadata(th, "   ")
	assert.True(t, apperrors.IsValidation(err))

	_, err = RenamedMetadata(th, strings.Repeat("a", MaxMetadataValue+1))
	assert.True(t, apperrors.IsValidation(err))
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("thread_abc123"))
	assert.Error(t, ValidateID(""))
	assert.Error(t, ValidateID("a/b"))
	assert.Error(t, ValidateID("with space"))
	assert.Error(t, ValidateID(strings.Repeat("x", maxIDLength+1)))
	assert.NoError(t, ValidateID(strings.Repeat("x", maxIDLength)))
}

func TestValidateID_RejectsPathAndQueryCharacters(t *testing.T) {
	for _, id := range []string{"a?b", "a#b", "a%2Fb", "a\tb", "a\rb", "a\nb"} {
		t.Run(id, func(t *testing.T) {
			err := ValidateID(id)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	threads := []Thread{
		{ID: "a", Metadata: Metadata{KeyBookmarked: "true", KeyUserID: "u1"}},
		{ID: "b", Metadata: Metadata{KeyBookmarked: "false", KeyUserID: "u1"}},
		{ID: "c", Metadata: Metadata{KeyUserID: "u2"}},
	}
	yes, no := true, false

	assert.Len(t, Filter{}.Apply(threads), 3)

	got := Filter{Bookmarked: &yes}.Apply(threads)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got = Filter{Bookmarked: &no}.Apply(threads)
	assert.Equal(t, []string{"b", "c"}, ids(got))

	got = Filter{UserID: "u1", Bookmarked: &no}.Apply(threads)
	assert.Equal(t, []string{"b"}, ids(got))
}

func ids(threads []Thread) []string {
	out := make([]string, len(threads))
	for i, th := range threads {
		out[i] = th.ID
	}
	return out
}
