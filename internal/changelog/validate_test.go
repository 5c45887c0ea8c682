package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Title:       "Improved commit pagination",
		Description: "The fetcher now walks history page by page. Each page is clamped to the provider limit. Partial sweeps no longer lose completed work.",
		Category:    "Enhancement",
	}
}

func TestValidateDraft(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate    func(*Draft)
		wantField string
	}{
		"valid draft": {
			mutate: func(*Draft) {},
		},
		"empty title": {
			mutate:    func(d *Draft) { d.Title = "  " },
			wantField: "title",
		},
		"empty description": {
			mutate:    func(d *Draft) { d.Description = "" },
			wantField: "description",
		},
		"missing category": {
			mutate:    func(d *Draft) { d.Category = "" },
			wantField: "category",
		},
		"category outside closed set": {
			mutate:    func(d *Draft) { d.Category = "Feature" },
			wantField: "category",
		},
		"lowercase category rejected": {
			mutate:    func(d *Draft) { d.Category = "bug fix" },
			wantField: "category",
		},
		"bulleted description": {
			mutate: func(d *Draft) {
				d.Description = "Changes:\n- added pagination\n- fixed ranges"
			},
			wantField: "description",
		},
		"numbered list description": {
			mutate: func(d *Draft) {
				d.Description = "1. added pagination\n2. fixed ranges"
			},
			wantField: "description",
		},
		"embedded heading": {
			mutate: func(d *Draft) {
				d.Description = "## Summary\nPagination was added."
			},
			wantField: "description",
		},
		"category label prefix": {
			mutate: func(d *Draft) {
				d.Description = "Bug Fix: resolved the off-by-one in batch ranges."
			},
			wantField: "description",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			draft := validDraft()
			tc.mutate(&draft)

			err := ValidateDraft(draft)
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

func TestValidateDraft_NeverDefaultsCategory(t *testing.T) {
	t.Parallel()

	draft := validDraft()
	draft.Category = "Miscellaneous"

	// An unknown category is a hard failure, never coerced to "Other".
	err := ValidateDraft(draft)
	require.Error(t, err)
	assert.NotEqual(t, "Other", draft.Category)
}

func TestValidateRequired(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequired(validDraft()))

	// Presence only: an out-of-set category passes the store-level check.
	loose := validDraft()
	loose.Category = "anything"
	assert.NoError(t, ValidateRequired(loose))

	empty := validDraft()
	empty.Description = "   "
	assert.Error(t, ValidateRequired(empty))
}

func TestValidCategory(t *testing.T) {
	t.Parallel()

	for _, c := range Categories() {
		assert.True(t, ValidCategory(c), c)
	}
	assert.False(t, ValidCategory("feature"))
	assert.False(t, ValidCategory(""))
}
