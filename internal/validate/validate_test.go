package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assignment-tracker/internal/model"
)

func TestSlugRule(t *testing.T) {
	v := New()

	valid := []string{"bio-101", "a", "cs", "world-history-2", "101"}
	for _, slug := range valid {
		err := v.Struct(model.NewClass{Name: "X", Emoji: "📚", Slug: slug})
		assert.NoError(t, err, "slug %q should be accepted", slug)
	}

	invalid := []string{"", "Bio-101", "bio_101", "-bio", "bio-", "bio--101", "bio 101", "über"}
	for _, slug := range invalid {
		err := v.Struct(model.NewClass{Name: "X", Emoji: "📚", Slug: slug})
		assert.Error(t, err, "slug %q should be rejected", slug)
	}

	t.Run("over 100 characters", func(t *testing.T) {
		err := v.Struct(model.NewClass{Name: "X", Emoji: "📚", Slug: strings.Repeat("a", 101)})
		require.Error(t, err)
	})
}

func TestValidationErrorsUseJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Struct(model.NewClass{Name: "", Emoji: "", Slug: "Bad Slug"})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 3)

	fields := make(map[string]string)
	for _, fe := range verrs {
		fields[fe.Field] = fe.Tag
	}
	assert.Equal(t, "required", fields["name"])
	assert.Equal(t, "required", fields["emoji"])
	assert.Equal(t, "slug", fields["slug"])

	assert.Contains(t, err.Error(), "name is required")
}

func TestStructRejectsNonStructWithoutPanic(t *testing.T) {
	v := New()

	err := v.Struct(42)
	require.Error(t, err)

	var verrs ValidationErrors
	assert.False(t, errors.As(err, &verrs))
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("bio-101"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("Bio"))
	assert.False(t, ValidSlug(strings.Repeat("a", 101)))
}
