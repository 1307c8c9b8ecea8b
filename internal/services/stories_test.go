package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validInput() StoryInput {
	return StoryInput{
		Name:     "A",
		Email:    "a@x.com",
		School:   "Morehouse",
		Location: "Atlanta",
		Category: "memoir",
		Title:    "T",
		Body:     "S",
	}
}

func TestStoryInputValidate(t *testing.T) {
	require.NoError(t, validInput().Validate())

	cases := []struct {
		field  string
		mutate func(*StoryInput)
	}{
		{"name", func(in *StoryInput) { in.Name = "" }},
		{"email", func(in *StoryInput) { in.Email = "" }},
		{"school", func(in *StoryInput) { in.School = "" }},
		{"location", func(in *StoryInput) { in.Location = "" }},
		{"type", func(in *StoryInput) { in.Category = "" }},
		{"title", func(in *StoryInput) { in.Title = "" }},
		{"story", func(in *StoryInput) { in.Body = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			err := in.Validate()
			require.Error(t, err)
			serr, ok := err.(ServiceError)
			require.True(t, ok)
			require.Equal(t, 400, serr.Status)
			require.Contains(t, serr.Message, tc.field)
		})
	}
}

func TestStoryInputGraduationOptional(t *testing.T) {
	in := validInput()
	in.Graduation = ""
	require.NoError(t, in.Validate())
}

func TestStoryInputNormalizeTrims(t *testing.T) {
	in := StoryInput{
		Name:  "  A  ",
		Email: " a@x.com ",
		Title: "\tT\n",
	}
	in.Normalize()
	require.Equal(t, "A", in.Name)
	require.Equal(t, "a@x.com", in.Email)
	require.Equal(t, "T", in.Title)
}

func TestStoryInputWhitespaceOnlyFieldFails(t *testing.T) {
	in := validInput()
	in.Body = "   "
	in.Normalize()
	require.Error(t, in.Validate())
}

func TestValidStatus(t *testing.T) {
	require.True(t, ValidStatus(StatusPending))
	require.True(t, ValidStatus(StatusApproved))
	require.True(t, ValidStatus(StatusRejected))
	require.False(t, ValidStatus("published"))
	require.False(t, ValidStatus(""))
}
