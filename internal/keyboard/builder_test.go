package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		options  []string
		opts     []Option
		wantRows [][]string
	}{
		{
			name:    "with nav",
			options: []string{"1: Київ", "2: Львів"},
			wantRows: [][]string{
				{"1: Київ"},
				{"2: Львів"},
				{BtnBack, BtnHome},
			},
		},
		{
			name:     "without nav",
			options:  []string{"a"},
			opts:     []Option{WithoutNav()},
			wantRows: [][]string{{"a"}},
		},
		{
			name:     "empty options still navigable",
			wantRows: [][]string{{BtnBack, BtnHome}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := Build(tt.options, tt.opts...)
			require.Len(t, kb.Rows, len(tt.wantRows))
			for i, row := range kb.Rows {
				var labels []string
				for _, b := range row {
					labels = append(labels, b.Text)
				}
				assert.Equal(t, tt.wantRows[i], labels)
			}
		})
	}
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	options := []string{"a", "b"}
	kb := Build(options)
	options[0] = "changed"
	assert.Equal(t, "a", kb.Rows[0][0].Text)
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		total int
		want  []string
	}{
		{name: "single page", page: 1, total: 1, want: []string{BtnHome}},
		{name: "first page", page: 1, total: 3, want: []string{BtnNext, BtnHome}},
		{name: "middle page", page: 2, total: 3, want: []string{BtnPrev, BtnNext, BtnHome}},
		{name: "last page", page: 3, total: 3, want: []string{BtnPrev, BtnHome}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pagination(tt.page, tt.total).Labels())
		})
	}

	assert.Equal(t, []string{BtnNext, BtnFeedbackMenu, BtnHome}, Pagination(1, 2, BtnFeedbackMenu).Labels())
}

func TestStaticMenus(t *testing.T) {
	mainMenu := Main()
	assert.NotContains(t, mainMenu.Labels(), BtnBack)
	assert.Len(t, mainMenu.Rows, 6)

	contact := ShareContact()
	require.Len(t, contact.Rows, 1)
	assert.True(t, contact.Rows[0][0].RequestContact)
	assert.True(t, contact.OneTime)

	assert.Equal(t, []string{BtnRetry}, Retry().Labels())
	assert.Equal(t, []string{BtnYes, BtnNo, BtnBack, BtnHome}, ConfirmBooking().Labels())
	assert.Equal(t, []string{BtnBack, BtnHome}, Back().Labels())
}
