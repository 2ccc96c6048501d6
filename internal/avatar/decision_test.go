package avatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		wants    bool
		same     bool
		previous string
		want     Action
	}{
		{name: "same avatar with previous is retained", wants: true, same: true, previous: "profiles/old", want: ActionRetain},
		{name: "same avatar without previous issues upload", wants: true, same: true, want: ActionIssueUpload},
		{name: "new avatar replaces previous", wants: true, previous: "profiles/old", want: ActionIssueUpload},
		{name: "new avatar without previous", wants: true, want: ActionIssueUpload},
		{name: "no avatar clears previous", previous: "profiles/old", want: ActionClear},
		{name: "no avatar ignores same flag", same: true, previous: "profiles/old", want: ActionClear},
		{name: "no avatar and nothing to clear", want: ActionClear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.wants, tt.same, tt.previous))
		})
	}
}

func TestIsManaged(t *testing.T) {
	assert.True(t, IsManaged("profiles/abc"))
	assert.False(t, IsManaged("attachments/abc"))
	assert.False(t, IsManaged(""))
}
