package pe

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCheckFilename(t *testing.T) {
	tests := []struct {
		path  string
		valid bool
	}{
		{"notepad.exe", true},
		{"/tmp/samples/kernel32.dll", true},
		{"CONSOLE.exe", true},
		{"com10.sys", true},
		{"my file.exe", true},
		{"", false},
		{".", false},
		{"/", false},
		{"con", false},
		{"nul.txt", false},
		{"/tmp/LPT1.tar.gz", false},
		{"Aux.exe", false},
		{"setup?.exe", false},
		{"a<b.exe", false},
		{`dir\evil.exe`, false},
		{"pipe|name", false},
		{"tab\tname.exe", false},
		{"trailing.", false},
		{"trailing ", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := CheckFilename(tt.path)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidFilename), "got %v", err)
		})
	}
}
