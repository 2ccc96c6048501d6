package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "profiles/pkg/domain-errors"
)

func validCommand() *SetProfileCommand {
	return &SetProfileCommand{
		Version:    "v1",
		Commitment: []byte("commitment"),
		Name:       strings.Repeat("n", 108),
	}
}

func TestSetProfileCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *SetProfileCommand)
		wantErr dErrors.Code
	}{
		{name: "valid minimal", mutate: func(*SetProfileCommand) {}},
		{name: "valid long name", mutate: func(c *SetProfileCommand) { c.Name = strings.Repeat("n", 380) }},
		{name: "absent name", mutate: func(c *SetProfileCommand) { c.Name = "" }},
		{name: "all optional fields at allowed sizes", mutate: func(c *SetProfileCommand) {
			c.AboutEmoji = strings.Repeat("e", 80)
			c.About = strings.Repeat("a", 720)
			c.PaymentAddress = strings.Repeat("p", 776)
		}},
		{name: "missing version", mutate: func(c *SetProfileCommand) { c.Version = "" }, wantErr: dErrors.CodeValidation},
		{name: "missing commitment", mutate: func(c *SetProfileCommand) { c.Commitment = nil }, wantErr: dErrors.CodeValidation},
		{name: "oversized name", mutate: func(c *SetProfileCommand) { c.Name = strings.Repeat("n", 381) }, wantErr: dErrors.CodeValidation},
		{name: "odd about size", mutate: func(c *SetProfileCommand) { c.About = strings.Repeat("a", 209) }, wantErr: dErrors.CodeValidation},
		{name: "odd emoji size", mutate: func(c *SetProfileCommand) { c.AboutEmoji = "x" }, wantErr: dErrors.CodeValidation},
		{name: "oversized payment address", mutate: func(c *SetProfileCommand) { c.PaymentAddress = strings.Repeat("p", 777) }, wantErr: dErrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validCommand()
			tt.mutate(cmd)
			err := cmd.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tt.wantErr))
		})
	}
}

func TestProfileFromCommand(t *testing.T) {
	cmd := validCommand()
	cmd.PaymentAddress = strings.Repeat("p", 776)

	p := cmd.Profile("profiles/abc")
	assert.Equal(t, "v1", p.Version)
	assert.Equal(t, "profiles/abc", p.Avatar)
	assert.True(t, p.HasPaymentAddress())

	cmd.Commitment[0] = 'X'
	assert.Equal(t, byte('c'), p.Commitment[0], "profile must not alias the command")
}

func TestWithoutPaymentAddress(t *testing.T) {
	p := &VersionedProfile{Version: "v1", PaymentAddress: "pay", Commitment: []byte{1}}
	redacted := p.WithoutPaymentAddress()
	assert.False(t, redacted.HasPaymentAddress())
	assert.True(t, p.HasPaymentAddress())
}
