package bundler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrhapile/strafe-release-bundler/pkg/bundler"
)

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr error
	}{
		{"1.0.0", nil},
		{"0.0.0", nil},
		{"10.200.3000", nil},
		{"01.02.03", nil},
		{"", bundler.ErrMissingVersion},
		{"1.2", bundler.ErrInvalidVersion},
		{"v1.2.3", bundler.ErrInvalidVersion},
		{"1.2.3.4", bundler.ErrInvalidVersion},
		{"1.2.3-rc1", bundler.ErrInvalidVersion},
		{" 1.2.3", bundler.ErrInvalidVersion},
		{"1.2.3\n", bundler.ErrInvalidVersion},
		{"1..3", bundler.ErrInvalidVersion},
		{"a.b.c", bundler.ErrInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := bundler.ValidateVersion(tt.version)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolveVersion(t *testing.T) {
	env := func(tag string) func(string) string {
		return func(key string) string {
			if key == bundler.EnvVersion {
				return tag
			}
			return ""
		}
	}

	tests := []struct {
		name    string
		args    []string
		getenv  func(string) string
		want    string
		wantErr error
	}{
		{name: "argument", args: []string{"1.4.2"}, getenv: env(""), want: "1.4.2"},
		{name: "argument wins over env", args: []string{"1.4.2"}, getenv: env("9.9.9"), want: "1.4.2"},
		{name: "env fallback", getenv: env("2.0.1"), want: "2.0.1"},
		{name: "env is validated", getenv: env("v2.0.1"), wantErr: bundler.ErrInvalidVersion},
		{name: "env unset", getenv: env(""), wantErr: bundler.ErrMissingVersion},
		{name: "nil getenv", wantErr: bundler.ErrMissingVersion},
		{name: "malformed argument", args: []string{"1.0"}, getenv: env("1.0.0"), wantErr: bundler.ErrInvalidVersion},
		{name: "too many arguments", args: []string{"1.0.0", "2.0.0"}, wantErr: bundler.ErrInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bundler.ResolveVersion(tt.args, tt.getenv)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
