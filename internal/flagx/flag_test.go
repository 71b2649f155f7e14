package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-s", "secret", "-a", ":8080"},
			allowed: []string{"-s"},
			want:    []string{"-s", "secret"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=alt.yaml", "-a", ":8080"},
			allowed: []string{"--config"},
			want:    []string{"--config=alt.yaml"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag at end without value",
			args:    []string{"-d"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "next token looks like a flag",
			args:    []string{"-c", "-v"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "order preserved across allowed flags",
			args:    []string{"-a", "127.0.0.1:8080", "-d", "memory://", "--other", "x"},
			allowed: []string{"-d", "-a"},
			want:    []string{"-a", "127.0.0.1:8080", "-d", "memory://"},
		},
		{
			name:    "empty",
			args:    nil,
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"bin", "-c", "a.yaml", "-s", "k"}, "a.yaml"},
		{"long", []string{"bin", "-config", "b.json"}, "b.json"},
		{"long equals", []string{"bin", "--config=c.yaml"}, "c.yaml"},
		{"absent", []string{"bin", "-s", "k"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFileFlag(tt.args[1:]))
		})
	}
}
