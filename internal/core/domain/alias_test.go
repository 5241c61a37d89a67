package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/importmaps/internal/core/domain"
)

func TestApplyAlias(t *testing.T) {
	alias := map[string]string{
		"lodash":     "lodash-es",
		"@ui":        "./src/ui",
		"@ui/button": "./src/button.ts",
	}

	tests := []struct {
		id      string
		want    string
		aliased bool
	}{
		{id: "lodash", want: "lodash-es", aliased: true},
		{id: "lodash/merge", want: "lodash-es/merge", aliased: true},
		{id: "lodashx", want: "lodashx"},
		{id: "@ui/button", want: "./src/button.ts", aliased: true},
		{id: "@ui/card", want: "./src/ui/card", aliased: true},
		{id: "react", want: "react"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := domain.ApplyAlias(alias, tt.id)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.aliased, ok)
		})
	}

	got, ok := domain.ApplyAlias(nil, "react")
	assert.Equal(t, "react", got)
	assert.False(t, ok)
}
