package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/importmaps/internal/core/domain"
)

func TestOptions_Validate(t *testing.T) {
	valid := domain.DefaultOptions()
	valid.Shared = []domain.SharedDependency{domain.Bare("react")}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(o *domain.Options)
		want   error
	}{
		{
			name:   "no shared dependencies",
			mutate: func(o *domain.Options) { o.Shared = nil },
			want:   domain.ErrNoSharedDependencies,
		},
		{
			name:   "invalid declaration",
			mutate: func(o *domain.Options) { o.Shared = []domain.SharedDependency{{Name: "x"}} },
			want:   domain.ErrInvalidSharedDependency,
		},
		{
			name:   "invalid integrity",
			mutate: func(o *domain.Options) { o.Integrity = "crc32" },
			want:   domain.ErrInvalidIntegrity,
		},
		{
			name:   "escaping output file",
			mutate: func(o *domain.Options) { o.OutputAsFile = "../import-map" },
			want:   domain.ErrInvalidOutputFile,
		},
		{
			name:   "absolute output file",
			mutate: func(o *domain.Options) { o.OutputAsFile = "/etc/import-map" },
			want:   domain.ErrInvalidOutputFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			tt.mutate(&opts)
			err := opts.Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want.Error())
		})
	}
}

func TestOptions_ImportMapFileName(t *testing.T) {
	opts := domain.DefaultOptions()
	assert.Empty(t, opts.ImportMapFileName())

	opts.OutputAsFile = domain.DefaultImportMapFileName
	assert.Equal(t, "import-map.json", opts.ImportMapFileName())

	opts.OutputAsFile = "maps/deps.json"
	assert.Equal(t, "maps/deps.json", opts.ImportMapFileName())
}
