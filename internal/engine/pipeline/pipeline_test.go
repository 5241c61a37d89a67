package pipeline_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/core/ports/mocks"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

func recorder(calls *[]string, name string, apply pipeline.Apply) pipeline.Extension {
	return pipeline.Extension{
		Name:  name,
		Apply: apply,
		ConfigResolved: func(pipeline.ResolvedConfig) {
			*calls = append(*calls, name+":configResolved")
		},
		BuildStart: func(context.Context, ports.BuildContext) error {
			*calls = append(*calls, name+":buildStart")
			return nil
		},
		GenerateBundle: func(context.Context, ports.BuildContext, *ports.Bundle) error {
			*calls = append(*calls, name+":generateBundle")
			return nil
		},
		TransformHTML: func(_ context.Context, html []byte, _ pipeline.HTMLContext) ([]byte, error) {
			*calls = append(*calls, name+":transformHtml")
			return append(html, []byte(name)...), nil
		},
	}
}

func TestPipeline_BuildOrder(t *testing.T) {
	var calls []string
	p := pipeline.New(pipeline.CommandBuild, []pipeline.Extension{
		recorder(&calls, "a", pipeline.ApplyBuild),
		recorder(&calls, "dev", pipeline.ApplyServe),
		recorder(&calls, "b", pipeline.ApplyBoth),
	})
	ctx := context.Background()

	assert.Equal(t, []string{"a", "b"}, p.Extensions())
	require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{Root: "/project"}))
	require.NoError(t, p.BuildStart(ctx, nil))
	require.NoError(t, p.GenerateBundle(ctx, nil, &ports.Bundle{}))
	out, err := p.TransformHTML(ctx, []byte("<html>"), pipeline.HTMLContext{Path: "index.html"})
	require.NoError(t, err)

	assert.Equal(t, "<html>ab", string(out))
	assert.Equal(t, []string{
		"a:configResolved", "b:configResolved",
		"a:buildStart", "b:buildStart",
		"a:generateBundle", "b:generateBundle",
		"a:transformHtml", "b:transformHtml",
	}, calls)
	assert.Equal(t, pipeline.PhaseTransformHTML, p.Phase())
}

func TestPipeline_RejectsOutOfOrderPhases(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  pipeline.Command
		run  func(p *pipeline.Pipeline) error
	}{
		{
			name: "build start before config",
			cmd:  pipeline.CommandBuild,
			run: func(p *pipeline.Pipeline) error {
				return p.BuildStart(ctx, nil)
			},
		},
		{
			name: "generate bundle before build start",
			cmd:  pipeline.CommandBuild,
			run: func(p *pipeline.Pipeline) error {
				require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{}))
				return p.GenerateBundle(ctx, nil, &ports.Bundle{})
			},
		},
		{
			name: "html before bundle",
			cmd:  pipeline.CommandBuild,
			run: func(p *pipeline.Pipeline) error {
				require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{}))
				require.NoError(t, p.BuildStart(ctx, nil))
				_, err := p.TransformHTML(ctx, nil, pipeline.HTMLContext{})
				return err
			},
		},
		{
			name: "configure server during build",
			cmd:  pipeline.CommandBuild,
			run: func(p *pipeline.Pipeline) error {
				require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{}))
				return p.ConfigureServer(nil)
			},
		},
		{
			name: "build start while serving",
			cmd:  pipeline.CommandServe,
			run: func(p *pipeline.Pipeline) error {
				require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{}))
				return p.BuildStart(ctx, nil)
			},
		},
		{
			name: "config resolved twice",
			cmd:  pipeline.CommandServe,
			run: func(p *pipeline.Pipeline) error {
				require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{}))
				return p.ConfigResolved(pipeline.ResolvedConfig{})
			},
		},
		{
			name: "load before build start",
			cmd:  pipeline.CommandBuild,
			run: func(p *pipeline.Pipeline) error {
				_, err := p.Load(ctx, nil, "x")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pipeline.New(tt.cmd, nil)
			err := tt.run(p)
			require.Error(t, err)
			assert.ErrorContains(t, err, domain.ErrPhaseOrder.Error())
		})
	}
}

func TestPipeline_RebuildAfterBundle(t *testing.T) {
	p := pipeline.New(pipeline.CommandBuild, nil)
	ctx := context.Background()

	require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{}))
	require.NoError(t, p.BuildStart(ctx, nil))
	require.NoError(t, p.GenerateBundle(ctx, nil, &ports.Bundle{}))
	require.NoError(t, p.BuildStart(ctx, nil))
	assert.Equal(t, pipeline.PhaseBuildStart, p.Phase())
}

func TestPipeline_ServeOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	server := mocks.NewMockServerHooks(ctrl)
	server.EXPECT().Use(gomock.Any()).Times(1)

	configured := 0
	p := pipeline.New(pipeline.CommandServe, []pipeline.Extension{{
		Name: "sink",
		ConfigureServer: func(s ports.ServerHooks) {
			configured++
			s.Use(func(next http.Handler) http.Handler { return next })
		},
	}})
	ctx := context.Background()

	require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{}))
	require.NoError(t, p.ConfigureServer(server))
	for range 3 {
		_, err := p.TransformHTML(ctx, []byte("<html>"), pipeline.HTMLContext{})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, configured)
}

func TestPipeline_ResolveAndLoadFirstMatchWins(t *testing.T) {
	var loadCalls []string
	exts := []pipeline.Extension{
		{
			Name: "skip",
			ResolveID: func(context.Context, ports.BuildContext, string, string) (*pipeline.Resolution, error) {
				return nil, nil
			},
			Load: func(_ context.Context, _ ports.BuildContext, id string) (*pipeline.LoadResult, error) {
				loadCalls = append(loadCalls, "skip")
				return nil, nil
			},
		},
		{
			Name: "claim",
			ResolveID: func(_ context.Context, _ ports.BuildContext, id, _ string) (*pipeline.Resolution, error) {
				return &pipeline.Resolution{ID: "\x00" + id}, nil
			},
			Load: func(_ context.Context, _ ports.BuildContext, id string) (*pipeline.LoadResult, error) {
				loadCalls = append(loadCalls, "claim")
				return &pipeline.LoadResult{Code: "export {}"}, nil
			},
		},
		{
			Name: "never",
			ResolveID: func(context.Context, ports.BuildContext, string, string) (*pipeline.Resolution, error) {
				t.Fatal("later extensions must not run once an id is claimed")
				return nil, nil
			},
			Load: func(context.Context, ports.BuildContext, string) (*pipeline.LoadResult, error) {
				t.Fatal("later extensions must not run once a module is loaded")
				return nil, nil
			},
		},
	}
	p := pipeline.New(pipeline.CommandBuild, exts)
	ctx := context.Background()
	require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{}))
	require.NoError(t, p.BuildStart(ctx, nil))

	res, err := p.ResolveID(ctx, nil, "virtual:x", "")
	require.NoError(t, err)
	assert.Equal(t, "\x00virtual:x", res.ID)

	loaded, err := p.Load(ctx, nil, "\x00virtual:x")
	require.NoError(t, err)
	assert.Equal(t, "export {}", loaded.Code)
	assert.Equal(t, []string{"skip", "claim"}, loadCalls)
}

func TestPipeline_HookErrorStopsDispatch(t *testing.T) {
	ran := false
	p := pipeline.New(pipeline.CommandBuild, []pipeline.Extension{
		{
			Name: "failing",
			BuildStart: func(context.Context, ports.BuildContext) error {
				return errors.New("emit failed")
			},
		},
		{
			Name: "after",
			BuildStart: func(context.Context, ports.BuildContext) error {
				ran = true
				return nil
			},
		},
	})
	require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{}))

	err := p.BuildStart(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "emit failed")
	assert.False(t, ran)
}

func TestPipeline_TracesPhases(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	tracer.EXPECT().Start(gomock.Any(), "buildStart").Return(context.Background(), span)
	tracer.EXPECT().Start(gomock.Any(), "generateBundle").Return(context.Background(), span)
	span.EXPECT().SetAttribute("importmaps.command", "build").Times(2)
	span.EXPECT().RecordError(gomock.Any()).Times(1)
	span.EXPECT().End().Times(2)

	p := pipeline.New(pipeline.CommandBuild, []pipeline.Extension{{
		Name: "failing",
		GenerateBundle: func(context.Context, ports.BuildContext, *ports.Bundle) error {
			return errors.New("boom")
		},
	}}, pipeline.WithTracer(tracer))
	ctx := context.Background()

	require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{}))
	require.NoError(t, p.BuildStart(ctx, nil))
	require.Error(t, p.GenerateBundle(ctx, nil, &ports.Bundle{}))
}
