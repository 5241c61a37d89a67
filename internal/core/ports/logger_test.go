package ports_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type scopingLogger struct {
	ports.Logger
	scopes []string
}

func (s *scopingLogger) Scope(name string) ports.Logger {
	s.scopes = append(s.scopes, name)
	return s.Logger
}

func TestScoped_PrefixesPlainLoggers(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	err := errors.New("boom")

	logger.EXPECT().Info("[importmaps:trace] buildStart took 1ms")
	logger.EXPECT().Warn("[importmaps:trace] generateBundle failed")
	logger.EXPECT().Error(err)

	scoped := ports.Scoped(logger, "importmaps:trace")
	scoped.Info("buildStart took 1ms")
	scoped.Warn("generateBundle failed")
	scoped.Error(err)
}

func TestScoped_DelegatesToScopingLoggers(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockLogger(ctrl)
	inner.EXPECT().Info("Added react: /react.js")

	logger := &scopingLogger{Logger: inner}
	ports.Scoped(logger, "importmaps:development").Info("Added react: /react.js")

	assert.Equal(t, []string{"importmaps:development"}, logger.scopes)
}

func TestScoped_Nil(t *testing.T) {
	assert.Nil(t, ports.Scoped(nil, "importmaps"))
}
