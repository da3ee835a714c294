package main

import (
	"testing"

	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewStorage(t *testing.T) {
	store, directory, err := newStorage("memory", nil)
	require.NoError(t, err)
	assert.IsType(t, &repository.MemoryStore{}, store)
	assert.IsType(t, &repository.MemoryDirectory{}, directory)

	_, _, err = newStorage("postgres", nil)
	assert.ErrorContains(t, err, `unknown storage driver "postgres"`)
}

func TestNewAuditSink(t *testing.T) {
	sink, closeFn, err := newAuditSink(&config.Config{}, nil)
	require.NoError(t, err)
	assert.Nil(t, sink)
	assert.Nil(t, closeFn)

	_, _, err = newAuditSink(&config.Config{Audit: config.AuditConfig{Driver: "kafka"}}, nil)
	assert.ErrorContains(t, err, `unknown audit driver "kafka"`)
}

func TestRun_UnknownStorageDriverReturnsError(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "postgres"}}

	err := run(cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "unknown storage driver")
}
