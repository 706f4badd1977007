package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN("db", "blog", "secret", "blog", "5432")
	assert.Equal(t, "host=db user=blog password=secret dbname=blog port=5432 sslmode=disable", dsn)
}

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect(Options{})
	assert.Error(t, err)
}

func TestConnectRedis_EmptyURLDisablesCache(t *testing.T) {
	client, err := ConnectRedis(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestConnectRedis_InvalidURL(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "http://not-redis")
	assert.Error(t, err)
}
