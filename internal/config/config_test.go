package config_test

import (
	"io"
	"os"
	"testing"
	"time"

	"food-dispatch/internal/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	old := pflag.CommandLine
	oldArgs := os.Args
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	os.Args = []string{oldArgs[0]}
	t.Cleanup(func() {
		pflag.CommandLine = old
		os.Args = oldArgs
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_DB", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"KAFKA_GROUP_ID", "CARD_GATEWAY_URL", "CARD_GATEWAY_MAX_ATTEMPTS",
		"DISPATCH_COURIER_SHARE_BPS", "DISPATCH_OPERATION_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "127.0.0.1", cfg.DB.Host)
	require.Equal(t, "5432", cfg.DB.Port)
	require.Equal(t, "dispatch_db", cfg.DB.Name)
	require.Equal(t, 10000, cfg.Dispatch.CourierShareBps)
	require.Equal(t, 3*time.Second, cfg.Dispatch.OperationTimeout)
	require.Equal(t, 4, cfg.Card.MaxAttempts)
	require.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "15432")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("KAFKA_TOPIC", "orders")
	t.Setenv("DISPATCH_COURIER_SHARE_BPS", "8000")
	t.Setenv("DISPATCH_OPERATION_TIMEOUT", "5s")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "db", cfg.DB.Host)
	require.Equal(t, "15432", cfg.DB.Port)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "orders", cfg.Kafka.Topic)
	require.Equal(t, 8000, cfg.Dispatch.CourierShareBps)
	require.Equal(t, 5*time.Second, cfg.Dispatch.OperationTimeout)
}

func TestLoad_InvalidPort(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "70000")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidCourierShare(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("DISPATCH_COURIER_SHARE_BPS", "20000")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidOperationTimeout(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("DISPATCH_OPERATION_TIMEOUT", "bad-interval")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_FlagsParseError(t *testing.T) {
	oldArgs := os.Args
	oldCommandLine := pflag.CommandLine
	defer func() {
		os.Args = oldArgs
		pflag.CommandLine = oldCommandLine
	}()

	clearEnv(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	pflag.CommandLine = fs
	os.Args = []string{"cmd", "--port=not-a-number"}

	cfg, err := config.Load()

	require.Error(t, err)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), "parse flags")
}

func TestDSN(t *testing.T) {
	db := config.DB{Host: "h", Port: "5432", User: "u", Pass: "p w", Name: "d"}
	require.Equal(t, "postgres://u:p+w@h:5432/d?sslmode=disable", db.DSN())
}
