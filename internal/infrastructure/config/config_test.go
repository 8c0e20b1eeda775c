package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.LoginBurst)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Library.PageSize)
	assert.True(t, cfg.Library.Loan.OverdueLockout)
	assert.Equal(t, 14*24*time.Hour, cfg.Library.Loan.DefaultPeriod)
	assert.True(t, decimal.RequireFromString("0.5").Equal(cfg.Library.Loan.FineRate()))
	assert.Empty(t, cfg.Library.Loan.OverdueSweepCron)
}

func TestLoadFrom_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9090
database:
  driver: sqlite
  path: /tmp/lib.db
library:
  page_size: 25
  loan:
    fine_per_day: "1.25"
    overdue_lockout: false
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("LIBRARY_SERVER_PORT", "7070")
	t.Setenv("LIBRARY_LIBRARY_LOAN_OVERDUE_SWEEP_CRON", "0 2 * * *")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port, "环境变量优先于配置文件")
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Library.PageSize)
	assert.False(t, cfg.Library.Loan.OverdueLockout)
	assert.Equal(t, "1.25", cfg.Library.Loan.FineRate().StringFixed(2))
	assert.Equal(t, "0 2 * * *", cfg.Library.Loan.OverdueSweepCron)
}

func TestLoadFrom_EnvSelectsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte("server:\n  port: 8181\n"), 0o644))
	t.Setenv("LIBRARY_ENV", "staging")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadFrom(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Library.Loan.FinePerDay = "-1"
	assert.Error(t, validate(cfg))

	cfg = base()
	cfg.Database.Driver = "oracle"
	assert.Error(t, validate(cfg))

	cfg = base()
	cfg.Server.Mode = "release"
	assert.Error(t, validate(cfg), "release模式必须修改默认JWT密钥")
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "mysql", User: "u", Password: "p", Host: "h", Port: 3306, DBName: "lib", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai"}
	assert.Equal(t, "u:p@tcp(h:3306)/lib?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())

	d = DatabaseConfig{Driver: "postgres", User: "u", Password: "p", Host: "h", Port: 5432, DBName: "lib", SSLMode: "disable"}
	assert.Equal(t, "host=h user=u password=p dbname=lib port=5432 sslmode=disable", d.DSN())

	d = DatabaseConfig{Driver: "sqlite", Path: ":memory:"}
	assert.Contains(t, d.DSN(), "memory")
}

func TestLoanConfig_Policy(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	p := cfg.Library.Loan.Policy()
	assert.Equal(t, "0.50", p.FinePerDay.StringFixed(2))
	assert.True(t, p.OverdueLockout)
	assert.Equal(t, 14*24*time.Hour, p.DefaultPeriod)
}
