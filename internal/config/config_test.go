package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/toolcall"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sheets", cfg.Source.Transport)
	assert.Equal(t, int64(0), cfg.Source.VariationGID)
	assert.Equal(t, int64(45071720), cfg.Source.MovingAverageGID)
	assert.Equal(t, int64(372876708), cfg.Source.RSIGID)
	assert.Equal(t, "Variation", cfg.Source.VariationSheet)
	assert.Equal(t, "MM", cfg.Source.MovingAverageSheet)
	assert.Equal(t, "RSI", cfg.Source.RSISheet)
	assert.Equal(t, "read_sheet", cfg.Source.ToolName)
	assert.Equal(t, 30*time.Second, cfg.Source.FetchTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Source.CacheTTL)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "exports", cfg.Export.Dir)
}

func TestDefault_Validates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate_PortRange(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_Timeouts(t *testing.T) {
	cfg := Default()
	cfg.Server.ReadTimeout = 0
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Source.FetchTimeout = -time.Second
	require.Error(t, cfg.Validate())
}

func TestValidate_Transport(t *testing.T) {
	cfg := Default()
	cfg.Source.Transport = "ftp"
	assert.Error(t, cfg.Validate())
}

func TestValidate_ToolcallRequiresEndpoint(t *testing.T) {
	cfg := Default()
	cfg.Source.Transport = "toolcall"
	cfg.Source.ToolEndpoint = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool endpoint")
}

func TestValidate_ToolcallDefaultsContract(t *testing.T) {
	cfg := Default()
	cfg.Source.Transport = "toolcall"
	cfg.Source.ToolEndpoint = "http://localhost:9000/sse"
	cfg.Source.ToolContract = toolcall.Contract{}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, toolcall.DefaultContract(), cfg.Source.ToolContract)
}

func TestValidate_ToolcallRejectsBadContract(t *testing.T) {
	cfg := Default()
	cfg.Source.Transport = "toolcall"
	cfg.Source.ToolEndpoint = "http://localhost:9000"
	cfg.Source.ToolContract = toolcall.Contract{
		CallPath:       "/call",
		NameKey:        "function", // unknown
		ArgsKey:        "arguments",
		SpreadsheetKey: "spreadsheet_id",
		SheetKey:       "sheet",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool contract")
}

func TestValidate_SheetsIgnoresContract(t *testing.T) {
	// The contract is only checked on the toolcall transport.
	cfg := Default()
	cfg.Source.Transport = "sheets"
	cfg.Source.ToolContract = toolcall.Contract{CallPath: "broken"}

	assert.NoError(t, cfg.Validate())
}

func TestValidate_LoggingFallbacks(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestMergeConfigs_EnvWins(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Server.Port = 9090
	fileCfg.Source.Spreadsheet = "file-sheet"
	fileCfg.Source.Token = "file-token"

	envCfg := *Default()
	envCfg.Source.Spreadsheet = "env-sheet"

	merged := mergeConfigs(fileCfg, envCfg)

	// Env value kept where present, file value fills the gap.
	assert.Equal(t, "env-sheet", merged.Source.Spreadsheet)
	assert.Equal(t, "file-token", merged.Source.Token)
	assert.Equal(t, 8080, merged.Server.Port)
}

func TestMergeConfigs_FileFillsContract(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Source.ToolContract = toolcall.Contract{
		CallPath:       "/invoke",
		NameKey:        "tool",
		ArgsKey:        "args",
		SpreadsheetKey: "id",
	}

	envCfg := *Default()
	envCfg.Source.ToolContract = toolcall.Contract{}

	merged := mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, "/invoke", merged.Source.ToolContract.CallPath)
}

func TestLoggingLevelValidation(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := Default()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %s", level)
	}
}
