package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/tenget/pkg/catalog"
	"github.com/glorpus-work/tenget/pkg/model"
	"github.com/glorpus-work/tenget/test/testutil"
)

// setupCatalogFixture starts a fake downloads site with one agent product
// line and points the CLI config at it.
func setupCatalogFixture(t *testing.T) {
	t.Helper()

	server := testutil.NewCatalogServer(t)
	server.AddFamily(t, catalog.FamilyNessusAgents, map[string]testutil.Product{
		"nessus-agents-10.8.4": {
			ProductName: "Nessus Agents",
			Version:     "10.8.4",
			Downloads: []model.Artifact{
				{
					ID:   201,
					Name: "NessusAgent-10.8.4-ubuntu1604_amd64.deb",
					Metadata: model.Metadata{
						Version: "10.8.4",
						SHA256:  "cafe01",
					},
				},
				{
					ID:   202,
					Name: "NessusAgent-10.8.4-el8.aarch64.rpm",
					Metadata: model.Metadata{
						Version: "10.8.4",
					},
				},
			},
		},
	})

	configPath := testutil.WriteTestConfig(t, server.URL(), "")
	overrideCLIVars(t, configPath)
}

// overrideCLIVars points the package-level flag variables at test values and
// restores them when the test ends.
func overrideCLIVars(t *testing.T, configPath string) {
	t.Helper()

	prevConfig, prevVerbose, prevOutput := ConfigPath, Verbose, OutputFormat
	t.Cleanup(func() {
		ConfigPath, Verbose, OutputFormat = prevConfig, prevVerbose, prevOutput
	})

	verbose := false
	output := ""
	ConfigPath = &configPath
	Verbose = &verbose
	OutputFormat = &output
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestLookupCmd_Text(t *testing.T) {
	setupCatalogFixture(t)

	out, err := runCommand(t, NewLookupCmd(),
		"--os", "Ubuntu", "--os-version", "20", "--arch", "x86_64", "--os-type", "Debian")
	require.NoError(t, err)

	assert.Contains(t, out, "NessusAgent-10.8.4-ubuntu1604_amd64.deb")
	assert.Contains(t, out, "downloads/201/download")
	assert.Contains(t, out, "SHA256:   cafe01")
}

func TestLookupCmd_JSON(t *testing.T) {
	setupCatalogFixture(t)
	jsonFormat := "json"
	OutputFormat = &jsonFormat

	out, err := runCommand(t, NewLookupCmd(),
		"--os", "CentOS", "--os-version", "8", "--arch", "arm64", "--os-type", "RedHat")
	require.NoError(t, err)

	var result struct {
		Product     string         `json:"product"`
		DownloadURL string         `json:"download_url"`
		Artifact    model.Artifact `json:"artifact"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, catalog.FamilyNessusAgents, result.Product)
	assert.Equal(t, int64(202), result.Artifact.ID)
	assert.Contains(t, result.DownloadURL, "downloads/202/download")
}

func TestLookupCmd_NoMatch(t *testing.T) {
	setupCatalogFixture(t)

	_, err := runCommand(t, NewLookupCmd(),
		"--os", "Windows", "--os-version", "11", "--arch", "x86_64", "--os-type", "Windows")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no artifact in")
}

func TestProductsCmd(t *testing.T) {
	setupCatalogFixture(t)

	out, err := runCommand(t, NewProductsCmd())
	require.NoError(t, err)
	assert.Contains(t, out, catalog.FamilyNessusAgents)
	assert.Contains(t, out, catalog.FamilySecurityCenter)

	out, err = runCommand(t, NewProductsCmd(), "--family", catalog.FamilyNessusAgents)
	require.NoError(t, err)
	assert.Contains(t, out, "nessus-agents-10.8.4")
	assert.Contains(t, out, "(latest)")
}

func TestPlatformCmd_Overrides(t *testing.T) {
	setupCatalogFixture(t)

	out, err := runCommand(t, NewPlatformCmd(),
		"--os", "Debian", "--os-version", "12", "--arch", "aarch64", "--os-type", "Debian")
	require.NoError(t, err)
	assert.Contains(t, out, "OS:            Debian")
	assert.Contains(t, out, "Major version: 12")
	assert.Contains(t, out, "Architecture:  aarch64")
}

func TestConfigCmd_InitAndShow(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	overrideCLIVars(t, configPath)

	out, err := runCommand(t, NewConfigCmd(), "init")
	require.NoError(t, err)
	assert.Contains(t, out, configPath)

	// a second init without --force refuses to clobber the file
	_, err = runCommand(t, NewConfigCmd(), "init")
	require.Error(t, err)

	out, err = runCommand(t, NewConfigCmd(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_product: nessus-agents")
}
