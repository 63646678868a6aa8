package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Institution string `json:"institution"`
	Username    string `json:"username"`
	Timeout     int    `json:"timeout_seconds"`
}

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "omnivox.json5"), `{
		// shared defaults
		institution: "saintfoy",
		timeout_seconds: 10,
	}`)
	writeFile(t, filepath.Join(dir, "omnivox.local.json5"), `{
		username: "1234567",
		timeout_seconds: 20,
	}`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "omnivox.json5"))
	require.NoError(t, err)
	require.Equal(t, testConfig{
		Institution: "saintfoy",
		Username:    "1234567",
		Timeout:     20,
	}, config)
}

func TestReadConfigNotFound(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "missing.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestOverlay(t *testing.T) {
	base := testConfig{Institution: "saintfoy", Timeout: 10}
	merged, err := Overlay(base, testConfig{Username: "1234567", Timeout: 5})
	require.NoError(t, err)
	require.Equal(t, testConfig{
		Institution: "saintfoy",
		Username:    "1234567",
		Timeout:     5,
	}, merged)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	err := os.MkdirAll(nested, 0700)
	require.NoError(t, err)
	writeFile(t, filepath.Join(root, "omnivox.json5"), `{institution: "champlain"}`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	defer os.Chdir(wd)

	config, err := ReadRecursively[testConfig]("omnivox.json5")
	require.NoError(t, err)
	require.Equal(t, "champlain", config.Institution)
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "omnivox.json5")
	writeFile(t, path, `{institution: "saintfoy", username: "1234567", timeout_seconds: 10}`)

	config, err := Load(
		path,
		testConfig{Username: "7654321", Timeout: 15},
		testConfig{Timeout: 30},
	)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		Institution: "saintfoy",
		Username:    "7654321",
		Timeout:     30,
	}, config)
}

func TestLoadWithoutFile(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "missing.json5"), testConfig{Institution: "champlain"})
	require.NoError(t, err)
	require.Equal(t, testConfig{Institution: "champlain"}, config)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omnivox.json5")
	writeFile(t, path, `{institution: `)

	_, err := Load[testConfig](path)
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}
