package commands

import (
	"bytes"
	"context"
	"errors"
	"omnivox-backend/lib/omnivox"
	"omnivox-backend/lib/testutil"
	"omnivox-backend/lib/timezone"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScrapeOutputOrder(t *testing.T) {
	portal := testutil.NewPortal(t)

	var out bytes.Buffer
	err := scrape(context.Background(), scrapeOptions{
		Config: Config{
			Institution:       "Sainte-Foy",
			LoginUrl:          portal.LoginUrl(),
			Username:          portal.Username,
			Password:          portal.Password,
			RequestsPerSecond: 1000,
		},
		Out:       &out,
		Transport: portal.Transport(),
		Clock:     timezone.FixedClock{Time: time.Date(2024, time.September, 15, 12, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	rendered := out.String()
	positions := []int{
		strings.Index(rendered, "Documents (3)"),
		strings.Index(rendered, "Assignments (2)"),
		strings.Index(rendered, "Calendar (2)"),
		strings.Index(rendered, "What's new:"),
	}
	for i, p := range positions {
		require.GreaterOrEqual(t, p, 0, "section %d is missing", i)
		if i > 0 {
			require.Greater(t, p, positions[i-1])
		}
	}
	require.NotContains(t, rendered, portal.Password)
}

func TestScrapeUnknownInstitution(t *testing.T) {
	var out bytes.Buffer
	err := scrape(context.Background(), scrapeOptions{
		Config: Config{Institution: "champlian", Username: "1234567", Password: "hunter2"},
		Out:    &out,
		Usage:  "Usage: omnivox-cli [institution] [student-number] [password]\n",
	})

	var exit *exitError
	require.True(t, errors.As(err, &exit))
	require.Equal(t, 2, exit.code)
	require.Contains(t, err.Error(), "did you mean 'champlain'")
	require.Contains(t, out.String(), "Usage: omnivox-cli")
	require.Contains(t, out.String(), "Supported institutions: champlain, saintfoy")
}

func TestScrapeRejectedCredentials(t *testing.T) {
	portal := testutil.NewPortal(t)

	err := scrape(context.Background(), scrapeOptions{
		Config: Config{
			Institution:       "saintfoy",
			LoginUrl:          portal.LoginUrl(),
			Username:          portal.Username,
			Password:          "wrong",
			RequestsPerSecond: 1000,
		},
		Out:       &bytes.Buffer{},
		Transport: portal.Transport(),
	})
	require.ErrorIs(t, err, omnivox.ErrAuthentication)
}

func TestScrapePromptsForMissingCredentials(t *testing.T) {
	portal := testutil.NewPortal(t)

	var asked []string
	var out bytes.Buffer
	err := scrape(context.Background(), scrapeOptions{
		Config: Config{
			Institution:       "saintfoy",
			LoginUrl:          portal.LoginUrl(),
			RequestsPerSecond: 1000,
		},
		Out: &out,
		Prompt: func(query string, secret bool) (string, error) {
			asked = append(asked, query)
			if secret {
				return portal.Password, nil
			}
			return portal.Username, nil
		},
		Transport: portal.Transport(),
		Clock:     timezone.FixedClock{Time: time.Date(2024, time.September, 15, 12, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"student number:", "password:"}, asked)
	require.Contains(t, out.String(), "Documents (3)")
}

func TestScrapeMissingCredentials(t *testing.T) {
	err := scrape(context.Background(), scrapeOptions{
		Config: Config{Institution: "champlain"},
		Out:    &bytes.Buffer{},
	})

	var exit *exitError
	require.True(t, errors.As(err, &exit))
	require.Equal(t, 2, exit.code)
}

func noEnv(string) string {
	return ""
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "omnivox.json5")
	err := os.WriteFile(path, []byte(`{
		institution: "champlain",
		username: "1234567",
		timeout_seconds: 20,
	}`), 0600)
	require.NoError(t, err)

	cfg, err := readConfig(path, []string{"saintfoy"}, noEnv)
	require.NoError(t, err)
	require.Equal(t, "saintfoy", cfg.Institution)
	require.Equal(t, "1234567", cfg.Username)
	require.Equal(t, 20, cfg.TimeoutSeconds)

	cfg, err = readConfig(filepath.Join(dir, "missing.json5"), []string{"champlain", "7654321", "secret"}, noEnv)
	require.NoError(t, err)
	require.Equal(t, Config{Institution: "champlain", Username: "7654321", Password: "secret"}, cfg)
}

func TestReadConfigEnvironment(t *testing.T) {
	env := map[string]string{
		envInstitution: "champlain",
		envUsername:    "1111111",
		envPassword:    "from-env",
	}
	getenv := func(key string) string {
		return env[key]
	}

	cfg, err := readConfig(filepath.Join(t.TempDir(), "missing.json5"), nil, getenv)
	require.NoError(t, err)
	require.Equal(t, Config{Institution: "champlain", Username: "1111111", Password: "from-env"}, cfg)

	// the command line still wins over the environment
	cfg, err = readConfig(filepath.Join(t.TempDir(), "missing.json5"), []string{"saintfoy", "2222222"}, getenv)
	require.NoError(t, err)
	require.Equal(t, "saintfoy", cfg.Institution)
	require.Equal(t, "2222222", cfg.Username)
	require.Equal(t, "from-env", cfg.Password)
}

func TestScrapeWritesIcs(t *testing.T) {
	portal := testutil.NewPortal(t)
	path := filepath.Join(t.TempDir(), "calendar.ics")

	err := scrape(context.Background(), scrapeOptions{
		Config: Config{
			Institution:       "saintfoy",
			LoginUrl:          portal.LoginUrl(),
			Username:          portal.Username,
			Password:          portal.Password,
			RequestsPerSecond: 1000,
			Ics:               path,
		},
		Out:       &bytes.Buffer{},
		Transport: portal.Transport(),
		Clock:     timezone.FixedClock{Time: time.Date(2024, time.September, 15, 12, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "BEGIN:VCALENDAR")
	require.Equal(t, 2, strings.Count(string(contents), "BEGIN:VEVENT"))
}
