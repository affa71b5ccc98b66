package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/devserver"
	"github.com/marketplace/storefront/internal/pkg/config"
)

const adminPassword = "admin-pw"

// useBackend points the CLI at a fresh seeded dev server and a private
// session file.
func useBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := devserver.New(context.Background(), config.DevServerConfig{
		JWTSecret:     "cli-test",
		TokenTTL:      time.Hour,
		Seed:          true,
		AdminPassword: adminPassword,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("devserver.New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	t.Setenv("STOREFRONT_STORAGE", config.StorageFile)
	t.Setenv("STOREFRONT_SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
	apiURL = ts.URL
	jsonOutput = false
	t.Cleanup(func() {
		apiURL = ""
		jsonOutput = false
	})
	return ts
}

// loginAs registers username (unless it is the admin) and logs in.
func loginAs(t *testing.T, username, pw string) {
	t.Helper()
	ctx := context.Background()
	var buf bytes.Buffer
	if username != devserver.AdminUsername {
		if code := runRegister(ctx, &buf, nil, username, pw); code != exitOK {
			t.Fatalf("register %s: exit %d: %s", username, code, buf.String())
		}
	}
	buf.Reset()
	if code := runLogin(ctx, &buf, nil, username, pw); code != exitOK {
		t.Fatalf("login %s: exit %d: %s", username, code, buf.String())
	}
}
