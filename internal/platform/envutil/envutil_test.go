package envutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReaders(t *testing.T) {
	t.Setenv("AQ_TEST_INT", " 12 ")
	t.Setenv("AQ_TEST_BAD_INT", "twelve")
	t.Setenv("AQ_TEST_BOOL", "off")
	t.Setenv("AQ_TEST_SECONDS", "0")
	t.Setenv("AQ_TEST_FLOAT", "0.25")
	t.Setenv("AQ_TEST_LIST", " a, ,b ,")

	if got := Int("AQ_TEST_INT", 1); got != 12 {
		t.Fatalf("Int: %d", got)
	}
	if got := Int("AQ_TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback: %d", got)
	}
	if Bool("AQ_TEST_BOOL", true) {
		t.Fatalf("Bool: want false")
	}
	if !Bool("AQ_TEST_UNSET_BOOL", true) {
		t.Fatalf("Bool default: want true")
	}
	if got := Seconds("AQ_TEST_SECONDS", 3*time.Second); got != 3*time.Second {
		t.Fatalf("Seconds: non-positive should fall back, got %s", got)
	}
	if got := Float("AQ_TEST_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: %v", got)
	}
	if got := List("AQ_TEST_LIST"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List: %q", got)
	}
	if got := String("AQ_TEST_UNSET", "dflt"); got != "dflt" {
		t.Fatalf("String default: %q", got)
	}
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("AQ_DOTENV_NEW=from-file\nAQ_DOTENV_SET=from-file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("AQ_DOTENV_SET", "from-env")
	t.Setenv("AQ_DOTENV_NEW", "")
	os.Unsetenv("AQ_DOTENV_NEW")

	LoadDotEnv(nil, path, filepath.Join(t.TempDir(), "missing.env"))

	if got := os.Getenv("AQ_DOTENV_NEW"); got != "from-file" {
		t.Fatalf("new var: %q", got)
	}
	if got := os.Getenv("AQ_DOTENV_SET"); got != "from-env" {
		t.Fatalf("existing var overridden: %q", got)
	}
}
