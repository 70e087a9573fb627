package config

import (
	"io/ioutil"
	"os"
	"testing"
)

func newTestFile(t *testing.T) *File {
	t.Helper()
	dir, err := ioutil.TempDir("", "gscsync-config")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return NewConfigFileWithDir(dir, MainFileFullName)
}

func TestConfigSetGet(t *testing.T) {
	f := newTestFile(t)
	if err := f.Set("log-level", "debug"); err != nil {
		t.Fatal(err)
	}
	var got string
	if err := f.Get("log-level", &got); err != nil {
		t.Fatal(err)
	}
	if got != "debug" {
		t.Fatalf("expected debug, got %v", got)
	}
	// Reload from disk via a fresh File.
	f2 := NewConfigFileWithDir(f.Dirname, f.FileName)
	got = ""
	if err := f2.Get("log-level", &got); err != nil {
		t.Fatal(err)
	}
	if got != "debug" {
		t.Fatalf("expected debug after reload, got %v", got)
	}
}

func TestConfigMissingKey(t *testing.T) {
	f := newTestFile(t)
	var got string
	err := f.Get("nope", &got)
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if _, ok := err.(KeyNotFoundError); !ok {
		t.Fatalf("expected KeyNotFoundError, got %T", err)
	}
}

func TestConfigMissingFileIsEmpty(t *testing.T) {
	f := newTestFile(t)
	keys, err := f.GetAllKeys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestConfigDelete(t *testing.T) {
	f := newTestFile(t)
	if err := f.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	if err := f.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if err := f.Delete("k"); err == nil {
		t.Fatal("expected error deleting a missing key")
	}
}

func TestProfileRoundTrip(t *testing.T) {
	f := newTestFile(t)
	p := Profile{
		SiteURL:  "https://example.com/",
		Project:  "my-project",
		Dataset:  "seo",
		RawTable: "searchdata",
		RowLimit: 25000,
	}
	if err := f.SaveProfile("example", p); err != nil {
		t.Fatal(err)
	}
	f2 := NewConfigFileWithDir(f.Dirname, f.FileName)
	got, err := f2.LoadProfile("example")
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Fatalf("profile mismatch: %+v vs %+v", got, p)
	}
	names, err := f2.ProfileNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "example" {
		t.Fatalf("unexpected profile names %v", names)
	}
	if _, err := f2.LoadProfile("missing"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
