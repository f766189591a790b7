package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/derivatives/internal/catalog"
	"gopkg.in/yaml.v3"
)

func TestBuildOrdersByCatalogID(t *testing.T) {
	artifacts := []*catalog.Artifact{
		{ID: 15, Views: []catalog.View{{Pose: "main", SourcePath: "/in/15__main.tif", Width: 100, Height: 50}}},
		{ID: 3, Views: []catalog.View{{Pose: "top", SourcePath: "/in/3__top.tif", Width: 60, Height: 40}}},
		{ID: 7, Views: []catalog.View{
			{Pose: "main", SourcePath: "/in/7__main.tif", Width: 3000, Height: 2000},
			{Pose: "top", SourcePath: "/in/7__top.tif", Width: 1200, Height: 900},
		}},
	}

	entries := Build(artifacts)

	wantCats := []int{3, 7, 15}
	if len(entries) != len(wantCats) {
		t.Fatalf("Expected %d entries, got %d", len(wantCats), len(entries))
	}
	for i, want := range wantCats {
		if entries[i].Cat != want {
			t.Errorf("Expected entry %d cat %d, got %d", i, want, entries[i].Cat)
		}
	}

	images := entries[1].Images
	if len(images) != 2 {
		t.Fatalf("Expected 2 images for cat 7, got %d", len(images))
	}
	if images[0].Face != "main" || images[0].Width != 3000 || images[0].Height != 2000 {
		t.Errorf("Unexpected first image: %+v", images[0])
	}
	if images[1].Face != "top" || images[1].Width != 1200 || images[1].Height != 900 {
		t.Errorf("Unexpected second image: %+v", images[1])
	}
}

func TestManifestNeverLeaksSourcePaths(t *testing.T) {
	artifacts := []*catalog.Artifact{
		{ID: 12, Views: []catalog.View{{Pose: "bottom", SourcePath: "/home/photos/12__bottom.tif", Width: 10, Height: 10}}},
	}

	data, err := yaml.Marshal(Build(artifacts))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "/home/photos") {
		t.Errorf("Manifest leaked a filesystem path:\n%s", data)
	}
	if strings.Contains(strings.ToLower(string(data)), "path") {
		t.Errorf("Manifest contains a path field:\n%s", data)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yml")
	entries := []Entry{
		{Cat: 7, Images: []Image{{Face: "main", Width: 3000, Height: 2000}}},
	}

	if err := Write(path, entries); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got []Entry
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to parse written manifest: %v", err)
	}
	if len(got) != 1 || got[0].Cat != 7 || got[0].Images[0].Face != "main" {
		t.Errorf("Unexpected round trip result: %+v", got)
	}
}

func TestBuildEmptyScan(t *testing.T) {
	entries := Build(nil)
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}
