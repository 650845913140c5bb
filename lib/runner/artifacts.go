package runner

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"salespipe-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Artifact is a debug dump (screenshot, html snapshot) a scraper wrote
// while failing. The driver never consumes these, it only surfaces
// their paths in the error so a human can look at them.
type Artifact struct {
	Path  string
	Title string
}

// collectArtifacts lists files under the script's debug/ directory
// modified at or after the run started. HTML dumps get their <title>
// attached, which usually names the page the scraper died on.
func collectArtifacts(dir string, since time.Time) []Artifact {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var artifacts []Artifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().Before(since) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		artifact := Artifact{Path: path}
		if strings.HasSuffix(entry.Name(), ".html") {
			artifact.Title = htmlTitle(path)
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts
}

func htmlTitle(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return ""
	}
	return textutil.NormalizeSpace(doc.Find("title").First().Text())
}
