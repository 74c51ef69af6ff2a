// Package manifest reads the two pieces of AndroidManifest.xml the rest of
// the pipeline needs: the activity classes that seed the initial file
// queue (an application's entry points) and the requested permissions,
// reported alongside the graph but never used to shape it.
//
// No XML library appears anywhere in the retrieved example repos, so this
// parses with the standard library's encoding/xml rather than reaching for
// a third-party decoder with no grounding in the corpus.
package manifest

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

type androidManifest struct {
	UsesPermission []permission `xml:"uses-permission"`
	Application    application `xml:"application"`
}

type permission struct {
	Name string `xml:"name,attr"`
}

type application struct {
	Activities []activity `xml:"activity"`
}

type activity struct {
	Name string `xml:"name,attr"`
}

// Manifest is the parsed subset of AndroidManifest.xml this pipeline
// reports on.
type Manifest struct {
	// ActivityFiles are entry-point smali file paths, e.g.
	// "smali/com/example/app/MainActivity.smali".
	ActivityFiles []string
	// Permissions are the bare permission names, e.g. "INTERNET" from
	// "android.permission.INTERNET".
	Permissions []string
}

// Read parses the manifest at path.
func Read(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}

	var doc androidManifest
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Manifest{}, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	m := Manifest{}
	for _, a := range doc.Application.Activities {
		if a.Name == "" {
			continue
		}
		m.ActivityFiles = append(m.ActivityFiles, "smali/"+strings.ReplaceAll(a.Name, ".", "/")+".smali")
	}
	for _, p := range doc.UsesPermission {
		if p.Name == "" {
			continue
		}
		fields := strings.Split(p.Name, ".")
		m.Permissions = append(m.Permissions, fields[len(fields)-1])
	}

	return m, nil
}
