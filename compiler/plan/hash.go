package plan

import (
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// artifactNamespace scopes the deterministic IDs of generated artifacts.
var artifactNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/comnipl/servify/artifact"))

// ArtifactID is stable across runs for the same qualified name.
func ArtifactID(parts ...string) string {
	return uuid.NewSHA1(artifactNamespace, []byte(strings.Join(parts, "\x00"))).String()
}

// Hash fingerprints the plan structure. InputHash is excluded so that equal
// declarations in different locations hash equal.
func Hash(p *Plan) (string, error) {
	cp := *p
	cp.InputHash = ""
	data, err := Marshal(&cp)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// ComputeInputHash hashes every .cue file under root in path order.
func ComputeInputHash(root string) (string, error) {
	h := sha256.New()
	root = filepath.Clean(root)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != root && SkipDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	sort.Strings(files)
	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return "", err
		}
		if _, err := io.WriteString(h, filepath.ToSlash(rel)+"\n"); err != nil {
			return "", err
		}
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		_, copyErr := io.Copy(h, f)
		closeErr := f.Close()
		if copyErr != nil {
			return "", copyErr
		}
		if closeErr != nil {
			return "", closeErr
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// SkipDir reports directories below the input root that hold no input:
// hidden and underscored directories and the CUE module metadata. The loader
// and ComputeInputHash both use it.
func SkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "cue.mod"
}

// ContentHash is the short fingerprint recorded in file changes.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:8])
}
