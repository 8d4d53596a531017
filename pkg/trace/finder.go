package trace

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// ProfileName is the per-process profile file remake writes next to each
// invocation's working directory.
const ProfileName = ".makegrind.json"

// FindTraceFiles walks a build tree and returns every profile file,
// skipping version control and build-output directories.
func FindTraceFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if name == ".git" || strings.HasPrefix(name, "bazel-") {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() == ProfileName || strings.HasSuffix(d.Name(), ProfileName) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}
