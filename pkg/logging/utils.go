package logging

import displaygen_io "github.com/klothoplatform/displaygen/pkg/io"

// FileNames lists the paths of files, for logging a batch of outputs.
func FileNames(files []displaygen_io.File) []string {
	s := make([]string, len(files))
	for i, f := range files {
		s[i] = f.Path()
	}
	return s
}
