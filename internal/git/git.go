package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// ChangedFiles runs `git diff --name-only <ref>` in dir and returns the
// repo-relative paths of files that changed since ref. The caller decides
// what to do with paths outside the compiled source set.
func ChangedFiles(dir, ref string) ([]string, error) {
	cmd := exec.Command("git", "diff", "--name-only", ref)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff against %s failed: %w", ref, err)
	}
	return parseNameOnly(output), nil
}

func parseNameOnly(output []byte) []string {
	files := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	return files
}
