/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: check.go
Description: check subcommand, adapted from the teacher's self-check command.
Validates input readability and output-directory writability without
running any detection pipeline, for CI/CD integration.
*/

package commands

import (
	"fmt"
	"os"

	"github.com/kleascm/loghound/pkg/types"
)

// RunCheck implements the check subcommand.
func RunCheck(path string, opts CheckFlags) error {
	if _, err := readInput(path); err != nil {
		return err
	}
	fmt.Printf("ok: %s is readable\n", path)

	for _, dir := range []struct {
		flag string
		path string
	}{
		{"--extract-dir", opts.ExtractDir},
		{"--html-report", opts.HTMLReport},
	} {
		if dir.path == "" {
			continue
		}
		if err := checkWritable(dir.path); err != nil {
			return fmt.Errorf("%w: %s (%s) not writable: %v", types.ErrInputIO, dir.flag, dir.path, err)
		}
		fmt.Printf("ok: %s is writable\n", dir.path)
	}

	fmt.Println("all checks passed")
	return nil
}

// checkWritable ensures dir exists (creating it if necessary) and that a
// file can be created inside it.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".loghound-check-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
