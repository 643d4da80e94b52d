package testutils

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

var multiSpaceRegex = regexp.MustCompile(" +")

// RunGrader executes a grader command with the given arguments string (split by spaces).
// Use RunGraderArgs when arguments contain spaces that should be preserved.
func RunGrader(ctx context.Context, env []string, binary, cmdArgs string, nolog bool) (stdout, stderr []byte, err error) {
	cmdArgs = strings.TrimSpace(cmdArgs)
	cmdArgs = multiSpaceRegex.ReplaceAllString(cmdArgs, " ")

	var args []string
	if cmdArgs != "" {
		args = strings.Split(cmdArgs, " ")
	}

	return RunGraderArgs(ctx, env, binary, args, nolog)
}

// RunGraderArgs executes a grader command with pre-split arguments.
func RunGraderArgs(ctx context.Context, env []string, binary string, args []string, nolog bool) (stdout, stderr []byte, err error) {
	var outData, errData bytes.Buffer
	cmd := GraderCmd(ctx, env, binary, args, nolog)
	cmd.Stdout = &outData
	cmd.Stderr = &errData

	err = cmd.Run()

	return outData.Bytes(), errData.Bytes(), err
}

// GraderCmd returns a grader command ready to be started, used for long running
// commands like `serve`. Custom env vars override the inherited ones.
func GraderCmd(ctx context.Context, env []string, binary string, args []string, nolog bool) *exec.Cmd {
	cmd := exec.CommandContext(ctx, binary, args...)

	newEnv := append([]string{}, os.Environ()...)
	newEnv = append(newEnv, env...)
	if nolog {
		newEnv = append(newEnv, "GRADER_NO_LOG=true")
	}
	cmd.Env = newEnv

	return cmd
}
