package io

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/utils"
)

var LogGit = base.NewLogCategory("Git")

/***************************************
 * Git source control
 ***************************************/

type GitRepository struct {
	Executable utils.Filename
	Repository utils.Directory
}

type GitFolderStatus struct {
	Revision  string
	Branch    string
	Timestamp time.Time
}

func (x GitFolderStatus) String() string {
	return fmt.Sprintf("%s@%s (%v)", x.Branch, x.Revision, x.Timestamp.Format(time.RFC3339))
}

func NewGitRepository(repository utils.Directory) (*GitRepository, error) {
	executable, err := FindExecutable("git")
	if err != nil {
		return nil, err
	}
	return &GitRepository{
		Executable: executable,
		Repository: repository,
	}, nil
}

func (git *GitRepository) Command(ctx context.Context, name string, args ...string) (string, error) {
	args = append([]string{"--no-optional-locks", name}, args...)
	base.LogVeryVerbose(LogGit, "run git command %v", strings.Join(args, " "))

	output, err := RunProcessOutput(ctx, git.Executable, args,
		OptionProcessWorkingDir(git.Repository))
	if err != nil {
		base.LogError(LogGit, "git command %v returned %v: %v", strings.Join(args, " "), err, output)
	}
	return output, err
}

// Clone performs a shallow recursive clone of branch, output is forwarded to the log.
func (git *GitRepository) Clone(ctx context.Context, url, branch string, depth int, dst utils.Directory) error {
	base.LogInfo(LogGit, "clone %q at %q in %q", url, branch, dst)
	return RunProcess(ctx, git.Executable, GitCloneArguments(url, branch, depth, dst.Basename()),
		OptionProcessWorkingDir(dst.Parent()),
		OptionProcessCaptureOutput)
}

func GitCloneArguments(url, branch string, depth int, dirname string) base.StringSet {
	return base.StringSet{
		"clone", "-b", branch,
		"--progress",
		"--depth", strconv.Itoa(depth),
		"--recursive", "--recurse-submodules",
		url, dirname,
	}
}

func (git *GitRepository) GetFolderStatus(ctx context.Context) (status GitFolderStatus, err error) {
	status.Revision = "no-revision-available"
	status.Branch = "no-branch-available"
	status.Timestamp = base.StartedAt()

	var outp string
	if outp, err = git.Command(ctx, "log", "-1", "--format=\"%H;%ct;%D\""); err != nil {
		return
	}
	if len(outp) == 0 {
		return // output is empty when the path is unknown to Git
	}
	err = parseGitLogLine(outp, &status)
	return
}

func parseGitLogLine(line string, status *GitFolderStatus) error {
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "\"")

	log := strings.SplitN(line, ";", 3)
	if len(log) < 3 {
		return fmt.Errorf("git: unexpected log line %q", line)
	}

	status.Revision = strings.TrimSpace(log[0])

	branchInfo := strings.Split(log[2], "->")
	status.Branch = branchInfo[len(branchInfo)-1]
	status.Branch = strings.Split(status.Branch, `,`)[0]
	status.Branch = strings.TrimSpace(status.Branch)

	unixT, err := strconv.ParseInt(strings.TrimSpace(log[1]), 10, 64)
	if err != nil {
		return err
	}
	status.Timestamp = time.Unix(unixT, 0)
	return nil
}
