package recipe

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/poppolopoppo/llvmboot/internal/base"
	internal_io "github.com/poppolopoppo/llvmboot/internal/io"
	"github.com/poppolopoppo/llvmboot/utils"
)

/***************************************
 * Source
 ***************************************/

type SourceCheckout struct {
	Url       string
	Branch    string
	Directory utils.Directory
}

func (r *Recipe) SourceCheckouts() []SourceCheckout {
	checkouts := []SourceCheckout{{
		Url:       LLVM_REPO_URL,
		Branch:    GetLlvmBranch(r.Env),
		Directory: r.Paths.LlvmSource(),
	}}
	if r.Options.IncludeWhatYouUse.Get() {
		checkouts = append(checkouts, SourceCheckout{
			Url:       IWYU_REPO_URL,
			Branch:    GetIwyuBranch(r.Env),
			Directory: r.Paths.IwyuSource(),
		})
	}
	return checkouts
}

// Source clones missing checkouts concurrently, existing folders are left untouched.
func (r *Recipe) Source(ctx context.Context) error {
	bench := base.LogBenchmark(LogRecipe, "source")
	defer bench.Close()

	if err := utils.UFS.MkdirEx(r.Paths.Source); err != nil {
		return err
	}

	var git *internal_io.GitRepository
	group, ctx := errgroup.WithContext(ctx)
	for _, it := range r.SourceCheckouts() {
		checkout := it
		if checkout.Directory.Exists() {
			base.LogVerbose(LogRecipe, "source %q already present, skipping clone", checkout.Directory)
			continue
		}

		if git == nil {
			var err error
			if git, err = internal_io.NewGitRepository(r.Paths.Source); err != nil {
				return err
			}
		}

		group.Go(func() error {
			return git.Clone(ctx, checkout.Url, checkout.Branch, CLONE_DEPTH, checkout.Directory)
		})
	}
	return group.Wait()
}

// SourceStatus logs the revision of each checkout present on disk.
func (r *Recipe) SourceStatus(ctx context.Context) error {
	for _, it := range r.SourceCheckouts() {
		if !it.Directory.Exists() {
			base.LogWarning(LogRecipe, "source %q is missing", it.Directory)
			continue
		}

		git, err := internal_io.NewGitRepository(it.Directory)
		if err != nil {
			return err
		}
		status, err := git.GetFolderStatus(ctx)
		if err != nil {
			return err
		}
		base.LogInfo(LogRecipe, "%s: %v", it.Directory.Basename(), status)
	}
	return nil
}
