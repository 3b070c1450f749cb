// Package git synchronises rule scripts from a Git repository.
//
// A Source clones the configured repository into a local directory on the
// first Sync and pulls on later calls. ScriptDir points the script loader
// at the cloned scripts. Token (HTTPS) and SSH key authentication are
// supported; public repositories need none.
//
//	src, err := git.NewSource(&cfg.Scripts.Git, script.Suffix, logger)
//	if _, err := src.Sync(ctx); err != nil {
//	    return err
//	}
//	plugins, err := loader.Load(src.ScriptDir())
package git
