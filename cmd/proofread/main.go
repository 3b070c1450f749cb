// Proofread checks documents against a configurable set of validators,
// including Go rule scripts loaded from a directory or a git repository.
//
// Usage:
//
//	# Check plain text files with the validators from proofread.yaml
//	proofread check README.md docs/guide.txt
//
//	# Use a specific configuration and JSON output
//	proofread check --config ci.yaml --format json docs.yaml
//
//	# List the rule scripts and the hooks they define
//	proofread plugins list
//
//	# Re-run whenever inputs or rule scripts change
//	proofread watch docs/
//
//	# Show recent runs from the findings history
//	proofread history --limit 10
package main

func main() {
	Execute()
}
