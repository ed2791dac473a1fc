// Package passes implements transformation passes over the nir IR.
//
// Every pass reports a progress flag so callers can decide whether to
// re-run dependent analyses or iterate to a fixpoint. Passes that
// mutate a function body declare which cached metadata they kept
// valid via ir.FunctionImpl.Preserve.
package passes
