// Package validationgate validates bound actions before their handler runs.
//
// The Gate intercepts the BindingAndValidation stage. Once binding has
// proceeded it validates the action against the default group followed by the
// groups declared on the handler, records every violation in the request's
// error collection and, when the collection is not empty, replaces the outcome
// with the source page outcome.
//
// Handlers registered with action.SkipValidation() are left untouched. Errors
// already present in the collection are kept; the gate only adds to it.
package validationgate
