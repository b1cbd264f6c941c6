// Package action runs HTTP requests through an action lifecycle.
//
// A request is resolved to a Binding (a named action type with handlers),
// a fresh action value is created and populated from request input, and the
// selected handler is invoked. Each step is a lifecycle Stage that
// Interceptors can wrap: an interceptor calls Proceed to run the rest of the
// stage and may replace the Outcome it returns.
//
// Field-level problems are not returned as errors. They are collected in the
// request's ValidationErrors and rendered by the source page outcome, which
// sends the user back to the page that submitted the request.
package action
