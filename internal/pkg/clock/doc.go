// Package clock hides time.Now behind Clocker so flash expiry, account
// timestamps and tests share one notion of "now". Fixed is the test double.
package clock
