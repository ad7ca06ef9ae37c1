// Package relay fetches JSON from an upstream that cannot always be reached
// directly, using an ordered list of strategies: the direct URL plus several
// public CORS relays.
//
// Resolve races the first RaceWidth strategies and returns the first body
// that is a JSON object or array, cancelling the rest. If the whole race
// fails, the remaining strategies are tried one at a time. Every attempt has
// its own timeout, and no strategy is tried twice for one call. Total failure
// is reported as *AllStrategiesFailedError, which unwraps to the last
// underlying error.
//
// A 200 response carrying an HTML error page counts as a failure.
package relay
