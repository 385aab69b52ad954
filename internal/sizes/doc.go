// Package sizes holds the size-tier tables that scale every generated artifact.
//
// A size tier is an index in [MinTier, MaxTier]. Each tier maps to a number of
// simulated users, JMeter loop and ramp-up values, and the number of courses of
// each course size that a generated site contains. There is exactly one table;
// the test plan renderer, the users file limiter, the course checker and the
// site builder all read from it.
package sizes
